package preset

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parse reads a preset definition: one "field: value" pair per line, with
// an optional "Name:" line.
func Parse(r io.Reader) (*Preset, error) {
	p := &Preset{}
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected \"field: value\"", n)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if strings.EqualFold(key, "Name") {
			p.Name = value
			continue
		}
		if err := p.Set(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	return p, scanner.Err()
}
