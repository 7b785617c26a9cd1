// Package script implements the line-oriented command language used by the
// replay and interactive front ends.
//
// One command per line; blank lines and lines starting with '#' are
// skipped. Arguments are separated by spaces and may be double-quoted:
//
//	tool line
//	set lineThickness 3
//	line 10 10 50 50
//	set text "Hello there"
//	export out.png
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownCommand is returned for a command name outside the language.
var ErrUnknownCommand = errors.New("unknown command")

// Error ties a failure to the script line it came from.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Command is one parsed script line.
type Command struct {
	Line int
	Name string
	Args []string
}

func (c Command) String() string {
	parts := []string{c.Name}
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

type spec struct {
	min, max int
	usage    string
}

var commands = map[string]spec{
	"tool":   {1, 1, "tool NAME"},
	"set":    {2, 2, "set FIELD VALUE"},
	"down":   {2, 2, "down X Y"},
	"move":   {2, 2, "move X Y"},
	"up":     {0, 0, "up"},
	"leave":  {0, 0, "leave"},
	"line":   {4, 4, "line X0 Y0 X1 Y1"},
	"undo":   {0, 1, "undo [N]"},
	"redo":   {0, 1, "redo [N]"},
	"clear":  {0, 0, "clear"},
	"resize": {1, 2, "resize W H"},
	"flip":   {1, 1, "flip horizontal|vertical"},
	"preset": {1, 1, "preset NAME"},
	"export": {0, 1, "export [PATH]"},
	"status": {0, 0, "status"},
}

// Usage lists the syntax of every command, sorted.
func Usage() []string {
	out := make([]string, 0, len(commands))
	for _, name := range Names() {
		out = append(out, commands[name].usage)
	}
	return out
}

// Names lists the command names, sorted.
func Names() []string {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseLine parses a single line. It reports false for blank and comment
// lines.
func ParseLine(line string) (Command, bool, error) {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") {
		return Command{}, false, nil
	}
	fields, err := split(text)
	if err != nil {
		return Command{}, false, err
	}
	cmd := Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
	sp, ok := commands[cmd.Name]
	if !ok {
		return Command{}, false, fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])
	}
	if len(cmd.Args) < sp.min || len(cmd.Args) > sp.max {
		return Command{}, false, fmt.Errorf("usage: %s", sp.usage)
	}
	return cmd, true, nil
}

// Parse reads a whole script. The first bad line stops parsing with an
// *Error carrying its line number.
func Parse(r io.Reader) ([]Command, error) {
	var out []Command
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		cmd, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, &Error{Line: n, Err: err}
		}
		if ok {
			cmd.Line = n
			out = append(out, cmd)
		}
	}
	return out, scanner.Err()
}

// split breaks text on spaces, honouring double-quoted arguments with Go
// escape sequences.
func split(text string) ([]string, error) {
	var out []string
	rest := text
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return out, nil
		}
		if rest[0] == '"' {
			q, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("unterminated quote in %q", text)
			}
			s, _ := strconv.Unquote(q)
			out = append(out, s)
			rest = rest[len(q):]
			continue
		}
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		out = append(out, rest[:end])
		rest = rest[end:]
	}
}
