package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/scribble/internal/paint"
	"github.com/example/scribble/internal/preset"
	"github.com/example/scribble/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentPreset *preset.Preset
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentPreset = nil
			currentTheme = nil
			if name, ok := strings.CutPrefix(currentSection, "preset."); ok {
				currentPreset = &preset.Preset{Name: name}
				cfg.Presets[name] = currentPreset
			} else if name, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var key, value string
		if k, v, ok := strings.Cut(line, "="); ok {
			key, value = k, v
		} else if k, v, ok := strings.Cut(line, ":"); ok {
			key, value = k, v
		} else {
			continue
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		var err error
		switch {
		case currentPreset != nil:
			err = currentPreset.Set(key, value)
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		default:
			err = setField(cfg, currentSection, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d: error in section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, "\"") && strings.HasSuffix(v, "\"") {
		if s, err := strconv.Unquote(v); err == nil {
			return s
		}
		return v[1 : len(v)-1]
	}
	return v
}

// setField assigns key in section. Unknown keys are ignored for forward
// compatibility.
func setField(cfg *Config, section, key, value string) error {
	k := strings.ToLower(key)
	switch section {
	case "":
		switch k {
		case "output":
			cfg.Output = value
		case "history_limit":
			return setInt(&cfg.HistoryLimit, key, value, 0)
		case "preset":
			cfg.Preset = value
		case "theme":
			cfg.Theme = value
		}
	case "canvas":
		switch k {
		case "width":
			return setInt(&cfg.Canvas.Width, key, value, 1)
		case "height":
			return setInt(&cfg.Canvas.Height, key, value, 1)
		case "background":
			return setColor(&cfg.Canvas.Background, key, value)
		}
	case "brush":
		switch k {
		case "tool":
			if _, err := paint.ParseTool(value); err != nil {
				return err
			}
			cfg.Brush.Tool = value
		case "color":
			return setColor(&cfg.Brush.Color, key, value)
		case "size":
			return setFloat(&cfg.Brush.Size, key, value)
		case "opacity":
			return setFloat(&cfg.Brush.Opacity, key, value)
		case "hardness":
			return setFloat(&cfg.Brush.Hardness, key, value)
		}
	case "shape":
		switch k {
		case "line_thickness":
			return setFloat(&cfg.Shape.LineThickness, key, value)
		case "sides":
			return setInt(&cfg.Shape.Sides, key, value, 3)
		}
	case "text":
		switch k {
		case "size":
			return setFloat(&cfg.Text.Size, key, value)
		case "opacity":
			return setFloat(&cfg.Text.Opacity, key, value)
		case "value":
			cfg.Text.Value = value
		}
	case "notify":
		switch k {
		case "save":
			return setBool(&cfg.Notify.Save, key, value)
		case "copy":
			return setBool(&cfg.Notify.Copy, key, value)
		}
	case "serve":
		switch k {
		case "addr":
			cfg.Serve.Addr = value
		case "advertise":
			return setBool(&cfg.Serve.Advertise, key, value)
		case "instance":
			cfg.Serve.Instance = value
		}
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key, value string, minimum int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < minimum {
		return fmt.Errorf("key %s must be at least %d", key, minimum)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setColor(dst *color.RGBA, key, value string) error {
	c, err := paint.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	*dst = c
	return nil
}
