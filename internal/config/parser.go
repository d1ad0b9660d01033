package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/annotate-edit/internal/theme"
)

// Parse reads configuration from r. Keys accept both "key = value" and
// "key: value" notation; unknown sections and keys are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()

	var section string
	var currentTheme *theme.Theme

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		key, value, ok := cutKeyValue(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "output":
			err = setOutputField(&cfg.Output, key, value)
		case section == "tool":
			err = setToolField(&cfg.Tool, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, err
			}
			return nil, fmt.Errorf("section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func cutKeyValue(line string) (key, value string, ok bool) {
	sep := strings.IndexAny(line, "=:")
	if sep < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:sep])
	value = strings.TrimSpace(line[sep+1:])
	if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
		value = value[1 : len(value)-1]
	}
	return key, value, key != ""
}

func setRootField(cfg *Config, key, value string) error {
	if strings.EqualFold(key, "theme") {
		cfg.Theme = value
	}
	return nil
}

func setOutputField(o *Output, key, value string) error {
	switch strings.ToLower(key) {
	case "suffix":
		o.Suffix = value
	case "in_place":
		return parseBoolField(key, value, &o.InPlace)
	case "jpeg_quality":
		q, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		if q < 1 || q > 100 {
			return fmt.Errorf("key %s: quality %d out of range 1..100", key, q)
		}
		o.JPEGQuality = q
	case "shadow":
		return parseBoolField(key, value, &o.Shadow)
	case "clipboard":
		return parseBoolField(key, value, &o.Clipboard)
	}
	return nil
}

func setToolField(t *Tool, key, value string) error {
	switch strings.ToLower(key) {
	case "tool":
		t.Tool = value
	case "color":
		t.Color = value
	case "width":
		return parseIntField(key, value, &t.Width)
	case "font_size":
		return parseIntField(key, value, &t.FontSize)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch strings.ToLower(key) {
	case "save":
		return parseBoolField(key, value, &n.Save)
	case "copy":
		return parseBoolField(key, value, &n.Copy)
	case "export":
		return parseBoolField(key, value, &n.Export)
	}
	return nil
}

func parseBoolField(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("key %s: invalid boolean %q", key, value)
	}
	*dst = b
	return nil
}

func parseIntField(key, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("key %s: %w", key, err)
	}
	*dst = n
	return nil
}
