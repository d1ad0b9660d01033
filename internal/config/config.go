// Package config reads and writes the RC-format configuration file. Values
// here sit below environment variables and command line flags in precedence.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/annotate-edit/internal/imagefile"
	"github.com/example/annotate-edit/internal/theme"
)

// Output controls where and how edited images are written.
type Output struct {
	Suffix      string // appended to the source stem for the default target
	InPlace     bool
	JPEGQuality int
	Shadow      bool
	Clipboard   bool
}

// Tool sets the drawing defaults the editor starts with. Zero values mean
// "use the built-in default".
type Tool struct {
	Tool     string
	Color    string
	Width    int
	FontSize int
}

// Notify enables desktop notifications per event.
type Notify struct {
	Save   bool
	Copy   bool
	Export bool
}

// Config is the application configuration.
type Config struct {
	Theme  string
	Output Output
	Tool   Tool
	Notify Notify
	Themes map[string]*theme.Theme
}

// New returns a Config with the built-in defaults.
func New() *Config {
	return &Config{
		Output: Output{
			Suffix:      "_annotated",
			JPEGQuality: imagefile.DefaultJPEGQuality,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String renders the configuration in RC format. Parse(String()) yields an
// equal Config, which the config save subcommand relies on.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n[output]\n")
	fmt.Fprintf(&sb, "suffix = %s\n", c.Output.Suffix)
	fmt.Fprintf(&sb, "in_place = %v\n", c.Output.InPlace)
	fmt.Fprintf(&sb, "jpeg_quality = %d\n", c.Output.JPEGQuality)
	fmt.Fprintf(&sb, "shadow = %v\n", c.Output.Shadow)
	fmt.Fprintf(&sb, "clipboard = %v\n", c.Output.Clipboard)

	if c.Tool != (Tool{}) {
		sb.WriteString("\n[tool]\n")
		if c.Tool.Tool != "" {
			fmt.Fprintf(&sb, "tool = %s\n", c.Tool.Tool)
		}
		if c.Tool.Color != "" {
			fmt.Fprintf(&sb, "color = %s\n", c.Tool.Color)
		}
		if c.Tool.Width != 0 {
			fmt.Fprintf(&sb, "width = %d\n", c.Tool.Width)
		}
		if c.Tool.FontSize != 0 {
			fmt.Fprintf(&sb, "font_size = %d\n", c.Tool.FontSize)
		}
	}

	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)
	for _, name := range themeNames {
		fmt.Fprintf(&sb, "\n[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].String())
	}

	return sb.String()
}
