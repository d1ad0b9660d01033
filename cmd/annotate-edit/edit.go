package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/annotate-edit/internal/anno"
	"github.com/example/annotate-edit/internal/editor"
	"github.com/example/annotate-edit/internal/imagefile"
	"github.com/example/annotate-edit/internal/render"
)

// editCmd opens one image in the annotation window. Any invocation whose
// first argument is not a reserved word lands here, so the flags live on the
// root flag set rather than a subcommand one.
type editCmd struct {
	file     string
	output   string
	tool     editor.Tool
	colorIdx int
	widthIdx int
	fontSize int
	quality  int
	*root
}

func parseEditCmd(positionals []string, r *root) (*editCmd, error) {
	if len(positionals) != 1 {
		return nil, &UsageError{of: r}
	}
	c := &editCmd{file: positionals[0], root: r}
	cfg := r.config

	toolName := resolveString(r.toolName, "ANNOTATE_EDIT_TOOL", cfg.Tool.Tool)
	if toolName == "" {
		c.tool = editor.ToolArrow
	} else {
		t, err := editor.ToolByName(toolName)
		if err != nil {
			return nil, err
		}
		c.tool = t
	}

	colorSpec := resolveString(r.colorSpec, "ANNOTATE_EDIT_COLOR", cfg.Tool.Color)
	if colorSpec == "" {
		c.colorIdx = editor.DefaultColorIndex()
	} else {
		col, name, err := editor.ResolveColor(colorSpec)
		if err != nil {
			return nil, err
		}
		c.colorIdx = editor.EnsurePaletteColor(col, name)
	}

	if width := resolveInt(r.width, "ANNOTATE_EDIT_WIDTH", cfg.Tool.Width, r.log); width > 0 {
		c.widthIdx = editor.EnsureWidth(width)
	} else {
		c.widthIdx = editor.DefaultWidthIndex()
	}

	c.fontSize = resolveInt(r.fontSize, "ANNOTATE_EDIT_FONT_SIZE", cfg.Tool.FontSize, r.log)
	if c.fontSize <= 0 {
		c.fontSize = render.DefaultTextSize()
	}

	c.quality = resolveInt(r.quality, "ANNOTATE_EDIT_QUALITY", cfg.Output.JPEGQuality, r.log)
	if c.quality < 1 || c.quality > 100 {
		c.quality = imagefile.DefaultJPEGQuality
	}

	output, err := outputPathFor(c.file, r.outputPath, r.inPlace, cfg.Output.Suffix)
	if err != nil {
		return nil, err
	}
	c.output = output
	return c, nil
}

func (c *editCmd) Run() error {
	img, format, err := imagefile.Load(c.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.file, err)
	}
	doc := anno.NewDocument(img)

	size := img.Bounds().Size()
	title := windowTitle(titleOptions{
		File:   filepath.Base(c.file),
		Detail: fmt.Sprintf("%dx%d", size.X, size.Y),
	})

	ed := editor.New(doc,
		editor.WithSource(c.file, format),
		editor.WithOutput(c.output),
		editor.WithTitle(title),
		editor.WithTool(c.tool),
		editor.WithColorIndex(c.colorIdx),
		editor.WithWidthIndex(c.widthIdx),
		editor.WithFontSize(c.fontSize),
		editor.WithJPEGQuality(c.quality),
		editor.WithShadow(c.shadow),
		editor.WithClipboardOnSave(c.clipboard),
		editor.WithTheme(c.activeTheme),
		editor.WithNotifier(c.notifier),
		editor.WithLogger(c.log.With().Str("component", "editor").Logger()),
	)
	ed.Run()
	if ed.Failed() {
		return fmt.Errorf("save failed: %s was not written", c.output)
	}
	return nil
}

// outputPathFor derives the save target. The default keeps the source
// directory and extension with the suffix spliced in, switching to .png when
// the source format cannot be written back.
func outputPathFor(file, flagOutput string, inPlace bool, suffix string) (string, error) {
	if inPlace && flagOutput != "" {
		return "", fmt.Errorf("-in-place and -output cannot be combined")
	}
	if inPlace {
		if err := checkWritableTarget(file); err != nil {
			return "", err
		}
		return file, nil
	}
	if flagOutput != "" {
		if err := checkWritableTarget(flagOutput); err != nil {
			return "", err
		}
		return flagOutput, nil
	}
	if strings.TrimSpace(suffix) == "" {
		suffix = "_annotated"
	}
	out := imagefile.OutputPath(file, suffix)
	if format, err := imagefile.FormatForPath(out); err != nil || !format.Writable() {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + ".png"
	}
	return out, nil
}

func checkWritableTarget(path string) error {
	format, err := imagefile.FormatForPath(path)
	if err != nil {
		return err
	}
	if !format.Writable() {
		return fmt.Errorf("cannot write %s: %s output is not supported", path, format)
	}
	return nil
}

// resolveString applies the CLI > Env > Config precedence for one setting.
// The built-in default stays with the caller.
func resolveString(flagVal, envKey, cfgVal string) string {
	if v := strings.TrimSpace(flagVal); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	return strings.TrimSpace(cfgVal)
}

func resolveInt(flagVal int, envKey string, cfgVal int, log zerolog.Logger) int {
	if flagVal != 0 {
		return flagVal
	}
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Warn().Str("var", envKey).Str("value", v).Msg("ignoring non-integer environment value")
		} else {
			return n
		}
	}
	return cfgVal
}

var rootFlagNames = map[string]struct{}{
	"output":    {},
	"in-place":  {},
	"tool":      {},
	"color":     {},
	"width":     {},
	"font-size": {},
	"quality":   {},
	"shadow":    {},
	"clipboard": {},
	"theme":     {},
	"config":    {},
	"verbose":   {},
	"version":   {},
}

var rootBoolFlags = map[string]struct{}{
	"in-place":  {},
	"shadow":    {},
	"clipboard": {},
	"verbose":   {},
	"version":   {},
}

// splitArgs separates known flags from positionals so the image path may sit
// before or after the flags. Anything unknown stays positional and fails the
// single-path check later rather than the flag parser.
func splitArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := rootFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := rootBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
