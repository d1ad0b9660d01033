package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/annotate-edit/internal/config"
	"github.com/example/annotate-edit/internal/logging"
	"github.com/example/annotate-edit/internal/notify"
	"github.com/example/annotate-edit/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	config      *config.Config
	notifier    *notify.Notifier
	log         zerolog.Logger
	activeTheme *theme.Theme

	outputPath  string
	inPlace     bool
	toolName    string
	colorSpec   string
	width       int
	fontSize    int
	quality     int
	shadow      bool
	clipboard   bool
	themeName   string
	verbose     bool
	showVersion bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	configPathOverride = configOverrideFromArgs(os.Args[1:], configPathOverride)
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:      flag.NewFlagSet("annotate-edit", flag.ExitOnError),
		program: "annotate-edit",
		config:  cfg,
	}
	r.fs.StringVar(&r.outputPath, "output", "", "write the annotated image to this path instead of the default")
	r.fs.BoolVar(&r.inPlace, "in-place", cfg.Output.InPlace, "overwrite the source file on save")
	// Precedence: CLI > Env > Config > Default. These stay empty or zero when
	// unset and the fallback chain runs while building the edit command.
	r.fs.StringVar(&r.toolName, "tool", "", "tool armed at startup: select, arrow, rect, ellipse, freehand, highlight or text")
	r.fs.StringVar(&r.colorSpec, "color", "", "startup color: a palette or SVG color name, or #RRGGBB[AA]")
	r.fs.IntVar(&r.width, "width", 0, "startup stroke width in pixels")
	r.fs.IntVar(&r.fontSize, "font-size", 0, "startup text size in points")
	r.fs.IntVar(&r.quality, "quality", 0, "JPEG quality from 1 to 100")
	r.fs.BoolVar(&r.shadow, "shadow", cfg.Output.Shadow, "composite a drop shadow behind the image on save")
	r.fs.BoolVar(&r.clipboard, "clipboard", cfg.Output.Clipboard, "also copy the result to the clipboard on save")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme for the editor chrome")
	r.fs.StringVar(&configPathOverride, "config", configPathOverride, "read configuration from this file")
	r.fs.BoolVar(&r.verbose, "verbose", false, "enable debug logging")
	r.fs.BoolVar(&r.showVersion, "version", false, "print the version and exit")
	r.fs.Usage = usageFunc(r)
	return r
}

// configOverrideFromArgs finds a -config value before flag parsing so the
// configuration can be loaded first and seed the flag defaults.
func configOverrideFromArgs(args []string, fallback string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg || name == "" {
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		if parts[0] != "config" {
			continue
		}
		if len(parts) == 2 {
			return parts[1]
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return fallback
}

func (r *root) Run(args []string) error {
	cmd, err := r.command(args)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// command picks the subcommand named by a reserved first argument, or builds
// the implicit edit command around the image path.
func (r *root) command(args []string) (runnable, error) {
	if len(args) > 0 {
		switch args[0] {
		case "config":
			return parseConfigCmd(args[1:], r)
		case "version":
			return &versionCmd{r: r}, nil
		case "help":
			return nil, r.help(args[1:])
		}
	}

	flagArgs, positionals, err := splitArgs(args)
	if err != nil {
		return nil, err
	}
	if err := r.fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if r.showVersion {
		return &versionCmd{r: r}, nil
	}

	r.log = logging.Console(r.verbose)
	r.notifier = notify.New(notify.LoadPreferences(), r.log.With().Str("component", "notify").Logger())
	r.notifier.Enable(notify.EventSave, r.config.Notify.Save)
	r.notifier.Enable(notify.EventCopy, r.config.Notify.Copy)
	r.notifier.Enable(notify.EventExport, r.config.Notify.Export)
	r.notifier.ApplyEnvOverrides()
	r.activeTheme = r.resolveTheme()

	return parseEditCmd(positionals, r)
}

func (r *root) help(args []string) error {
	if len(args) == 0 {
		return &UsageError{of: r}
	}
	switch args[0] {
	case "config":
		cmd, err := parseConfigCmd(nil, r)
		if err != nil {
			return err
		}
		return &UsageError{of: cmd}
	case "version":
		return &UsageError{of: &versionCmd{r: r}}
	default:
		return &UsageError{of: r}
	}
}

// resolveTheme applies the CLI > Env > Config > Default chain for the chrome
// palette. Themes defined inline in the config file win over files on disk.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("ANNOTATE_EDIT_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: theme %q: %v, using default\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
