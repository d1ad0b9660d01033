package main

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/example/annotate-edit/internal/config"
	"github.com/example/annotate-edit/internal/imagefile"
)

func testRoot(t *testing.T) *root {
	t.Helper()
	return &root{
		fs:      flag.NewFlagSet("annotate-edit", flag.ContinueOnError),
		program: "annotate-edit",
		config:  config.New(),
		log:     zerolog.Nop(),
	}
}

func TestEditRunLoadError(t *testing.T) {
	cmd := &editCmd{file: "missing.png", root: testRoot(t)}
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "open missing.png") {
		t.Errorf("error = %v, want open context", err)
	}
	if !errors.Is(err, imagefile.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestParseEditRequiresExactlyOnePath(t *testing.T) {
	r := testRoot(t)
	for _, positionals := range [][]string{nil, {"a.png", "b.png"}} {
		_, err := parseEditCmd(positionals, r)
		var uerr *UsageError
		if !errors.As(err, &uerr) {
			t.Errorf("parseEditCmd(%v) err = %v, want UsageError", positionals, err)
		}
	}
}

func TestParseEditUnknownTool(t *testing.T) {
	t.Setenv("ANNOTATE_EDIT_TOOL", "")
	r := testRoot(t)
	r.toolName = "laser"
	_, err := parseEditCmd([]string{"shot.png"}, r)
	if err == nil || !strings.Contains(err.Error(), "laser") {
		t.Errorf("err = %v, want unknown tool", err)
	}
}

func TestParseEditBadColor(t *testing.T) {
	t.Setenv("ANNOTATE_EDIT_COLOR", "")
	r := testRoot(t)
	r.colorSpec = "blurple"
	_, err := parseEditCmd([]string{"shot.png"}, r)
	if err == nil || !strings.Contains(err.Error(), "blurple") {
		t.Errorf("err = %v, want bad color", err)
	}
}

func TestUsageErrorRendersRootHelp(t *testing.T) {
	r := testRoot(t)
	r.fs.StringVar(&r.outputPath, "output", "", "write the annotated image to this path instead of the default")
	msg := (&UsageError{of: r}).Error()
	if !strings.Contains(msg, "usage: annotate-edit [flags] <image>") {
		t.Errorf("help = %q, want usage line", msg)
	}
	if !strings.Contains(msg, "-output") {
		t.Errorf("help = %q, want -output flag listed", msg)
	}
	if !strings.Contains(msg, "config print") {
		t.Errorf("help = %q, want subcommand list", msg)
	}
}

func TestHelpTopics(t *testing.T) {
	r := testRoot(t)

	err := r.help(nil)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("help() = %v, want UsageError", err)
	}
	if !strings.Contains(err.Error(), "usage: annotate-edit") {
		t.Errorf("root help = %q", err.Error())
	}

	err = r.help([]string{"config"})
	if !errors.As(err, &uerr) || !strings.Contains(err.Error(), "config <print|save>") {
		t.Errorf("config help = %v", err)
	}

	err = r.help([]string{"version"})
	if !errors.As(err, &uerr) || !strings.Contains(err.Error(), "version") {
		t.Errorf("version help = %v", err)
	}

	err = r.help([]string{"frobnicate"})
	if !errors.As(err, &uerr) || !strings.Contains(err.Error(), "usage: annotate-edit [flags] <image>") {
		t.Errorf("unknown topic help = %v", err)
	}
}
