package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = dark

[output]
suffix = _marked
in_place = true
jpeg_quality = 75
shadow = true
clipboard = false

[tool]
tool = rect
color = #FF8800
width = 5
font_size = 24

[notify]
save = true
copy = false
export = true

[theme.custom]
Background: #111111
ToolbarText: #EEEEEE
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q", cfg.Theme)
	}
	wantOutput := Output{Suffix: "_marked", InPlace: true, JPEGQuality: 75, Shadow: true}
	if cfg.Output != wantOutput {
		t.Errorf("Output = %+v, want %+v", cfg.Output, wantOutput)
	}
	wantTool := Tool{Tool: "rect", Color: "#FF8800", Width: 5, FontSize: 24}
	if cfg.Tool != wantTool {
		t.Errorf("Tool = %+v, want %+v", cfg.Tool, wantTool)
	}
	wantNotify := Notify{Save: true, Export: true}
	if cfg.Notify != wantNotify {
		t.Errorf("Notify = %+v, want %+v", cfg.Notify, wantNotify)
	}

	custom, ok := cfg.Themes["custom"]
	if !ok {
		t.Fatal("custom theme not loaded")
	}
	if custom.Background.R != 0x11 || custom.Background.G != 0x11 || custom.Background.B != 0x11 {
		t.Errorf("custom Background = %+v", custom.Background)
	}
	if custom.ToolbarText.R != 0xEE {
		t.Errorf("custom ToolbarText = %+v", custom.ToolbarText)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Output.Suffix != "_annotated" {
		t.Errorf("default suffix = %q", cfg.Output.Suffix)
	}
	if cfg.Output.JPEGQuality != 90 {
		t.Errorf("default jpeg_quality = %d", cfg.Output.JPEGQuality)
	}
	if cfg.Output.InPlace || cfg.Notify.Save {
		t.Error("boolean defaults should be off")
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []string{
		"[output]\njpeg_quality = many\n",
		"[output]\njpeg_quality = 0\n",
		"[output]\nin_place = perhaps\n",
		"[tool]\nwidth = wide\n",
		"[notify]\nsave = yes please\n",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Parse succeeded for %q, want error", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark

[output]
suffix = _edited
in_place = false
jpeg_quality = 85
shadow = true
clipboard = true

[tool]
tool = ellipse
width = 2

[notify]
save = true
copy = true
export = false

[theme.custom]
Background: #000000
SelectionPrimary: #FF000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("initial parse: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("round-trip parse: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.Output != cfg2.Output {
		t.Errorf("Output mismatch: %+v vs %+v", cfg.Output, cfg2.Output)
	}
	if cfg.Tool != cfg2.Tool {
		t.Errorf("Tool mismatch: %+v vs %+v", cfg.Tool, cfg2.Tool)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1, t2 := cfg.Themes["custom"], cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatal("custom theme missing after round trip")
	}
	if *t1 != *t2 {
		t.Errorf("theme mismatch:\n got %+v\nwant %+v", t2, t1)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "special.rc")
	if err := os.WriteFile(override, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("v1.0.0", override)
	if got := l.ConfigPath(); got != override {
		t.Errorf("ConfigPath = %q, want override %q", got, override)
	}

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme = %q", cfg.Theme)
	}

	// A missing override falls through; with no other file present Load
	// returns defaults.
	l = NewLoader("v1.0.0", filepath.Join(dir, "missing.rc"))
	t.Setenv("HOME", dir)
	cfg, err = l.Load()
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.Theme != "" || cfg.Output.Suffix != "_annotated" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
