package theme

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}},
		{"#00ff80", color.RGBA{0, 255, 128, 255}},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"FF0000", "#F00", "#GG0000", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", bad)
		}
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	src := `
# comment
Name: Test
Background: #010203
ButtonBackgroundArmed: #04050607
UnknownKey: #FFFFFF
`
	th, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Test" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("Background = %+v", th.Background)
	}
	if th.ButtonBackgroundArmed != (color.RGBA{4, 5, 6, 7}) {
		t.Errorf("ButtonBackgroundArmed = %+v", th.ButtonBackgroundArmed)
	}
	// Unset keys keep the default value.
	if th.ToolbarText != Default().ToolbarText {
		t.Errorf("ToolbarText = %+v, want default", th.ToolbarText)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	_, err := Parse(strings.NewReader("Background: #NOPE00"))
	if err == nil {
		t.Fatal("expected error for invalid color value")
	}
	if !strings.Contains(err.Error(), "Background") {
		t.Errorf("error does not name the key: %v", err)
	}
}

func TestStringRoundTrips(t *testing.T) {
	orig := Default()
	orig.Name = "RoundTrip"
	orig.Background = color.RGBA{9, 8, 7, 255}
	orig.SelectionPrimary = color.RGBA{1, 2, 3, 200}

	parsed, err := Parse(strings.NewReader(orig.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *parsed != *orig {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, orig)
	}
}

func TestLoaderBuiltins(t *testing.T) {
	names := BuiltinNames()
	if len(names) < 2 {
		t.Fatalf("builtin themes = %v, want at least light and dark", names)
	}

	l := &Loader{}
	for _, name := range []string{"light", "dark", "Dark"} {
		th, err := l.Load(name)
		if err != nil {
			t.Errorf("Load(%q): %v", name, err)
			continue
		}
		if th.Name == "" {
			t.Errorf("Load(%q) produced unnamed theme", name)
		}
	}

	dark, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load(dark): %v", err)
	}
	if dark.Background == Default().Background {
		t.Error("dark theme background matches the light default")
	}
}

func TestLoaderEmptyNameFallsBack(t *testing.T) {
	th, err := (&Loader{}).Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if th.Name != Default().Name {
		t.Errorf("theme = %q, want default", th.Name)
	}
}

func TestLoaderFilePathAndConfigDir(t *testing.T) {
	dir := t.TempDir()
	body := "Name: FromFile\nBackground: #112233\n"
	path := filepath.Join(dir, "mine.theme")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{ConfigDir: dir}

	th, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load(path): %v", err)
	}
	if th.Name != "FromFile" {
		t.Errorf("Name = %q", th.Name)
	}

	th, err = l.Load("mine")
	if err != nil {
		t.Fatalf("Load(mine): %v", err)
	}
	if th.Background != (color.RGBA{0x11, 0x22, 0x33, 255}) {
		t.Errorf("Background = %+v", th.Background)
	}
}

func TestLoaderUnknownName(t *testing.T) {
	_, err := (&Loader{ConfigDir: t.TempDir()}).Load("no-such-theme")
	if err == nil {
		t.Fatal("expected error for unknown theme")
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		t.Errorf("error leaks a path lookup: %v", err)
	}
}
