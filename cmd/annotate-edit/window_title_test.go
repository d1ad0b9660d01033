package main

import "testing"

func TestWindowTitle(t *testing.T) {
	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() { version, commit, date = oldVersion, oldCommit, oldDate })

	version, commit, date = "1.2.0", "abc1234", "2026-08-01"
	got := windowTitle(titleOptions{File: "shot.png", Detail: "800x600"})
	want := "annotate-edit - shot.png - 800x600 - v1.2.0 - commit abc1234 - 2026-08-01"
	if got != want {
		t.Errorf("windowTitle = %q, want %q", got, want)
	}

	version, commit, date = "", "", ""
	if got := windowTitle(titleOptions{}); got != "annotate-edit" {
		t.Errorf("bare title = %q", got)
	}

	version = "dev"
	got = windowTitle(titleOptions{File: " pic.jpg ", Extras: []string{"readonly"}})
	want = "annotate-edit - pic.jpg - vdev - readonly"
	if got != want {
		t.Errorf("windowTitle = %q, want %q", got, want)
	}
}
