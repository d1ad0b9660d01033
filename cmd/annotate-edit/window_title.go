package main

import (
	"fmt"
	"strings"
)

// programTitle leads every window caption.
const programTitle = "annotate-edit"

type titleOptions struct {
	File   string
	Detail string
	Extras []string
}

// windowTitle assembles the window caption from the file being edited, its
// pixel dimensions and the build identity, joined with " - ".
func windowTitle(opts titleOptions) string {
	parts := []string{programTitle}

	if file := strings.TrimSpace(opts.File); file != "" {
		parts = append(parts, file)
	}
	if detail := strings.TrimSpace(opts.Detail); detail != "" {
		parts = append(parts, detail)
	}
	if v := strings.TrimSpace(version); v != "" {
		parts = append(parts, fmt.Sprintf("v%s", v))
	}
	if c := strings.TrimSpace(commit); c != "" {
		parts = append(parts, fmt.Sprintf("commit %s", c))
	}
	if d := strings.TrimSpace(date); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, opts.Extras...)

	return strings.Join(parts, " - ")
}
