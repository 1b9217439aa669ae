package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sofmeright/packcfg/src/config"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// IsCI reports whether we run inside a CI job.
func IsCI() bool {
	return os.Getenv("CI") == "true"
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// ConfigSection renders a resolved config inside a framed section.
func ConfigSection(w io.Writer, name string, cfg *config.BuildConfig, warnings []string, color bool) {
	sec := NewSection(w, name, 0, color)
	sec.Row("%-10s%s", "entry", cfg.EntryPath)
	sec.Row("%-10s%s", "output", cfg.OutputPath())
	sec.Row("%-10s%s", "mode", cfg.Mode)

	if len(cfg.AssetRules) > 0 {
		sec.Separator()
		for i, r := range cfg.AssetRules {
			handling := r.AssetType
			if handling == "" {
				handling = strings.Join(r.Handlers, " → ")
			}
			sec.Row("%d. %-28s%s", i+1, r.Match.String(), handling)
		}
	}

	if len(warnings) > 0 {
		sec.Separator()
		for _, warn := range warnings {
			sec.Row("%s %s", StatusIcon("warning", color), warn)
		}
	}
	sec.Close()
}

// FileStatus is one line of a validate summary.
type FileStatus struct {
	Path     string
	Err      error
	Warnings int
	Elapsed  time.Duration
}

// ValidationSummary renders per-file validation results and returns true
// if every file resolved.
func ValidationSummary(w io.Writer, results []FileStatus, elapsed time.Duration, color bool) bool {
	sorted := append([]FileStatus(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	sec := NewSection(w, "Validate", elapsed, color)
	ok := true
	for _, r := range sorted {
		switch {
		case r.Err != nil:
			ok = false
			SummaryRow(w, r.Path, "failed", r.Err.Error(), color)
		case r.Warnings > 0:
			SummaryRow(w, r.Path, "warning", fmt.Sprintf("%d warning(s)", r.Warnings), color)
		default:
			SummaryRow(w, r.Path, "success", formatElapsed(r.Elapsed), color)
		}
	}
	sec.Separator()
	status := "success"
	if !ok {
		status = "failed"
	}
	SummaryTotal(w, elapsed, status, color)
	sec.Close()
	return ok
}
