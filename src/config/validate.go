package config

import (
	"fmt"
	"strings"
)

// Lint reports soft issues in a resolved config. None of them stop a build;
// callers print them as warnings.
func Lint(cfg *BuildConfig) (warnings []string) {
	// ── Output ────────────────────────────────────────────────────────────

	if strings.ContainsAny(cfg.OutputFilename, `/\`) {
		warnings = append(warnings, fmt.Sprintf("output.filename: %q contains a path separator; prefer output.path for directories", cfg.OutputFilename))
	}

	// ── Rules ─────────────────────────────────────────────────────────────

	firstByPattern := make(map[string]int)
	for i, r := range cfg.AssetRules {
		rpath := fmt.Sprintf("module.rules[%d]", i)

		if prev, ok := firstByPattern[r.Match.String()]; ok {
			warnings = append(warnings, fmt.Sprintf("%s: test %q duplicates module.rules[%d]; this rule never matches", rpath, r.Match.String(), prev))
		} else {
			firstByPattern[r.Match.String()] = i
		}

		if r.Match.MatchString(cfg.EntryPath) {
			warnings = append(warnings, fmt.Sprintf("%s: test %q matches the entry %q", rpath, r.Match.String(), cfg.EntryPath))
		}

		seen := make(map[string]bool)
		for _, h := range r.Handlers {
			if seen[h] {
				warnings = append(warnings, fmt.Sprintf("%s: handler %q listed more than once", rpath, h))
			}
			seen[h] = true
		}
	}

	return warnings
}
