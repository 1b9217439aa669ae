package config

import "fmt"

// MissingEntryError reports an absent or blank entry.
type MissingEntryError struct{}

func (MissingEntryError) Error() string {
	return "entry: is required and must be a non-empty relative path"
}

// InvalidEntryError reports an entry that is not a relative path.
type InvalidEntryError struct {
	Entry string
}

func (e InvalidEntryError) Error() string {
	return fmt.Sprintf("entry: %q must be relative to the config file, not absolute", e.Entry)
}

// AmbiguousModeError reports a declaration without a mode. There is no
// default; the caller must choose development or production.
type AmbiguousModeError struct{}

func (AmbiguousModeError) Error() string {
	return fmt.Sprintf("mode: is required (one of %s, %s); refusing to guess a default", ModeDevelopment, ModeProduction)
}

// InvalidModeError reports a mode outside the supported set.
type InvalidModeError struct {
	Mode string
}

func (e InvalidModeError) Error() string {
	return fmt.Sprintf("mode: unknown mode %q (supported: %s, %s)", e.Mode, ModeDevelopment, ModeProduction)
}

// InvalidRuleError reports a loader rule that violates the exactly-one-of
// use/type invariant or carries a malformed test pattern. Index is the
// rule's position in module.rules, or -1 when the rule was validated alone.
type InvalidRuleError struct {
	Index  int
	Reason string
}

func (e InvalidRuleError) Error() string {
	if e.Index < 0 {
		return "rule: " + e.Reason
	}
	return fmt.Sprintf("module.rules[%d]: %s", e.Index, e.Reason)
}
