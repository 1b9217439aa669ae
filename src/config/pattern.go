package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a compiled rule test. It keeps the source text so a resolved
// config can be written back out unchanged.
type Pattern struct {
	raw string
	re  *regexp.Regexp
}

// ParsePattern compiles a rule test.
//
// Syntax:
//
//	"/\.css$/i"        — regex literal; flags from "imsguy"
//	"\.(png|jpg)$"     — bare regular expression
//
// Flags i, m and s become Go inline flags. g, u and y have no meaning for a
// single filename match and are accepted but ignored. Any other letter, or
// a flag given twice, is an error. A test for a literal "/" path segment is
// written with escaped slashes ("\/vendor\/lib") or without the leading one.
func ParsePattern(s string) (Pattern, error) {
	if strings.TrimSpace(s) == "" {
		return Pattern{}, fmt.Errorf("test pattern is empty")
	}

	source, flags, literal := splitLiteral(s)
	if !literal {
		source = s
	}
	if source == "" {
		return Pattern{}, fmt.Errorf("test pattern %q has an empty body", s)
	}

	var inline strings.Builder
	seen := make(map[rune]bool, len(flags))
	for _, f := range flags {
		if seen[f] {
			return Pattern{}, fmt.Errorf("test pattern %q repeats flag %q", s, f)
		}
		seen[f] = true

		switch f {
		case 'i', 'm', 's':
			inline.WriteRune(f)
		case 'g', 'u', 'y':
		default:
			return Pattern{}, fmt.Errorf("test pattern %q has unknown flag %q", s, f)
		}
	}
	if inline.Len() > 0 {
		source = "(?" + inline.String() + ")" + source
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return Pattern{}, fmt.Errorf("test pattern %q is not a valid regular expression: %w", s, err)
	}
	return Pattern{raw: s, re: re}, nil
}

// splitLiteral recognizes "/body/flags": a leading "/" and a tail after the
// last "/" made only of ASCII letters. The letters are checked by the caller.
func splitLiteral(s string) (body, flags string, ok bool) {
	if !strings.HasPrefix(s, "/") {
		return "", "", false
	}
	end := strings.LastIndex(s, "/")
	if end <= 0 {
		return "", "", false
	}
	tail := s[end+1:]
	for _, r := range tail {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return "", "", false
		}
	}
	return s[1:end], tail, true
}

// MatchString reports whether the pattern matches a file path.
func (p Pattern) MatchString(path string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(path)
}

// String returns the pattern as it was written.
func (p Pattern) String() string { return p.raw }

// Regexp returns the compiled Go expression.
func (p Pattern) Regexp() *regexp.Regexp { return p.re }
