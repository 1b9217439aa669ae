package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CheckRequires verifies the declaration's requires constraint against the
// running tool version. Unversioned development builds ("dev", or anything
// that is not semver) satisfy every constraint.
func CheckRequires(d Declaration, toolVersion string) error {
	if d.Requires == "" {
		return nil
	}

	c, err := semver.NewConstraint(d.Requires)
	if err != nil {
		return fmt.Errorf("requires: invalid constraint %q: %w", d.Requires, err)
	}

	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return nil
	}

	if ok, errs := c.Validate(v); !ok {
		msg := fmt.Sprintf("requires: packcfg %s does not satisfy %q", v, d.Requires)
		if len(errs) > 0 {
			msg += ": " + errs[0].Error()
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}
