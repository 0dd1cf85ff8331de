package update

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/skoenig/depup/pkg/errors"
)

// bareVersion strips the range operator prefix from a declared constraint,
// yielding the version it pins (e.g. "^1.2.3" → "1.2.3"). A leading "v" is
// dropped as well.
func bareVersion(constraint string) string {
	s := strings.TrimSpace(constraint)
	s = strings.TrimLeft(s, "^~<>= ")
	return strings.TrimPrefix(s, "v")
}

// parseVersion parses s strictly: all three numeric components must be
// present. Anything else is an INVALID_VERSION error, a policy skip rather
// than a silent coercion.
func parseVersion(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVersion, err, "not a semantic version: %q", s)
	}
	return v, nil
}

// isStable reports whether v is a stable release (no pre-release suffix).
func isStable(v *semver.Version) bool {
	return v.Prerelease() == ""
}

// compareCore compares two versions component-wise on (major, minor,
// patch) only. Pre-release tags do not participate.
func compareCore(a, b *semver.Version) int {
	if c := compareUint(a.Major(), b.Major()); c != 0 {
		return c
	}
	if c := compareUint(a.Minor(), b.Minor()); c != 0 {
		return c
	}
	return compareUint(a.Patch(), b.Patch())
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
