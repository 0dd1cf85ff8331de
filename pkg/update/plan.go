package update

import "fmt"

// Decision is the outcome of the reconciliation chain for one record.
type Decision int

const (
	// DecisionUpgrade rewrites the constraint to the latest version.
	DecisionUpgrade Decision = iota
	// DecisionCurrent means the declared version already matches latest.
	DecisionCurrent
	// DecisionUnstableLatest skips: declared is stable, latest is not.
	DecisionUnstableLatest
	// DecisionDowngrade skips: declared is ahead of latest.
	DecisionDowngrade
	// DecisionCapped skips: latest exceeds the configured major cap.
	DecisionCapped
	// DecisionUnparseable skips: declared or latest is not a semantic version.
	DecisionUnparseable
)

// String returns a short identifier for logging.
func (d Decision) String() string {
	switch d {
	case DecisionUpgrade:
		return "upgrade"
	case DecisionCurrent:
		return "current"
	case DecisionUnstableLatest:
		return "unstable-latest"
	case DecisionDowngrade:
		return "downgrade"
	case DecisionCapped:
		return "capped"
	case DecisionUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// Plan is a decided record. NewConstraint is set only for DecisionUpgrade.
type Plan struct {
	Record

	Decision      Decision
	NewConstraint string
	Reason        string
	// MajorBump flags an upgrade that crosses a major version boundary.
	MajorBump bool
}

// PlanRecord runs the fixed decision chain for one resolved record. The
// first matching rule decides the outcome; later rules are not evaluated.
// caps maps package names to major-version ceilings; packages without an
// entry are uncapped.
//
// The chain, in order: strip the constraint prefix, already-current,
// stability guard, no-downgrade guard, major cap, upgrade.
func PlanRecord(rec Record, caps map[string]uint64) Plan {
	plan := Plan{Record: rec}
	bare := bareVersion(rec.Constraint)

	if bare == rec.Latest {
		plan.Decision = DecisionCurrent
		plan.Reason = "up to date"
		return plan
	}

	declared, err := parseVersion(bare)
	if err != nil {
		plan.Decision = DecisionUnparseable
		plan.Reason = fmt.Sprintf("cannot compare %q: %v", rec.Constraint, err)
		return plan
	}
	latest, err := parseVersion(rec.Latest)
	if err != nil {
		plan.Decision = DecisionUnparseable
		plan.Reason = fmt.Sprintf("cannot compare latest %q: %v", rec.Latest, err)
		return plan
	}

	if isStable(declared) && !isStable(latest) {
		plan.Decision = DecisionUnstableLatest
		plan.Reason = fmt.Sprintf("declared %s is stable, latest %s is a pre-release", bare, rec.Latest)
		return plan
	}

	if compareCore(declared, latest) > 0 {
		plan.Decision = DecisionDowngrade
		plan.Reason = fmt.Sprintf("declared %s is newer than latest %s", bare, rec.Latest)
		return plan
	}

	if ceiling, capped := caps[rec.Name]; capped && latest.Major() > ceiling {
		plan.Decision = DecisionCapped
		plan.Reason = fmt.Sprintf("latest %s exceeds major cap %d", rec.Latest, ceiling)
		return plan
	}

	plan.Decision = DecisionUpgrade
	plan.NewConstraint = "^" + rec.Latest
	plan.MajorBump = latest.Major() != declared.Major()
	return plan
}
