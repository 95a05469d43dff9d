package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PolicyKind names a termination strategy.
type PolicyKind string

const (
	PolicyFixedIterations PolicyKind = "iterations"
	PolicyTimeBudget      PolicyKind = "time"
)

// DefaultBudget is the time budget used when no policy is configured.
const DefaultBudget = time.Second

// ErrInvalidPolicy is returned for policies that cannot drive a run.
var ErrInvalidPolicy = errors.New("invalid measurement policy")

// Policy decides when a run stops. Policies are immutable values; build them
// with FixedIterations, TimeBudget or ParsePolicy.
type Policy struct {
	kind       PolicyKind
	iterations uint64
	budget     time.Duration
}

// FixedIterations runs exactly n timed steps.
func FixedIterations(n uint64) Policy {
	return Policy{kind: PolicyFixedIterations, iterations: n}
}

// TimeBudget runs timed steps until the accumulated elapsed time reaches d.
func TimeBudget(d time.Duration) Policy {
	return Policy{kind: PolicyTimeBudget, budget: d}
}

// DefaultPolicy returns TimeBudget(DefaultBudget).
func DefaultPolicy() Policy {
	return TimeBudget(DefaultBudget)
}

func (p Policy) Kind() PolicyKind { return p.kind }
func (p Policy) Iterations() uint64 { return p.iterations }
func (p Policy) Budget() time.Duration { return p.budget }
func (p Policy) IsZero() bool { return p.kind == "" }

// Validate reports whether the policy can drive a run.
func (p Policy) Validate() error {
	switch p.kind {
	case PolicyFixedIterations:
		return nil
	case PolicyTimeBudget:
		if p.budget < 0 {
			return fmt.Errorf("%w: negative time budget %s", ErrInvalidPolicy, p.budget)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPolicy, p.kind)
	}
}

// String renders the policy in the same syntax ParsePolicy accepts.
func (p Policy) String() string {
	switch p.kind {
	case PolicyFixedIterations:
		return strconv.FormatUint(p.iterations, 10) + "x"
	case PolicyTimeBudget:
		return p.budget.String()
	default:
		return ""
	}
}

// ParsePolicy parses the go test -benchtime syntax: "<n>x" for a fixed
// iteration count, or any time.ParseDuration string for a time budget.
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Policy{}, fmt.Errorf("%w: empty policy", ErrInvalidPolicy)
	}

	if count, ok := strings.CutSuffix(s, "x"); ok {
		n, err := strconv.ParseUint(count, 10, 64)
		if err != nil {
			return Policy{}, fmt.Errorf("%w: invalid iteration count %q", ErrInvalidPolicy, count)
		}
		return FixedIterations(n), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: %q is neither <n>x nor a duration", ErrInvalidPolicy, s)
	}
	p := TimeBudget(d)
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
