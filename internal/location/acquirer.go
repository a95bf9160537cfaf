package location

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Policy configures the acquisition fallback chain.
type Policy struct {
	HighAccuracyTimeout time.Duration // Deadline for the high-accuracy attempt
	HighAccuracyMaxAge  time.Duration // Oldest acceptable cached fix, high-accuracy
	LowAccuracyTimeout  time.Duration // Deadline for the fallback attempt
	LowAccuracyMaxAge   time.Duration // Oldest acceptable cached fix, fallback
}

// DefaultPolicy returns the default acquisition policy.
func DefaultPolicy() Policy {
	return Policy{
		HighAccuracyTimeout: 8 * time.Second,
		HighAccuracyMaxAge:  60 * time.Second,
		LowAccuracyTimeout:  15 * time.Second,
		LowAccuracyMaxAge:   300 * time.Second,
	}
}

// Validate validates the policy and returns an error if invalid.
func (p Policy) Validate() error {
	if p.HighAccuracyTimeout <= 0 {
		return ErrInvalidPolicy{Field: "high_accuracy_timeout", Reason: "must be positive"}
	}
	if p.LowAccuracyTimeout <= 0 {
		return ErrInvalidPolicy{Field: "low_accuracy_timeout", Reason: "must be positive"}
	}
	if p.HighAccuracyMaxAge < 0 || p.LowAccuracyMaxAge < 0 {
		return ErrInvalidPolicy{Field: "max_age", Reason: "must be non-negative"}
	}
	return nil
}

// ErrInvalidPolicy is returned when the acquisition policy is invalid.
type ErrInvalidPolicy struct {
	Field  string
	Reason string
}

func (e ErrInvalidPolicy) Error() string {
	return e.Field + ": " + e.Reason
}

// Acquirer obtains position fixes through a Provider, retrying once with
// low accuracy when the high-accuracy attempt fails transiently.
type Acquirer struct {
	provider Provider
	policy   Policy
	logger   zerolog.Logger
}

// NewAcquirer creates an Acquirer over the given provider.
func NewAcquirer(provider Provider, policy Policy, logger zerolog.Logger) *Acquirer {
	return &Acquirer{provider: provider, policy: policy, logger: logger}
}

// Acquire returns the current position. The high-accuracy attempt runs
// first; on timeout or unavailability a single low-accuracy attempt with a
// longer deadline and a wider cached-fix window follows. Permission denial
// and missing platform support surface immediately without a retry.
func (a *Acquirer) Acquire(ctx context.Context) (Fix, error) {
	fix, err := a.attempt(ctx, Options{
		HighAccuracy: true,
		Timeout:      a.policy.HighAccuracyTimeout,
		MaxAge:       a.policy.HighAccuracyMaxAge,
	})
	if err == nil {
		return fix, nil
	}

	kind := Classify(err)
	if kind.Fatal() {
		return Fix{}, err
	}

	a.logger.Debug().Err(err).Msg("high-accuracy fix failed, falling back to low accuracy")

	fix, err = a.attempt(ctx, Options{
		HighAccuracy: false,
		Timeout:      a.policy.LowAccuracyTimeout,
		MaxAge:       a.policy.LowAccuracyMaxAge,
	})
	if err == nil {
		return fix, nil
	}
	if Classify(err).Fatal() {
		return Fix{}, err
	}
	// Both attempts failed transiently: recoverable, caller may retry.
	return Fix{}, ErrPositionUnavailable
}

func (a *Acquirer) attempt(ctx context.Context, opts Options) (Fix, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	return a.provider.Position(attemptCtx, opts)
}
