// Package location acquires a position fix from a platform location
// provider, with a high-accuracy attempt and a low-accuracy fallback.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/cartwise/companion-service/internal/geo"
)

// Error kinds surfaced to callers. PermissionDenied and NotSupported are
// fatal and never retried; PositionUnavailable and Timeout trigger the
// low-accuracy fallback.
var (
	ErrPermissionDenied    = errors.New("location: permission denied")
	ErrPositionUnavailable = errors.New("location: position unavailable")
	ErrTimeout             = errors.New("location: timed out")
	ErrNotSupported        = errors.New("location: not supported on this platform")
)

// Kind classifies a provider error.
type Kind int

const (
	KindUnknown Kind = iota
	KindPermissionDenied
	KindPositionUnavailable
	KindTimeout
	KindNotSupported
)

// Classify maps a provider error to its Kind. Context deadline errors count
// as timeouts; anything unrecognized is treated as unavailable so the
// fallback still runs.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrNotSupported):
		return KindNotSupported
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrPositionUnavailable):
		return KindPositionUnavailable
	default:
		return KindUnknown
	}
}

// Fatal reports whether an error kind must not be retried.
func (k Kind) Fatal() bool {
	return k == KindPermissionDenied || k == KindNotSupported
}

// Fix is a single reported position with accuracy metadata.
type Fix struct {
	Coordinate geo.Coordinate
	AccuracyM  float64   // Estimated accuracy radius in meters, 0 if unknown
	ObservedAt time.Time // When the platform observed the position
}

// Options controls a single provider attempt.
type Options struct {
	HighAccuracy bool          // Request GPS-grade accuracy
	Timeout      time.Duration // Per-attempt deadline
	MaxAge       time.Duration // Oldest acceptable cached fix
}

// Provider is the platform location capability.
type Provider interface {
	// Position returns the current position, honoring the per-attempt
	// options. Errors must be classifiable via Classify.
	Position(ctx context.Context, opts Options) (Fix, error)
}
