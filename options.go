package tempusmark

import (
	"time"

	"github.com/sirupsen/logrus"
)

/*
Option defines a functional configuration modifier for New.

	m, err := New[NanoSec, Mark](1024,
		WithLogger(log),
		WithReportInterval(10*time.Second),
	)

Options are not generic over the measurer type. WithDetector and WithDumper
carry their own type parameters and New verifies that they match; a
mismatch fails construction with ErrPolicyMismatch.
*/

type Option func(*options)

type options struct {
	detector any
	dumper   any
	logger   logrus.FieldLogger
	interval time.Duration
}

// WithDetector overrides the detector registered for T on this instance only.
func WithDetector[T any](d Detector[T]) Option {
	return func(o *options) {
		o.detector = d
	}
}

// WithDumper overrides the default dumper on this instance only.
func WithDumper[T any, M comparable](d Dumper[T, M]) Option {
	return func(o *options) {
		o.dumper = d
	}
}

// WithLogger sets the logger used for lifecycle events. The default is
// logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

/*
WithReportInterval enables the occupancy reporter.

If d > 0:
    - A background goroutine logs Stats every d until Stop is called.

If d <= 0:
    - No goroutine is started.

The reporter reads the cursor only. It never touches record slots and so
never races with Record.
*/

func WithReportInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}
