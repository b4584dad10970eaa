package engine

import (
	"context"

	"github.com/sdejongh/dircompare/pkg/models"
)

// Outcome is the single value delivered by Start
type Outcome struct {
	Report *models.Report
	Err    error
}

// Start runs fn on its own goroutine and returns a channel that receives
// exactly one Outcome. The channel is buffered so the goroutine never blocks
// if the caller stops waiting. fn is not interrupted by ctx.
func Start(ctx context.Context, fn func(context.Context) (*models.Report, error)) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		report, err := fn(ctx)
		done <- Outcome{Report: report, Err: err}
	}()
	return done
}

// Wait blocks until the outcome arrives or ctx is done, whichever comes first
func Wait(ctx context.Context, outcome <-chan Outcome) (*models.Report, error) {
	select {
	case o := <-outcome:
		return o.Report, o.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
