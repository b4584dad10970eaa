// Package engine runs one comparison invocation end to end: traversal of both
// roots, matching, warning collection and report assembly.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/filter"
	"github.com/sdejongh/dircompare/pkg/logging"
	"github.com/sdejongh/dircompare/pkg/match"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/signature"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Options configures an engine
type Options struct {
	// Filter excludes entries during traversal (nil = no exclusions)
	Filter *filter.Matcher

	// Logger receives progress and warnings (nil = discard)
	Logger logging.Logger

	// Sampling parameters for the sampled signature
	Sampling signature.Sampling

	// BufferSize for full-content hashing
	BufferSize int
}

// ProgressUpdate reports hashing progress. Total is 0 when unknown.
type ProgressUpdate struct {
	Path  string
	Bytes int64
	Done  int
	Total int
}

// Engine compares two roots
type Engine struct {
	a, b     storage.Backend
	filter   *filter.Matcher
	logger   logging.Logger
	sampling signature.Sampling
	bufSize  int
	progress func(ProgressUpdate)
}

// New creates an engine over roots a and b
func New(a, b storage.Backend, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	sampling := opts.Sampling
	if sampling == (signature.Sampling{}) {
		sampling = signature.DefaultSampling()
	}
	return &Engine{
		a:        a,
		b:        b,
		filter:   opts.Filter,
		logger:   logger,
		sampling: sampling,
		bufSize:  opts.BufferSize,
	}
}

// SetProgressCallback sets a callback invoked after each computed signature.
// It may be called from several goroutines in flat mode.
func (e *Engine) SetProgressCallback(callback func(ProgressUpdate)) {
	e.progress = callback
}

// invocation is the per-run state shared by Run and RunFlat
type invocation struct {
	report *models.Report
	logger logging.Logger
	sideA  match.Side
	sideB  match.Side
	hasher *signature.Hasher
	hashed atomic.Int64
	total  int

	// warnings recorded during traversal
	listWarnings []models.Warning
}

// begin records the invocation and lists both roots. A non-nil check runs
// before any I/O.
func (e *Engine) begin(ctx context.Context, mode models.Mode, method string, check func() error) (*invocation, error) {
	id := uuid.New().String()
	inv := &invocation{
		report: &models.Report{
			OperationID: id,
			RootA:       e.a.Root(),
			RootB:       e.b.Root(),
			Mode:        mode,
			Method:      method,
			StartTime:   time.Now(),
			Status:      models.StatusSuccess,
		},
		logger: e.logger.WithFields(logging.Fields{"operation_id": id}),
	}

	inv.logger.Info(ctx, "Starting comparison", logging.Fields{
		"root_a": inv.report.RootA,
		"root_b": inv.report.RootB,
		"mode":   mode,
		"method": method,
	})

	if check != nil {
		if err := check(); err != nil {
			return inv, err
		}
	}

	hasher, err := signature.NewHasher(e.sampling, e.bufSize)
	if err != nil {
		return inv, err
	}
	inv.hasher = hasher

	var warnings []models.Warning
	inv.sideA, warnings, err = e.list(ctx, inv, e.a, models.RootA)
	if err != nil {
		return inv, err
	}
	inv.listWarnings = warnings

	inv.sideB, warnings, err = e.list(ctx, inv, e.b, models.RootB)
	if err != nil {
		return inv, err
	}
	inv.listWarnings = append(inv.listWarnings, warnings...)

	hasher.SetProgressCallback(func(path string, bytesRead int64) {
		done := inv.hashed.Add(1)
		if e.progress != nil {
			e.progress(ProgressUpdate{Path: path, Bytes: bytesRead, Done: int(done), Total: inv.total})
		}
	})

	return inv, nil
}

func (e *Engine) list(ctx context.Context, inv *invocation, backend storage.Backend, root models.RootID) (match.Side, []models.Warning, error) {
	inv.logger.Debug(ctx, "Scanning root", logging.Fields{"root": root, "path": backend.Root()})

	listing, err := backend.List(ctx, e.filter)
	if err != nil {
		return match.Side{}, nil, fmt.Errorf("failed to list root %s: %w", root, err)
	}

	for i := range listing.Warnings {
		listing.Warnings[i].Root = root
	}

	files, dirs, bytes := listing.Stats()
	if root == models.RootA {
		inv.report.Stats.FilesA, inv.report.Stats.DirsA, inv.report.Stats.BytesA = files, dirs, bytes
	} else {
		inv.report.Stats.FilesB, inv.report.Stats.DirsB, inv.report.Stats.BytesB = files, dirs, bytes
	}

	inv.logger.Debug(ctx, "Scan complete", logging.Fields{
		"root":  root,
		"files": files,
		"dirs":  dirs,
		"bytes": bytes,
	})

	return match.Side{Backend: backend, Entries: listing.Entries}, listing.Warnings, nil
}

func (e *Engine) fail(ctx context.Context, inv *invocation, err error) (*models.Report, error) {
	inv.report.Status = models.StatusFailed
	inv.report.EndTime = time.Now()
	inv.report.Duration = inv.report.EndTime.Sub(inv.report.StartTime)
	inv.logger.Error(ctx, "Comparison failed", err, nil)
	return inv.report, err
}

func (e *Engine) finish(ctx context.Context, inv *invocation, warnings []models.Warning) *models.Report {
	report := inv.report
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Stats.Hashed = int(inv.hashed.Load())
	report.Stats.Warnings = len(warnings)

	for _, w := range warnings {
		inv.logger.Warn(ctx, w.Message, logging.Fields{
			"root": w.Root,
			"path": w.Path,
			"kind": w.Kind,
		})
	}
	if len(warnings) > 0 {
		report.Status = models.StatusPartial
	}

	inv.logger.Info(ctx, "Comparison completed", logging.Fields{
		"duration": report.Duration.String(),
		"status":   report.Status,
		"hashed":   report.Stats.Hashed,
		"warnings": report.Stats.Warnings,
	})
	return report
}

// Run compares the roots by relative path under strategy. Only an invalid
// root or strategy is an error; per-entry failures become warnings.
func (e *Engine) Run(ctx context.Context, strategy compare.Strategy) (*models.Report, error) {
	inv, err := e.begin(ctx, models.ModeHierarchy, strategy.Name(), strategy.Validate)
	if err != nil {
		return e.fail(ctx, inv, err)
	}

	result := match.Hierarchy(ctx, inv.sideA, inv.sideB, strategy, inv.hasher)
	result.Warnings = append(inv.listWarnings, result.Warnings...)

	inv.report.Result = &result
	return e.finish(ctx, inv, result.Warnings), nil
}

// RunFlat groups every file of both roots by content signature
func (e *Engine) RunFlat(ctx context.Context, opts match.FlatOptions) (*models.Report, error) {
	inv, err := e.begin(ctx, models.ModeFlat, string(opts.Algorithm()), nil)
	if err != nil {
		return e.fail(ctx, inv, err)
	}
	inv.total = inv.report.Stats.FilesA + inv.report.Stats.FilesB

	result := match.Flat(ctx, inv.sideA, inv.sideB, opts, inv.hasher)
	result.Warnings = append(inv.listWarnings, result.Warnings...)

	inv.report.Flat = &result
	return e.finish(ctx, inv, result.Warnings), nil
}
