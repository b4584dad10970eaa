package match

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/signature"
)

// FlatOptions configures flat-mode grouping
type FlatOptions struct {
	// FullHash groups by full SHA-256 instead of the sampled signature
	FullHash bool

	// Workers bounds concurrent signature computation (0 = NumCPU, 1 = sequential)
	Workers int
}

// Algorithm returns the signature algorithm used for grouping
func (o FlatOptions) Algorithm() signature.Algorithm {
	if o.FullHash {
		return signature.Full
	}
	return signature.Sampled
}

func (o FlatOptions) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

type flatItem struct {
	root  models.RootID
	side  Side
	entry models.Entry
	sig   signature.Signature
	err   error
}

// Flat groups every file of a and b by content signature, ignoring paths.
// Groups are ordered by first occurrence, with all of A traversed before B,
// so the result does not depend on worker scheduling. Files whose signature
// cannot be computed are left out of every group and reported as warnings.
func Flat(ctx context.Context, a, b Side, opts FlatOptions, hasher *signature.Hasher) models.FlatResult {
	var result models.FlatResult
	alg := opts.Algorithm()

	items := make([]flatItem, 0, len(a.Entries)+len(b.Entries))
	for _, e := range a.Entries {
		if !e.IsDir() {
			items = append(items, flatItem{root: models.RootA, side: a, entry: e})
			result.TotalFilesA++
		}
	}
	for _, e := range b.Entries {
		if !e.IsDir() {
			items = append(items, flatItem{root: models.RootB, side: b, entry: e})
			result.TotalFilesB++
		}
	}

	// Phase 1: signatures, written back by index
	var g errgroup.Group
	g.SetLimit(opts.workers())
	for i := range items {
		i := i
		g.Go(func() error {
			item := &items[i]
			item.sig, item.err = hasher.Compute(ctx, item.side.Backend, item.entry, alg)
			return nil
		})
	}
	_ = g.Wait()

	// Phase 2: group in insertion order
	index := make(map[string]int)
	for i := range items {
		item := &items[i]
		if item.err != nil {
			result.Warnings = append(result.Warnings,
				models.WarningFromError(item.root, item.entry.RelativePath, item.err))
			continue
		}

		key := item.sig.String()
		pos, ok := index[key]
		if !ok {
			pos = len(result.Groups)
			index[key] = pos
			result.Groups = append(result.Groups, models.FlatGroup{
				Signature: item.sig.Hex(),
				Algorithm: groupAlgorithm(item.sig),
				Size:      item.entry.Size,
			})
		}
		group := &result.Groups[pos]
		group.Occurrences = append(group.Occurrences, models.Occurrence{
			Root:         item.root,
			RelativePath: item.entry.RelativePath,
			Size:         item.entry.Size,
		})
	}

	// Phase 3: summary counts
	result.UniqueSignatures = len(result.Groups)
	for _, group := range result.Groups {
		if group.IsDuplicate() {
			result.DuplicateGroups++
		}
	}

	return result
}

// groupAlgorithm names the algorithm of a group, marking symlink targets
func groupAlgorithm(sig signature.Signature) string {
	if sig.Link {
		return "link+" + string(sig.Algorithm)
	}
	return string(sig.Algorithm)
}
