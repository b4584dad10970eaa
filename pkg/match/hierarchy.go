// Package match partitions two traversals into a comparison result, either
// by relative path (hierarchy mode) or by content signature (flat mode).
package match

import (
	"context"
	"errors"
	"strings"

	"github.com/sdejongh/dircompare/pkg/compare"
	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/signature"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Side is one root's traversal together with the backend that produced it
type Side struct {
	Backend storage.Backend
	Entries []models.Entry
}

// Hierarchy joins the entries of a and b by relative path and classifies each
// path as A-only, B-only or both. A shared path that does not match under the
// strategy is reported in both only-lists. Signature failures never abort the
// comparison: the pair is treated as a mismatch and a warning is recorded.
func Hierarchy(ctx context.Context, a, b Side, strategy compare.Strategy, hasher *signature.Hasher) models.ComparisonResult {
	var result models.ComparisonResult

	keyOf := func(rel string) string {
		if strategy.CaseInsensitive {
			return strings.ToLower(rel)
		}
		return rel
	}

	indexB := make(map[string]models.Entry, len(b.Entries))
	for _, e := range b.Entries {
		key := keyOf(e.RelativePath)
		if _, exists := indexB[key]; exists {
			// Folded collision inside B: first entry wins, the rest stand alone
			result.BOnly = append(result.BOnly, e)
			continue
		}
		indexB[key] = e
	}

	seenA := make(map[string]bool, len(a.Entries))
	joined := make(map[string]bool, len(a.Entries))
	for _, e := range a.Entries {
		key := keyOf(e.RelativePath)
		if seenA[key] {
			result.AOnly = append(result.AOnly, e)
			continue
		}
		seenA[key] = true

		other, ok := indexB[key]
		if !ok {
			result.AOnly = append(result.AOnly, e)
			continue
		}
		joined[key] = true

		matched, err := strategy.Matches(ctx, hasher, a.Backend, b.Backend, e, other)
		if err != nil {
			result.Warnings = append(result.Warnings, pairWarning(err, e, other))
		}
		if matched {
			result.Both = append(result.Both, models.EntryPair{A: e, B: other})
			continue
		}
		result.AOnly = append(result.AOnly, e)
		result.BOnly = append(result.BOnly, other)
	}

	for key, e := range indexB {
		if !joined[key] {
			result.BOnly = append(result.BOnly, e)
		}
	}

	result.Sort()
	return result
}

// pairWarning attributes a signature failure to the root whose entry failed
func pairWarning(err error, a, b models.Entry) models.Warning {
	var sideErr *compare.SideError
	if errors.As(err, &sideErr) {
		err = sideErr.Err
		if sideErr.Root == models.RootB {
			return models.WarningFromError(models.RootB, b.RelativePath, err)
		}
	}
	return models.WarningFromError(models.RootA, a.RelativePath, err)
}
