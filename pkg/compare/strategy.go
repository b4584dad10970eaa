// Package compare decides whether two entries found at the same relative
// path are "the same" under a chosen comparison strategy.
package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/signature"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Kind selects the matching criteria. The set is closed: every switch over
// Kind handles each value explicitly.
type Kind int

const (
	// FilenameOnly matches on name alone
	FilenameOnly Kind = iota
	// FilenameAndSize matches on name and byte length
	FilenameAndSize
	// FilenameAndFastHash matches on name and the xxhash64 of the content
	FilenameAndFastHash
	// FilenameAndSampledHash matches on name and the sampled SHA-256 signature
	FilenameAndSampledHash
)

// String returns the canonical method token for the kind
func (k Kind) String() string {
	switch k {
	case FilenameOnly:
		return "filename"
	case FilenameAndSize:
		return "size"
	case FilenameAndFastHash:
		return "hash"
	case FilenameAndSampledHash:
		return "sampled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a method token into a Kind. Tokens are case-insensitive.
func ParseKind(token string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "filename", "name":
		return FilenameOnly, nil
	case "size":
		return FilenameAndSize, nil
	case "hash", "fxhash", "fasthash":
		return FilenameAndFastHash, nil
	case "sampled", "sampled-hash":
		return FilenameAndSampledHash, nil
	default:
		return 0, &models.ValidationError{
			Field:   "compare.method",
			Message: fmt.Sprintf("unknown comparison method %q (valid: filename, size, hash, sampled)", token),
		}
	}
}

// Strategy is a fully specified comparison configuration
type Strategy struct {
	Kind            Kind
	CaseInsensitive bool

	// VerifyOnMatch escalates an equal sampled signature to a full hash.
	// It has no effect for other kinds.
	VerifyOnMatch bool
}

// Validate checks that the strategy names a known kind
func (s Strategy) Validate() error {
	switch s.Kind {
	case FilenameOnly, FilenameAndSize, FilenameAndFastHash, FilenameAndSampledHash:
		return nil
	default:
		return &models.ValidationError{Field: "compare.method", Message: fmt.Sprintf("unknown strategy kind %d", int(s.Kind))}
	}
}

// Name describes the strategy for reports and logs
func (s Strategy) Name() string {
	name := s.Kind.String()
	if s.Kind == FilenameAndSampledHash && s.VerifyOnMatch {
		name += "+verify"
	}
	if s.CaseInsensitive {
		name += " (case-insensitive)"
	}
	return name
}

// Verifies reports whether sampled matches are escalated to a full hash
func (s Strategy) Verifies() bool {
	return s.Kind == FilenameAndSampledHash && s.VerifyOnMatch
}

// Matches reports whether entry a (from backendA) and entry b (from backendB)
// are the same under the strategy. A signature failure yields false together
// with the error, which callers surface as a warning.
func (s Strategy) Matches(ctx context.Context, hasher *signature.Hasher, backendA, backendB storage.Backend, a, b models.Entry) (bool, error) {
	if !s.namesEqual(a.Name(), b.Name()) {
		return false, nil
	}
	if a.Kind != b.Kind {
		return false, nil
	}
	// Directories carry no content
	if a.IsDir() {
		return true, nil
	}

	switch s.Kind {
	case FilenameOnly:
		return true, nil

	case FilenameAndSize:
		return a.Size == b.Size, nil

	case FilenameAndFastHash:
		return signaturesEqual(ctx, hasher, signature.Fast, backendA, backendB, a, b)

	case FilenameAndSampledHash:
		equal, err := signaturesEqual(ctx, hasher, signature.Sampled, backendA, backendB, a, b)
		if err != nil || !equal || !s.VerifyOnMatch {
			return equal, err
		}
		return signaturesEqual(ctx, hasher, signature.Full, backendA, backendB, a, b)

	default:
		return false, s.Validate()
	}
}

// SideError records which root's entry failed during a comparison
type SideError struct {
	Root models.RootID
	Err  error
}

func (e *SideError) Error() string {
	return fmt.Sprintf("root %s: %v", e.Root, e.Err)
}

func (e *SideError) Unwrap() error {
	return e.Err
}

func (s Strategy) namesEqual(a, b string) bool {
	if s.CaseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func signaturesEqual(ctx context.Context, hasher *signature.Hasher, alg signature.Algorithm, backendA, backendB storage.Backend, a, b models.Entry) (bool, error) {
	// Content of different length can never be equal
	if a.Size != b.Size {
		return false, nil
	}

	sigA, err := hasher.Compute(ctx, backendA, a, alg)
	if err != nil {
		return false, &SideError{Root: models.RootA, Err: err}
	}
	sigB, err := hasher.Compute(ctx, backendB, b, alg)
	if err != nil {
		return false, &SideError{Root: models.RootB, Err: err}
	}
	return sigA.Equal(sigB), nil
}
