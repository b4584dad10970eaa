package signature

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/dircompare/pkg/models"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// Hasher computes signatures for entries through their storage backend and
// memoises them for the lifetime of one comparison invocation.
// It is safe for concurrent use.
type Hasher struct {
	sampling       Sampling
	bufferPool     *sync.Pool
	progressReport func(path string, bytesRead int64) // Optional progress callback

	mu    sync.Mutex
	cache map[cacheKey]cached
}

// contentReader is satisfied by open files and in-memory symlink targets
type contentReader interface {
	io.Reader
	io.ReaderAt
}

type cacheKey struct {
	backend   storage.Backend
	path      string
	algorithm Algorithm
}

type cached struct {
	sig Signature
	err error
}

// NewHasher creates a hasher with the given sampling parameters
func NewHasher(sampling Sampling, bufferSize int) (*Hasher, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Hasher{
		sampling: sampling,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
		cache: make(map[cacheKey]cached),
	}, nil
}

// SetProgressCallback sets a callback invoked after each freshly computed signature
func (h *Hasher) SetProgressCallback(callback func(path string, bytesRead int64)) {
	h.progressReport = callback
}

// Sampling returns the sampling parameters
func (h *Hasher) Sampling() Sampling {
	return h.sampling
}

// Compute returns the signature of a file entry. Failures are returned as
// *models.EntryError and never as an empty digest.
func (h *Hasher) Compute(ctx context.Context, backend storage.Backend, entry models.Entry, alg Algorithm) (Signature, error) {
	if entry.IsDir() {
		return Signature{}, fmt.Errorf("%w: %s is a directory", models.ErrInvalidStrategy, entry.RelativePath)
	}

	key := cacheKey{backend: backend, path: entry.AbsolutePath, algorithm: alg}
	h.mu.Lock()
	if c, ok := h.cache[key]; ok {
		h.mu.Unlock()
		return c.sig, c.err
	}
	h.mu.Unlock()

	sig, n, err := h.compute(ctx, backend, entry, alg)
	if err != nil {
		var entryErr *models.EntryError
		if !errors.As(err, &entryErr) {
			err = models.NewEntryError("hash", entry.AbsolutePath, err)
		}
		sig = Signature{}
	}

	h.mu.Lock()
	h.cache[key] = cached{sig: sig, err: err}
	h.mu.Unlock()

	if err == nil && h.progressReport != nil {
		h.progressReport(entry.RelativePath, n)
	}

	return sig, err
}

func (h *Hasher) compute(ctx context.Context, backend storage.Backend, entry models.Entry, alg Algorithm) (Signature, int64, error) {
	// Symlinks are opaque: their identity is the link target, not what it points at
	if entry.IsSymlink {
		target, err := backend.Readlink(ctx, entry)
		if err != nil {
			return Signature{}, 0, err
		}
		data := []byte(target)
		sig, n, err := h.computeReader(bytes.NewReader(data), int64(len(data)), alg)
		sig.Link = err == nil
		return sig, n, err
	}

	file, err := backend.Open(ctx, entry)
	if err != nil {
		return Signature{}, 0, err
	}
	defer file.Close()

	return h.computeReader(file, entry.Size, alg)
}

func (h *Hasher) computeReader(r contentReader, size int64, alg Algorithm) (Signature, int64, error) {
	switch alg {
	case Sampled:
		return ComputeSampled(r, size, h.sampling)

	case Full, Fast:
		bufPtr := h.bufferPool.Get().(*[]byte)
		defer h.bufferPool.Put(bufPtr)

		var (
			sig Signature
			n   int64
			err error
		)
		if alg == Full {
			sig, n, err = computeFullBuffer(r, *bufPtr)
		} else {
			sig, n, err = computeFastBuffer(r, *bufPtr)
		}
		if err != nil {
			return Signature{}, n, fmt.Errorf("failed to read file: %w", err)
		}
		return sig, n, nil

	default:
		return Signature{}, 0, &models.ValidationError{Field: "algorithm", Message: fmt.Sprintf("unknown algorithm %q", alg)}
	}
}
