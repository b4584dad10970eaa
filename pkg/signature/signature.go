// Package signature computes content digests for files: a full SHA-256, a fast
// non-cryptographic xxhash64, and a sampled SHA-256 that reads a fixed number
// of small blocks plus the file size.
package signature

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/opencontainers/go-digest"

	"github.com/sdejongh/dircompare/pkg/models"
)

// Algorithm identifies how a signature was produced
type Algorithm string

const (
	// Full is SHA-256 over the entire content
	Full Algorithm = "sha256"
	// Fast is xxhash64 over the entire content
	Fast Algorithm = "xxhash64"
	// Sampled is SHA-256 over sampled blocks and the size
	Sampled Algorithm = "sampled-sha256"
)

// Signature is a digest plus the algorithm that produced it
type Signature struct {
	Algorithm Algorithm
	Digest    []byte

	// Link marks a digest of a symlink target rather than of file content
	Link bool
}

// Hex returns the lowercase hex form of the digest
func (s Signature) Hex() string {
	return hex.EncodeToString(s.Digest)
}

// String returns algorithm:hex, prefixed with "link+" for symlink targets
func (s Signature) String() string {
	if s.Link {
		return "link+" + string(s.Algorithm) + ":" + s.Hex()
	}
	return string(s.Algorithm) + ":" + s.Hex()
}

// OCI returns the digest in OCI form for SHA-256 based signatures
func (s Signature) OCI() (digest.Digest, bool) {
	if s.Algorithm == Fast || len(s.Digest) == 0 {
		return "", false
	}
	return digest.NewDigestFromBytes(digest.SHA256, s.Digest), true
}

// IsZero reports whether the signature carries no digest
func (s Signature) IsZero() bool {
	return len(s.Digest) == 0
}

// Equal requires the same algorithm, link flag and digest. Zero signatures
// never match.
func (s Signature) Equal(other Signature) bool {
	if s.IsZero() || other.IsZero() {
		return false
	}
	return s.Algorithm == other.Algorithm && s.Link == other.Link && bytes.Equal(s.Digest, other.Digest)
}

// ComputeFull streams r through SHA-256
func ComputeFull(r io.Reader) (Signature, int64, error) {
	return computeFullBuffer(r, nil)
}

func computeFullBuffer(r io.Reader, buf []byte) (Signature, int64, error) {
	digester := digest.SHA256.Digester()
	n, err := io.CopyBuffer(digester.Hash(), r, buf)
	if err != nil {
		return Signature{}, n, err
	}
	return Signature{Algorithm: Full, Digest: digester.Hash().Sum(nil)}, n, nil
}

// ComputeFast streams r through xxhash64
func ComputeFast(r io.Reader) (Signature, int64, error) {
	return computeFastBuffer(r, nil)
}

func computeFastBuffer(r io.Reader, buf []byte) (Signature, int64, error) {
	h := xxhash.New()
	n, err := io.CopyBuffer(h, r, buf)
	if err != nil {
		return Signature{}, n, err
	}
	sum := make([]byte, 8)
	binary.BigEndian.PutUint64(sum, h.Sum64())
	return Signature{Algorithm: Fast, Digest: sum}, n, nil
}

// ComputeSampled produces the sampled signature of a size-byte object.
// Below the sampling threshold the whole content is hashed, so the digest
// equals ComputeFull's. Otherwise the sampled blocks are concatenated in
// offset order, the size is appended as 8 big-endian bytes, and the buffer
// is hashed with SHA-256.
func ComputeSampled(r io.ReaderAt, size int64, sampling Sampling) (Signature, int64, error) {
	offsets, err := SampleOffsets(size, sampling.BlockSize, sampling.Count)
	if err != nil {
		return Signature{}, 0, err
	}

	if offsets == nil {
		sig, n, err := ComputeFull(io.NewSectionReader(r, 0, size))
		if err != nil {
			return Signature{}, n, err
		}
		if n != size {
			return Signature{}, n, fmt.Errorf("%w: short read: got %d of %d bytes", models.ErrIOFailure, n, size)
		}
		sig.Algorithm = Sampled
		return sig, n, nil
	}

	buf := make([]byte, len(offsets)*int(sampling.BlockSize), len(offsets)*int(sampling.BlockSize)+8)
	for i, off := range offsets {
		block := buf[i*int(sampling.BlockSize) : (i+1)*int(sampling.BlockSize)]
		n, err := r.ReadAt(block, off)
		if err != nil && !(errors.Is(err, io.EOF) && n == len(block)) {
			return Signature{}, int64(i) * sampling.BlockSize, fmt.Errorf("failed to read sample at offset %d: %w", off, err)
		}
	}
	buf = binary.BigEndian.AppendUint64(buf, uint64(size))

	digester := digest.SHA256.Digester()
	digester.Hash().Write(buf)
	return Signature{Algorithm: Sampled, Digest: digester.Hash().Sum(nil)}, int64(len(buf) - 8), nil
}
