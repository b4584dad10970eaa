package signature

import (
	"fmt"

	"github.com/sdejongh/dircompare/pkg/models"
)

const (
	// DefaultBlockSize is the size of each sampled block. It is prime so
	// blocks never align with power-of-two filesystem block sizes.
	DefaultBlockSize int64 = 431

	// DefaultBlockCount is the number of blocks sampled per file
	DefaultBlockCount int64 = 7

	// MaxBlockSize and MaxBlockCount bound the sample buffer to 1 GiB
	MaxBlockSize  int64 = 1 << 20
	MaxBlockCount int64 = 1024
)

// Sampling holds the parameters of the sampled signature
type Sampling struct {
	BlockSize int64 `yaml:"block_size"`
	Count     int64 `yaml:"count"`
}

// DefaultSampling returns 7 blocks of 431 bytes
func DefaultSampling() Sampling {
	return Sampling{BlockSize: DefaultBlockSize, Count: DefaultBlockCount}
}

// Threshold is the smallest size that is sampled rather than read whole.
// With the defaults it is 7*431 = 3017 bytes.
func (s Sampling) Threshold() int64 {
	return s.BlockSize * s.Count
}

// Validate rejects sampling parameters that cannot produce distinct first,
// interior and last blocks
func (s Sampling) Validate() error {
	if s.BlockSize < 1 {
		return &models.ValidationError{Field: "sampling.block_size", Message: "must be at least 1 byte"}
	}
	if s.BlockSize > MaxBlockSize {
		return &models.ValidationError{Field: "sampling.block_size", Message: fmt.Sprintf("must be at most %d bytes", MaxBlockSize)}
	}
	if s.Count < 2 {
		return &models.ValidationError{Field: "sampling.count", Message: "must be at least 2 (first and last block)"}
	}
	if s.Count > MaxBlockCount {
		return &models.ValidationError{Field: "sampling.count", Message: fmt.Sprintf("must be at most %d", MaxBlockCount)}
	}
	return nil
}

// SampleOffsets returns the ordered start offsets of the blocks sampled from
// a file of the given size. It returns nil when the file is smaller than
// blockSize*count and must be read whole.
//
// The first block starts at 0 and the last at size-blockSize. Interior block
// i (1..count-2) starts at blockSize + i*step, step = (size-2*blockSize)/(count-1),
// clamped to [blockSize, size-2*blockSize].
func SampleOffsets(size, blockSize, count int64) ([]int64, error) {
	if err := (Sampling{BlockSize: blockSize, Count: count}).Validate(); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", models.ErrInvalidStrategy, size)
	}
	if size < blockSize*count {
		return nil, nil
	}

	lower := blockSize
	upper := size - 2*blockSize
	step := (size - 2*blockSize) / (count - 1)

	offsets := make([]int64, 0, count)
	offsets = append(offsets, 0)
	for i := int64(1); i <= count-2; i++ {
		off := blockSize + i*step
		if off > upper {
			off = upper
		}
		if off < lower {
			off = lower
		}
		offsets = append(offsets, off)
	}
	offsets = append(offsets, size-blockSize)

	return offsets, nil
}
