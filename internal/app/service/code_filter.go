package service

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/sifan077/shortlink/internal/app/repository"
)

const (
	DefaultFilterCapacity          = 1_000_000
	DefaultFilterFalsePositiveRate = 0.001
)

// CodeFilter remembers codes known to be taken so allocation can skip them
// without a round trip. It can only say "maybe taken"; it never says a code
// is free, and the unique index stays the sole arbiter.
type CodeFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCodeFilter sizes the filter for capacity codes at the given false-positive rate.
func NewCodeFilter(capacity uint, fpRate float64) *CodeFilter {
	if capacity == 0 {
		capacity = DefaultFilterCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFilterFalsePositiveRate
	}
	return &CodeFilter{filter: bloom.NewWithEstimates(capacity, fpRate)}
}

func (f *CodeFilter) MayContain(code string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.filter.TestString(code)
}

func (f *CodeFilter) Add(code string) {
	f.mu.Lock()
	f.filter.AddString(code)
	f.mu.Unlock()
}

// Warm loads every stored code into the filter and returns how many were seen.
func (f *CodeFilter) Warm(ctx context.Context, scanner repository.CodeScanner) (int, error) {
	n := 0
	err := scanner.ScanCodes(ctx, func(code string) {
		f.Add(code)
		n++
	})
	return n, err
}
