package flagcol

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/flagcol/reference"
)

// Builder collects vectors from independent producers and merges them
// into one matrix. Add is safe for concurrent use; the merge in Matrix
// is the single synchronization point.
type Builder struct {
	ref *reference.Reference

	mu      sync.Mutex
	entries []Entry
}

// NewBuilder creates a Builder bound to the given reference.
func NewBuilder(ref *reference.Reference) *Builder {
	return &Builder{ref: ref}
}

// Add appends an entity's vector. Row order follows Add order.
func (b *Builder) Add(id uint64, v *FlagVector) error {
	if v.ref != b.ref {
		return &ErrReferenceMismatch{Expected: b.ref.Version(), Actual: v.ref.Version()}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, Entry{ID: id, Vector: v})
	return nil
}

// Len returns the number of collected entries.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Matrix merges all collected entries.
func (b *Builder) Matrix() (*FlagMatrix, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return FromEntries(b.entries)
}

// PopulateOptions configure Populate.
type PopulateOptions struct {
	// Workers is the number of concurrent producers.
	// Defaults to GOMAXPROCS.
	Workers int

	// Logger receives a debug record per completed run.
	Logger *Logger
}

// Populate builds one vector per identifier by fanning the populate
// function out across workers and merging the results in identifier
// order.
//
// Each vector is owned by exactly one worker until the merge, so the
// populate function needs no locking around vector mutation. The first
// error cancels the remaining work and is returned.
func Populate(ctx context.Context, ref *reference.Reference, ids []uint64, populate func(ctx context.Context, id uint64, v *FlagVector) error, optFns ...func(o *PopulateOptions)) (*FlagMatrix, error) {
	opts := PopulateOptions{
		Workers: runtime.GOMAXPROCS(0),
		Logger:  NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	entries := make([]Entry, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, id := range ids {
		g.Go(func() error {
			v := NewVector(ref)
			if err := populate(gctx, id, v); err != nil {
				return err
			}
			// Slot is owned by this goroutine; no lock needed.
			entries[i] = Entry{ID: id, Vector: v}
			return nil
		})
	}

	err := g.Wait()
	opts.Logger.LogPopulate(ctx, len(ids), opts.Workers, err)
	if err != nil {
		return nil, err
	}

	return FromEntries(entries)
}
