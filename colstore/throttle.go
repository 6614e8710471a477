package colstore

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled wraps a Store and bounds byte throughput in both
// directions, protecting shared object storage from bulk column
// publishing runs.
type Throttled struct {
	inner   Store
	limiter *rate.Limiter
}

// NewThrottled creates a throughput-limited view of a store.
// bytesPerSec is the sustained rate; burst is the largest single
// reservation allowed and should be at least the size of the largest
// column file.
func NewThrottled(inner Store, bytesPerSec float64, burst int) *Throttled {
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), burst),
	}
}

func (t *Throttled) wait(ctx context.Context, n int) error {
	if n > t.limiter.Burst() {
		n = t.limiter.Burst()
	}
	return t.limiter.WaitN(ctx, n)
}

// Put waits for rate capacity, then writes through.
func (t *Throttled) Put(ctx context.Context, name string, data []byte) error {
	if err := t.wait(ctx, len(data)); err != nil {
		return err
	}
	return t.inner.Put(ctx, name, data)
}

// Open opens a blob whose reads are throttled.
func (t *Throttled) Open(ctx context.Context, name string) (Blob, error) {
	blob, err := t.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledBlob{inner: blob, t: t}, nil
}

// Delete removes a blob.
func (t *Throttled) Delete(ctx context.Context, name string) error {
	return t.inner.Delete(ctx, name)
}

// List returns the names of all blobs matching the prefix.
func (t *Throttled) List(ctx context.Context, prefix string) ([]string, error) {
	return t.inner.List(ctx, prefix)
}

type throttledBlob struct {
	inner Blob
	t     *Throttled
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.t.wait(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.inner.ReadAt(ctx, p, off)
}

func (b *throttledBlob) Size() int64 {
	return b.inner.Size()
}

func (b *throttledBlob) Close() error {
	return b.inner.Close()
}
