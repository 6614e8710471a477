package flagcol

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderCollectAndMerge(t *testing.T) {
	ref := testReference(t)
	b := NewBuilder(ref)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			v := NewVector(ref)
			if worker%2 == 0 {
				_ = v.Set("a")
			} else {
				_ = v.Set("b")
			}
			_ = b.Add(uint64(worker), v)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 4, b.Len())
	m, err := b.Matrix()
	require.NoError(t, err)
	assert.Equal(t, 4, m.Rows())
}

func TestBuilderReferenceMismatch(t *testing.T) {
	ref := testReference(t)
	other := testReference(t)

	b := NewBuilder(ref)
	err := b.Add(1, NewVector(other))
	var mismatch *ErrReferenceMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 0, b.Len())
}

func TestPopulate(t *testing.T) {
	ref := testReference(t)
	ids := []uint64{10, 11, 12, 13, 14, 15, 16, 17}

	m, err := Populate(context.Background(), ref, ids,
		func(_ context.Context, id uint64, v *FlagVector) error {
			if id%2 == 0 {
				return v.Set("a")
			}
			return v.Set("b", "c")
		},
		func(o *PopulateOptions) { o.Workers = 4 },
	)
	require.NoError(t, err)

	// Row order follows identifier order regardless of scheduling.
	assert.Equal(t, ids, m.IDs())

	hits, err := m.IsFlagSet("a")
	require.NoError(t, err)
	for i, id := range ids {
		assert.Equal(t, id%2 == 0, hits[i], "row %d", i)
	}
}

func TestPopulateError(t *testing.T) {
	ref := testReference(t)
	boom := errors.New("upstream query failed")

	_, err := Populate(context.Background(), ref, []uint64{1, 2, 3},
		func(_ context.Context, id uint64, v *FlagVector) error {
			if id == 2 {
				return boom
			}
			return v.Set("a")
		},
	)
	require.ErrorIs(t, err, boom)
}

func TestPopulateEmpty(t *testing.T) {
	ref := testReference(t)
	_, err := Populate(context.Background(), ref, nil,
		func(_ context.Context, _ uint64, _ *FlagVector) error { return nil },
	)
	require.ErrorIs(t, err, ErrEmptyMerge)
}
