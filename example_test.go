package flagcol_test

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/flagcol"
	"github.com/hupe1980/flagcol/attr"
	"github.com/hupe1980/flagcol/codec"
	"github.com/hupe1980/flagcol/colstore"
	"github.com/hupe1980/flagcol/reference"
)

func exampleReference() *reference.Reference {
	ref, err := reference.New("v1.0", []reference.Attribute{
		{Bit: 0, Name: "mwm_snc_100pc", Extra: attr.Document{"program": attr.String("mwm_snc")}},
		{Bit: 1, Name: "mwm_snc_250pc", Extra: attr.Document{"program": attr.String("mwm_snc")}},
		{Bit: 2, Name: "bhm_rm_core", Extra: attr.Document{"program": attr.String("bhm_rm")}},
	})
	if err != nil {
		log.Fatal(err)
	}
	return ref
}

// Example_vector demonstrates setting and querying flags on a single
// entity.
func Example_vector() {
	ref := exampleReference()

	v := flagcol.NewVector(ref)
	if err := v.Set("mwm_snc_100pc", "bhm_rm_core"); err != nil {
		log.Fatal(err)
	}

	isSet, _ := v.IsSet("mwm_snc_100pc")
	fmt.Println(isSet)
	fmt.Println(v.SetBits())
	// Output:
	// true
	// [0 2]
}

// Example_matrix demonstrates merging per-entity vectors and running
// batched queries over the resulting grid.
func Example_matrix() {
	ref := exampleReference()

	a := flagcol.NewVector(ref)
	_ = a.Set("mwm_snc_100pc")
	b := flagcol.NewVector(ref)
	_ = b.Set("mwm_snc_250pc", "bhm_rm_core")

	m, err := flagcol.FromEntries([]flagcol.Entry{
		{ID: 101, Vector: a},
		{ID: 102, Vector: b},
	})
	if err != nil {
		log.Fatal(err)
	}

	hits, _ := m.IsFlagSet("mwm_snc_100pc")
	fmt.Println(hits)

	any, _ := m.AnySet("mwm_snc_250pc", "bhm_rm_core")
	fmt.Println(any)
	// Output:
	// [true false]
	// [false true]
}

// Example_filters demonstrates filter-driven flag assignment using
// attribute extras.
func Example_filters() {
	ref := exampleReference()

	v := flagcol.NewVector(ref)
	n := v.SetWhere(attr.NewFilterSet(
		attr.Equal("program", attr.String("mwm_snc")),
	))

	fmt.Println(n)
	fmt.Println(v.SetBits())
	// Output:
	// 2
	// [0 1]
}

// Example_roundTrip demonstrates encoding a matrix, storing the column
// file, and decoding it back.
func Example_roundTrip() {
	ctx := context.Background()
	ref := exampleReference()

	v := flagcol.NewVector(ref)
	_ = v.Set("bhm_rm_core")
	m, err := flagcol.FromEntries([]flagcol.Entry{{ID: 1, Vector: v}})
	if err != nil {
		log.Fatal(err)
	}

	store := colstore.NewMemoryStore()
	col := codec.Encode(m)
	if err := colstore.PutColumn(ctx, store, "targets/v1.col", col, codec.WithCompression(codec.CompressionZstd)); err != nil {
		log.Fatal(err)
	}

	back, err := colstore.GetMatrix(ctx, store, "targets/v1.col", ref)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(bytes.Equal(m.Bytes(), back.Bytes()))
	// Output: true
}
