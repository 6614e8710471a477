package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flagcol/attr"
)

func TestFromCSV(t *testing.T) {
	src := strings.Join([]string{
		"bit,name,description,program,rank,active",
		"0,mwm_snc_100pc,Solar neighbourhood census,mwm_snc,1,true",
		"1,mwm_snc_250pc,,mwm_snc,2,false",
		"4,bhm_rm_core,Reverberation mapping,bhm_rm,1,",
	}, "\n")

	ref, err := FromCSV(strings.NewReader(src), "v1.0")
	require.NoError(t, err)

	assert.Equal(t, "v1.0", ref.Version())
	assert.Equal(t, 3, ref.Len())
	assert.Equal(t, 5, ref.RequiredBits())

	a, ok := ref.Attribute("mwm_snc_100pc")
	require.True(t, ok)
	assert.Equal(t, 0, a.Bit)
	assert.Equal(t, "Solar neighbourhood census", a.Description)
	assert.Equal(t, attr.String("mwm_snc"), a.Extra["program"])
	assert.Equal(t, attr.Int(1), a.Extra["rank"])
	assert.Equal(t, attr.Bool(true), a.Extra["active"])

	// Empty cell parses as null.
	a, ok = ref.Attribute("bhm_rm_core")
	require.True(t, ok)
	assert.Equal(t, attr.Null(), a.Extra["active"])
}

func TestFromCSVRowOrderBits(t *testing.T) {
	src := strings.Join([]string{
		"name,program",
		"first,p1",
		"second,p1",
		"third,p2",
	}, "\n")

	ref, err := FromCSV(strings.NewReader(src), "v1")
	require.NoError(t, err)

	for i, name := range []string{"first", "second", "third"} {
		bit, err := ref.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, i, bit)
	}
}

func TestFromCSVCustomColumns(t *testing.T) {
	src := strings.Join([]string{
		"carton,target_bit,label",
		"mwm_snc_100pc,3,census",
	}, "\n")

	ref, err := FromCSV(strings.NewReader(src), "v1",
		WithNameColumn("carton"),
		WithBitColumn("target_bit"),
		WithDescriptionColumn("label"),
	)
	require.NoError(t, err)

	a, ok := ref.Attribute("mwm_snc_100pc")
	require.True(t, ok)
	assert.Equal(t, 3, a.Bit)
	assert.Equal(t, "census", a.Description)
	assert.Empty(t, a.Extra)
}

func TestFromCSVErrors(t *testing.T) {
	var invalid *ErrInvalidReference

	_, err := FromCSV(strings.NewReader(""), "v1")
	require.ErrorAs(t, err, &invalid)

	_, err = FromCSV(strings.NewReader("program,rank\np1,1\n"), "v1")
	require.ErrorAs(t, err, &invalid)

	_, err = FromCSV(strings.NewReader("bit,name\nx,a\n"), "v1")
	require.ErrorAs(t, err, &invalid)

	// Duplicate names surface through New.
	_, err = FromCSV(strings.NewReader("name\na\na\n"), "v1")
	require.ErrorAs(t, err, &invalid)
}

func TestFromCSVWithReferenceOptions(t *testing.T) {
	src := "name,rank\na,not_a_number\n"

	_, err := FromCSV(strings.NewReader(src), "v1",
		WithReferenceOptions(WithSchema(attr.Schema{"rank": attr.FieldTypeInt})),
	)
	var invalid *ErrInvalidReference
	require.ErrorAs(t, err, &invalid)
}
