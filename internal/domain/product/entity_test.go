package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantRefMatches(t *testing.T) {
	tests := []struct {
		name string
		a, b VariantRef
		want bool
	}{
		{"both zero", VariantRef{}, VariantRef{}, true},
		{"zero vs full", VariantRef{}, NewVariantRef("50ml", "size"), false},
		{"full vs zero", NewVariantRef("50ml", "size"), VariantRef{}, false},
		{"full equal", NewVariantRef("50ml", "size"), NewVariantRef("50ml", "size"), true},
		{"full name differs", NewVariantRef("50ml", "size"), NewVariantRef("100ml", "size"), false},
		{"full type differs", NewVariantRef("50ml", "size"), NewVariantRef("50ml", "color"), false},
		{"legacy vs full same name", LegacyVariantRef("50ml"), NewVariantRef("50ml", "size"), true},
		{"full vs legacy same name", NewVariantRef("50ml", "size"), LegacyVariantRef("50ml"), true},
		{"legacy vs full other name", LegacyVariantRef("50ml"), NewVariantRef("100ml", "size"), false},
		{"legacy vs legacy", LegacyVariantRef("50ml"), LegacyVariantRef("50ml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Matches(tt.b))
			assert.Equal(t, tt.want, tt.b.Matches(tt.a), "Matches must be symmetric")
		})
	}
}

func TestFindVariant(t *testing.T) {
	p := Product{
		ID:    "p1",
		Name:  "Argan Serum",
		Price: 120,
		Variants: []Variant{
			{Name: "30ml", Type: "size", Price: 90},
			{Name: "50ml", Type: "size", Price: 140},
		},
	}

	v, ok := p.FindVariant(NewVariantRef("50ml", "size"))
	require.True(t, ok)
	assert.Equal(t, 140.0, v.Price)

	// legacy name-only ref still resolves
	v, ok = p.FindVariant(LegacyVariantRef("30ml"))
	require.True(t, ok)
	assert.Equal(t, "size", v.Type)

	_, ok = p.FindVariant(NewVariantRef("75ml", "size"))
	assert.False(t, ok)

	_, ok = p.FindVariant(VariantRef{})
	assert.False(t, ok)
}

func TestUnitPriceFor(t *testing.T) {
	p := Product{
		ID:    "p1",
		Name:  "Argan Serum",
		Price: 120,
		Variants: []Variant{
			{Name: "50ml", Type: "size", Price: 140},
			{Name: "sample", Type: "size"}, // no own price
		},
	}

	got, err := p.UnitPriceFor(VariantRef{})
	require.NoError(t, err)
	assert.Equal(t, 120.0, got)

	got, err = p.UnitPriceFor(NewVariantRef("50ml", "size"))
	require.NoError(t, err)
	assert.Equal(t, 140.0, got)

	// variant without a price falls back to the base price
	got, err = p.UnitPriceFor(NewVariantRef("sample", "size"))
	require.NoError(t, err)
	assert.Equal(t, 120.0, got)

	_, err = p.UnitPriceFor(NewVariantRef("75ml", "size"))
	assert.ErrorIs(t, err, ErrVariantUnknown)
}
