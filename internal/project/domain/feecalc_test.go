package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyFee(t *testing.T) {
	rates := DefaultFeeRates()

	tests := []struct {
		name string
		area float64
		kind CondoType
		want float64
	}{
		{"residential", 100, TypeResidential, 45.0},
		{"commercial", 80, TypeCommercial, 48.0},
		{"parking", 20, TypeParking, 3.0},
		{"storage", 10, TypeStorage, 2.5},
		{"zero area", 0, TypeResidential, 0},
		{"rounds to two decimals", 85.5, TypeResidential, 38.48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := &Unit{Area: tt.area, CondoType: tt.kind}
			assert.InDelta(t, tt.want, MonthlyFee(unit, rates), 0.0001)
		})
	}
}

func TestTotalMonthlyFees(t *testing.T) {
	rates := DefaultFeeRates()
	units := []*Unit{
		{Area: 100, CondoType: TypeResidential},
		{Area: 80, CondoType: TypeCommercial},
		{Area: 20, CondoType: TypeParking},
	}

	assert.InDelta(t, 96.0, TotalMonthlyFees(units, rates), 0.0001)
	assert.Zero(t, TotalMonthlyFees(nil, rates))
}

func TestFeeRatesRate(t *testing.T) {
	rates := FeeRates{Residential: 1, Commercial: 2, Parking: 3, Storage: 4}

	assert.Equal(t, 1.0, rates.Rate(TypeResidential))
	assert.Equal(t, 2.0, rates.Rate(TypeCommercial))
	assert.Equal(t, 3.0, rates.Rate(TypeParking))
	assert.Equal(t, 4.0, rates.Rate(TypeStorage))
}

func TestParseStoredFee(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   float64
		ok     bool
	}{
		{"plain number", "45.50", 45.50, true},
		{"integer", "120", 120, true},
		{"currency prefix", "$1,234.56", 1234.56, true},
		{"surrounding spaces", "  99.9  ", 99.9, true},
		{"empty", "", 0, false},
		{"garbage", "n/a", 0, false},
		{"nan", "NaN", 0, false},
		{"infinity", "Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStoredFee(tt.stored)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	status, err := ParseUnitStatus("  SOLD ")
	require.NoError(t, err)
	assert.Equal(t, UnitSold, status)

	kind, err := ParseCondoType("Residential")
	require.NoError(t, err)
	assert.Equal(t, TypeResidential, kind)

	ps, err := ParseProjectStatus("ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, ProjectActive, ps)

	_, err = ParseUnitStatus("pending")
	assert.Error(t, err)
	_, err = ParseCondoType("")
	assert.Error(t, err)
	_, err = ParseProjectStatus("deleted")
	assert.Error(t, err)
}

func TestCountAvailable(t *testing.T) {
	units := []*Unit{
		{Status: UnitAvailable},
		{Status: UnitSold},
		{Status: UnitAvailable},
		{Status: UnitMaintenance},
	}
	assert.Equal(t, 2, CountAvailable(units))

	// Mixed-case input only becomes countable through normalization.
	raw, err := ParseUnitStatus("Available")
	require.NoError(t, err)
	assert.Equal(t, 3, CountAvailable(append(units, &Unit{Status: raw})))
}

func TestIsRemovablePlaceholder(t *testing.T) {
	assert.True(t, (&Unit{Status: UnitAvailable, OwnerName: PlaceholderOwner}).IsRemovablePlaceholder())
	assert.False(t, (&Unit{Status: UnitSold, OwnerName: PlaceholderOwner}).IsRemovablePlaceholder())
	assert.False(t, (&Unit{Status: UnitAvailable, OwnerName: "Maria Lopez"}).IsRemovablePlaceholder())
}

func TestUnitPatchIsEmpty(t *testing.T) {
	assert.True(t, (&UnitPatch{}).IsEmpty())

	owner := "Maria Lopez"
	assert.False(t, (&UnitPatch{OwnerName: &owner}).IsEmpty())
}
