package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterRow_DeriveFromReadings(t *testing.T) {
	water := MeterRow{Kind: KindWater, Previous: "100", Current: "110", UnitPrice: 5}
	water.Derive()
	require.NotNil(t, water.Usage)
	require.NotNil(t, water.Amount)
	assert.Equal(t, 10.0, *water.Usage)
	assert.Equal(t, 50.0, *water.Amount)

	elec := MeterRow{Kind: KindElectricity, Previous: "2000", Current: "2150", UnitPrice: 1.2}
	elec.Derive()
	require.NotNil(t, elec.Usage)
	require.NotNil(t, elec.Amount)
	assert.Equal(t, 150.0, *elec.Usage)
	assert.Equal(t, 180.0, *elec.Amount)
}

func TestMeterRow_BlankPreviousDefaultsToZero(t *testing.T) {
	row := MeterRow{Kind: KindWater, Previous: "", Current: "50", UnitPrice: 2}
	row.Derive()
	require.NotNil(t, row.Usage)
	assert.Equal(t, 50.0, *row.Usage)
	assert.Equal(t, 100.0, *row.Amount)
}

func TestMeterRow_IncompleteReadingsUnset(t *testing.T) {
	unparseable := MeterRow{Kind: KindWater, Previous: "100", Current: "abc", UnitPrice: 5}
	unparseable.Derive()
	assert.Nil(t, unparseable.Usage)
	assert.Nil(t, unparseable.Amount)

	rollback := MeterRow{Kind: KindWater, Previous: "200", Current: "150", UnitPrice: 5}
	rollback.Derive()
	assert.Nil(t, rollback.Usage)
	assert.Nil(t, rollback.Amount)

	badPrevious := MeterRow{Kind: KindWater, Previous: "x", Current: "150", UnitPrice: 5}
	badPrevious.Derive()
	assert.Nil(t, badPrevious.Usage)
	assert.Nil(t, badPrevious.Amount)
}

func TestMeterRow_ManualUsageStaysPriceCoupled(t *testing.T) {
	row := MeterRow{Kind: KindWater, Previous: "100", Current: "110", UnitPrice: 3}
	row.Derive()

	row.SetUsage("20")
	require.NotNil(t, row.Usage)
	assert.Equal(t, 20.0, *row.Usage)
	assert.Equal(t, 60.0, *row.Amount)
	assert.True(t, row.UsageOverridden)
	assert.False(t, row.AmountOverridden)

	// A tariff change reprices the manual usage but keeps its value.
	row.SetUnitPrice(4)
	assert.Equal(t, 20.0, *row.Usage)
	assert.Equal(t, 80.0, *row.Amount)
}

func TestMeterRow_ManualAmountDecouples(t *testing.T) {
	row := MeterRow{Kind: KindElectricity, Previous: "0", Current: "100", UnitPrice: 1.2}
	row.Derive()

	row.SetAmount("75")
	require.NotNil(t, row.Amount)
	assert.Equal(t, 75.0, *row.Amount)
	assert.True(t, row.AmountOverridden)

	// Usage is untouched and the amount ignores tariff changes.
	require.NotNil(t, row.Usage)
	assert.Equal(t, 100.0, *row.Usage)
	row.SetUnitPrice(9)
	assert.Equal(t, 75.0, *row.Amount)
}

func TestMeterRow_BothOverridesCanCoexist(t *testing.T) {
	row := MeterRow{Kind: KindWater, UnitPrice: 5}
	row.SetUsage("10")
	row.SetAmount("12")
	assert.True(t, row.UsageOverridden)
	assert.True(t, row.AmountOverridden)
	assert.Equal(t, 10.0, *row.Usage)
	assert.Equal(t, 12.0, *row.Amount)
}

func TestMeterRow_ReadingEditClearsOverrides(t *testing.T) {
	row := MeterRow{Kind: KindWater, Previous: "100", UnitPrice: 5}
	row.SetAmount("999")
	row.SetUsage("999")

	row.SetCurrent("110")
	assert.False(t, row.UsageOverridden)
	assert.False(t, row.AmountOverridden)
	require.NotNil(t, row.Usage)
	assert.Equal(t, 10.0, *row.Usage)
	assert.Equal(t, 50.0, *row.Amount)

	row.SetAmount("999")
	row.SetPrevious("105")
	assert.False(t, row.AmountOverridden)
	assert.Equal(t, 5.0, *row.Usage)
	assert.Equal(t, 25.0, *row.Amount)
}

func TestMeterRow_UnparseableOverrideUnsets(t *testing.T) {
	row := MeterRow{Kind: KindWater, Previous: "100", Current: "110", UnitPrice: 5}
	row.Derive()

	row.SetUsage("not-a-number")
	assert.Nil(t, row.Usage)
	assert.Nil(t, row.Amount)

	row = MeterRow{Kind: KindWater, Previous: "100", Current: "110", UnitPrice: 5}
	row.Derive()
	row.SetAmount("")
	assert.Nil(t, row.Amount)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.2351))
	assert.Equal(t, -2.5, Round2(-2.499))
}
