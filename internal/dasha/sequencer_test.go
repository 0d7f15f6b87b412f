package dasha

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astro-whatsapp-bot/internal/domain"
)

func TestSequenceTotalsExactly120(t *testing.T) {
	// Full traversal from any starting index sums to the whole cycle.
	for start := 0; start < 9; start++ {
		total := 0.0
		for i := 0; i < 9; i++ {
			total += Sequence[(start+i)%9].Years
		}
		require.Equal(t, TotalCycleYears, total, "start index %d", start)
	}
}

func TestCurrent_ZeroElapsedReturnsStartingLord(t *testing.T) {
	for nak := 0; nak < 27; nak++ {
		p, err := Current(nak, 0)
		require.NoError(t, err, "nakshatra %d", nak)

		want := Sequence[nak%9]
		assert.Equal(t, want.Lord, p.Lord, "nakshatra %d", nak)
		assert.Equal(t, want.Years, p.DurationYears, "nakshatra %d", nak)
		assert.Equal(t, want.Years, p.RemainingYears, "nakshatra %d", nak)
	}
}

func TestCurrent_KetuVenusBoundary(t *testing.T) {
	// Birth in Ashwini (Ketu group): exactly 7 elapsed years lands on the
	// first instant of Venus.
	p, err := Current(0, 7.0)
	require.NoError(t, err)
	assert.Equal(t, domain.BodyVenus, p.Lord)
	assert.Equal(t, 20.0, p.DurationYears)
	assert.Equal(t, 20.0, p.RemainingYears)
}

func TestCurrent_MidPeriod(t *testing.T) {
	// Ashwini, 10 years in: 3 years into Venus.
	p, err := Current(0, 10.0)
	require.NoError(t, err)
	assert.Equal(t, domain.BodyVenus, p.Lord)
	assert.InDelta(t, 17.0, p.RemainingYears, 1e-9)
}

func TestCurrent_WrapsFullCycle(t *testing.T) {
	base, err := Current(5, 42.5)
	require.NoError(t, err)

	wrapped, err := Current(5, 42.5+TotalCycleYears)
	require.NoError(t, err)
	assert.Equal(t, base.Lord, wrapped.Lord)
	assert.InDelta(t, base.RemainingYears, wrapped.RemainingYears, 1e-9)
}

func TestCurrent_JustExpiredNeverReportsZero(t *testing.T) {
	// A hair under a boundary still reports a strictly positive remainder.
	p, err := Current(0, math.Nextafter(7.0, 0))
	require.NoError(t, err)
	assert.Equal(t, domain.BodyKetu, p.Lord)
	assert.Greater(t, p.RemainingYears, 0.0)
}

func TestCurrent_IndeterminateInputs(t *testing.T) {
	tests := []struct {
		name    string
		nak     int
		elapsed float64
	}{
		{"negative elapsed", 0, -0.001},
		{"birth in the future", 12, -30},
		{"NaN", 3, math.NaN()},
		{"positive infinity", 3, math.Inf(1)},
		{"nakshatra below range", -1, 10},
		{"nakshatra above range", 27, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Current(tt.nak, tt.elapsed)
			require.ErrorIs(t, err, ErrIndeterminate)
		})
	}
}

func TestCurrent_Deterministic(t *testing.T) {
	first, err := Current(14, 33.33)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := Current(14, 33.33)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestLordOf_GroupMapping(t *testing.T) {
	// The three nakshatras of each group share a lord.
	for nak := 0; nak < 27; nak++ {
		assert.Equal(t, Sequence[nak%9].Lord, LordOf(nak), "nakshatra %d", nak)
	}
	assert.Equal(t, domain.BodyKetu, LordOf(0))   // Ashwini
	assert.Equal(t, domain.BodyKetu, LordOf(9))   // Magha
	assert.Equal(t, domain.BodyMercury, LordOf(26)) // Revati
}

func TestTimeline_ContiguousAndOrdered(t *testing.T) {
	periods, err := Timeline(0, 120)
	require.NoError(t, err)
	require.NotEmpty(t, periods)

	assert.Equal(t, domain.BodyKetu, periods[0].Lord)
	assert.Equal(t, 0.0, periods[0].StartYears)

	for i := 1; i < len(periods); i++ {
		require.Equal(t, periods[i-1].EndYears, periods[i].StartYears, "gap before period %d", i)
	}
	last := periods[len(periods)-1]
	assert.GreaterOrEqual(t, last.EndYears, 120.0)
}

func TestTimeline_IndeterminateInputs(t *testing.T) {
	_, err := Timeline(0, -1)
	require.ErrorIs(t, err, ErrIndeterminate)
	_, err = Timeline(-2, 10)
	require.ErrorIs(t, err, ErrIndeterminate)
	_, err = Timeline(0, math.NaN())
	require.ErrorIs(t, err, ErrIndeterminate)
}
