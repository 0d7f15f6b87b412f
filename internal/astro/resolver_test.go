package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astro-whatsapp-bot/internal/domain"
)

func TestSignOf_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		longitude float64
		wantIndex int
		wantSign  string
	}{
		{"zero is Aries", 0.0, 0, "Aries"},
		{"just below first boundary", 29.999, 0, "Aries"},
		{"float dust below boundary", 29.999999, 0, "Aries"},
		{"exact boundary is next sign", 30.0, 1, "Taurus"},
		{"mid Leo", 135.5, 4, "Leo"},
		{"last degree", 359.999, 11, "Pisces"},
		{"full circle wraps to Aries", 360.0, 0, "Aries"},
		{"negative wraps", -10.0, 11, "Pisces"},
		{"beyond full circle", 390.0, 1, "Taurus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SignOf(tt.longitude)
			assert.Equal(t, tt.wantIndex, got.SignIndex)
			assert.Equal(t, tt.wantSign, got.Sign)
			assert.GreaterOrEqual(t, got.SignDegree, 0.0)
			assert.Less(t, got.SignDegree, 30.0)
		})
	}
}

func TestNormalize_NegativeDust(t *testing.T) {
	// A negative longitude smaller in magnitude than half an ulp of 360
	// makes the fold round to exactly 360; it must come back as 0.
	for _, l := range []float64{-1e-15, -1e-14, -2e-14} {
		assert.Equal(t, 0.0, Normalize(l), "longitude %g", l)
	}

	// Larger negative dust folds to a representable value just below 360
	// and must stay there, not collapse to 0.
	for _, l := range []float64{-1e-13, -5e-14} {
		got := Normalize(l)
		require.Less(t, got, 360.0, "longitude %g", l)
		require.Greater(t, got, 359.0, "longitude %g", l)
	}
}

func TestResolvers_NegativeDustStayTotal(t *testing.T) {
	// Ephemeris arithmetic can return a hair below zero; the resolvers
	// must treat that as the 0 boundary rather than index past their tables.
	for _, l := range []float64{-1e-15, -1e-14} {
		s := SignOf(l)
		assert.Equal(t, 0, s.SignIndex, "longitude %g", l)
		assert.Equal(t, "Aries", s.Sign, "longitude %g", l)
		assert.GreaterOrEqual(t, s.SignDegree, 0.0, "longitude %g", l)
		assert.Less(t, s.SignDegree, 30.0, "longitude %g", l)

		n := NakshatraOf(l)
		assert.Equal(t, 0, n.Index, "longitude %g", l)
		assert.Equal(t, 1, n.Pada, "longitude %g", l)

		assert.Equal(t, 1, HouseOf(l, 0).HouseNumber, "longitude %g", l)
		assert.Equal(t, 1, HouseOf(0, l).HouseNumber, "ascendant %g", l)
	}
}

func TestSignOf_Periodicity(t *testing.T) {
	for l := 0.0; l < 360; l += 7.3 {
		require.Equal(t, SignOf(l).SignIndex, SignOf(l+360).SignIndex, "longitude %f", l)
		require.Equal(t, SignOf(l).SignIndex, SignOf(l-720).SignIndex, "longitude %f", l)
	}
}

func TestSignOf_FloorRule(t *testing.T) {
	// For longitudes already in [0,360) the index is plain floor division.
	for l := 0.0; l < 360; l += 0.5 {
		require.Equal(t, int(l/30), SignOf(l).SignIndex, "longitude %f", l)
	}
}

func TestHouseOf_Range(t *testing.T) {
	for l := -400.0; l < 800; l += 37.7 {
		for a := -100.0; a < 500; a += 53.3 {
			h := HouseOf(l, a).HouseNumber
			require.GreaterOrEqual(t, h, 1)
			require.LessOrEqual(t, h, 12)
		}
	}
}

func TestHouseOf_ConjunctAscendantIsFirstHouse(t *testing.T) {
	for _, l := range []float64{0, 13.37, 180, 359.999, -42.5, 723.1} {
		assert.Equal(t, 1, HouseOf(l, l).HouseNumber, "longitude %f", l)
	}
}

func TestHouseOf_CountsFromAscendant(t *testing.T) {
	tests := []struct {
		longitude float64
		ascendant float64
		want      int
	}{
		{100, 100, 1},
		{130, 100, 2},
		{129.999, 100, 1},
		{70, 100, 12},  // behind the ascendant wraps to house 12
		{280, 100, 7},
		{0, 330, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HouseOf(tt.longitude, tt.ascendant).HouseNumber,
			"longitude=%f ascendant=%f", tt.longitude, tt.ascendant)
	}
}

func TestNakshatraOf_SweepCoversAll27(t *testing.T) {
	const width = 360.0 / 27

	seen := make(map[int]bool)
	for i := 0; i < 27; i++ {
		mid := (float64(i) + 0.5) * width
		p := NakshatraOf(mid)
		require.Equal(t, i, p.Index, "midpoint of segment %d", i)
		require.Equal(t, Nakshatras[i].Name, p.Name)
		require.Equal(t, Nakshatras[i].Lord, p.Lord)
		seen[p.Index] = true
	}
	assert.Len(t, seen, 27)

	// Exact boundaries round down into the starting segment. Only every
	// third boundary is a whole number of degrees, so only those are
	// exactly representable.
	for i := 0; i < 27; i += 3 {
		start := float64(i / 3 * 40)
		require.Equal(t, i, NakshatraOf(start).Index, "start of segment %d", i)
	}
}

func TestNakshatraOf_Pada(t *testing.T) {
	// Ashwini spans 0 to 13 deg 20 min; each pada is 3 deg 20 min.
	tests := []struct {
		longitude float64
		wantPada  int
	}{
		{0.0, 1},
		{3.2, 1},
		{3.3334, 2}, // just past the 3 deg 20 min boundary
		{6.7, 3},
		{10.1, 4},
		{13.3, 4},
	}
	for _, tt := range tests {
		p := NakshatraOf(tt.longitude)
		require.Equal(t, 0, p.Index, "longitude %f", tt.longitude)
		assert.Equal(t, tt.wantPada, p.Pada, "longitude %f", tt.longitude)
	}

	// Pada stays within 1..4 across the full circle.
	for l := 0.0; l < 360; l += 0.25 {
		p := NakshatraOf(l)
		require.GreaterOrEqual(t, p.Pada, 1, "longitude %f", l)
		require.LessOrEqual(t, p.Pada, 4, "longitude %f", l)
	}
}

func TestNakshatraLordsFollowNineCycle(t *testing.T) {
	for i, n := range Nakshatras {
		assert.Equal(t, Nakshatras[i%9].Lord, n.Lord, "nakshatra %d (%s)", i, n.Name)
	}
}

func TestNakshatraLordsAreValidBodies(t *testing.T) {
	for _, n := range Nakshatras {
		assert.True(t, n.Lord.Valid(), "nakshatra %s", n.Name)
	}
	assert.True(t, domain.BodyKetu == Nakshatras[0].Lord, "Ashwini belongs to the Ketu group")
}
