package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, DistanceKm(32.58, 0.31, 32.58, 0.31), 0.001)

	// Kampala to Nairobi is roughly 505 km.
	d := DistanceKm(32.58, 0.31, 36.82, -1.29)
	assert.InDelta(t, 505, d, 15)

	// One degree of latitude is ~111 km anywhere.
	d = DistanceKm(0, 0, 0, 1)
	assert.InDelta(t, 111, d, 1)

	// Symmetric.
	assert.InDelta(t,
		DistanceKm(32.58, 0.31, 36.82, -1.29),
		DistanceKm(36.82, -1.29, 32.58, 0.31), 0.0001)
}
