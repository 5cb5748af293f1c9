package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinates_MarshalsAsGeoJSON(t *testing.T) {
	b, err := json.Marshal(Coordinates{Longitude: 32.58, Latitude: 0.31})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[32.58,0.31]}`, string(b))
}

func TestCoordinates_AcceptsBothInputShapes(t *testing.T) {
	var c Coordinates
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Point","coordinates":[32.58,0.31]}`), &c))
	assert.Equal(t, 32.58, c.Longitude)
	assert.Equal(t, 0.31, c.Latitude)

	var c2 Coordinates
	require.NoError(t, json.Unmarshal([]byte(`[36.82,-1.29]`), &c2))
	assert.Equal(t, 36.82, c2.Longitude)
	assert.Equal(t, -1.29, c2.Latitude)

	var c3 Coordinates
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &c3))
	assert.Error(t, json.Unmarshal([]byte(`"kampala"`), &c3))
}

func TestCoordinates_ScanRoundTrip(t *testing.T) {
	v, err := Coordinates{Longitude: 32.58, Latitude: 0.31}.Value()
	require.NoError(t, err)

	var c Coordinates
	require.NoError(t, c.Scan(v))
	assert.Equal(t, 32.58, c.Longitude)
	assert.Equal(t, 0.31, c.Latitude)

	var empty Coordinates
	require.NoError(t, empty.Scan(nil))
	assert.Zero(t, empty.Longitude)
}
