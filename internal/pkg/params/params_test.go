package params

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat_MalformedMeansAbsent(t *testing.T) {
	assert.Nil(t, Float(""))
	assert.Nil(t, Float("abc"))
	assert.Nil(t, Float("12abc"))

	f := Float(" 42.5 ")
	require.NotNil(t, f)
	assert.Equal(t, 42.5, *f)

	zero := Float("0")
	require.NotNil(t, zero)
	assert.Equal(t, 0.0, *zero)
}

func TestPositiveInt_ClampsAndDefaults(t *testing.T) {
	assert.Equal(t, 1, PositiveInt("", 1))
	assert.Equal(t, 1, PositiveInt("abc", 1))
	assert.Equal(t, 1, PositiveInt("0", 1))
	assert.Equal(t, 1, PositiveInt("-3", 1))
	assert.Equal(t, 7, PositiveInt("7", 1))
}

func TestDate_AcceptsBothFormats(t *testing.T) {
	assert.Nil(t, Date(""))
	assert.Nil(t, Date("tomorrow"))

	d := Date("2026-03-01")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *d)

	d = Date("2026-03-01T10:30:00Z")
	require.NotNil(t, d)
	assert.Equal(t, 10, d.Hour())
}

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Nil(t, CSV("  "))
	assert.Equal(t, []string{"Maize", "Wheat"}, CSV(" Maize , Wheat ,, "))
}
