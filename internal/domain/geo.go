package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Coordinates stores a GeoJSON point in a json column and marshals to the
// API as {"type":"Point","coordinates":[lng,lat]}, the shape clients
// already consume. Longitude comes first.
type Coordinates struct {
	Longitude float64
	Latitude  float64
}

type geoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// MarshalJSON emits the GeoJSON point object.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSONPoint{
		Type:        "Point",
		Coordinates: []float64{c.Longitude, c.Latitude},
	})
}

// UnmarshalJSON accepts a GeoJSON point or a bare [lng, lat] pair.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var p geoJSONPoint
	if err := json.Unmarshal(data, &p); err == nil && len(p.Coordinates) == 2 {
		c.Longitude = p.Coordinates[0]
		c.Latitude = p.Coordinates[1]
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("location must be a GeoJSON point or [longitude, latitude]: %w", err)
	}
	if len(arr) != 2 {
		return fmt.Errorf("location coordinates must have 2 elements, got %d", len(arr))
	}
	c.Longitude = arr[0]
	c.Latitude = arr[1]
	return nil
}

// Scan implements sql.Scanner for reading from DB (json column).
func (c *Coordinates) Scan(value interface{}) error {
	if value == nil {
		*c = Coordinates{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return c.UnmarshalJSON(v)
	case string:
		return c.UnmarshalJSON([]byte(v))
	default:
		return errors.New("unsupported type for Coordinates")
	}
}

// Value implements driver.Valuer for writing to DB.
func (c Coordinates) Value() (driver.Value, error) {
	b, err := c.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
