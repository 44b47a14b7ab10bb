package feature_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/feature"
)

const water = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "w1", "properties": {"name": "Sand River"},
     "geometry": {"type": "LineString", "coordinates": [[31.0, -24.8], [31.2, -24.8]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Point", "coordinates": [31.5, -24.5]}}
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	features, err := feature.ParseGeoJSON([]byte(water), entity.FeatureTypeRiver)
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, "w1", features[0].ID)
	assert.Equal(t, "Sand River", features[0].Name)
	assert.InDelta(t, 31.1, features[0].Position.Lon(), 1e-9)
	assert.InDelta(t, -24.8, features[0].Position.Lat(), 1e-9)

	assert.Equal(t, "river-1", features[1].ID)
	assert.Equal(t, "na", features[1].Name)
	assert.Equal(t, orb.Point{31.5, -24.5}, features[1].Position)
	assert.Equal(t, entity.FeatureTypeRiver, features[1].Type)
}

func TestParseGeoJSONBadInput(t *testing.T) {
	_, err := feature.ParseGeoJSON([]byte("{"), entity.FeatureTypeRiver)
	assert.Error(t, err)
}
