package input_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/input"
)

const roads = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"driving": true},
   "geometry": {"type": "LineString", "coordinates": [[31.0, -24.8], [31.01, -24.8], [31.02, -24.8]]}}
]}`

const airports = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "id": "kmia", "properties": {"name": "Kruger Mpumalanga"},
   "geometry": {"type": "Point", "coordinates": [31.1, -25.4]}}
]}`

const residents = `
- activity: _airport
  capabilities: [walking, driving]
- activity: picnic
  picnic_duration: 30
  start_position: [31.01, -24.8]
- activity: _river
  river_name: Sand River
`

func write(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	c := config.Config{
		Input: config.Input{
			Network:  write(t, dir, "roads.geojson", roads),
			Airports: write(t, dir, "airports.geojson", airports),
			Precipitation: config.RasterInput{Synthetic: &config.SyntheticRaster{
				Seed: 1, Bound: [4]float64{30.5, -25.5, 31.5, -24.5}, Rows: 4, Cols: 4, Frames: 2, Interval: 3600, Max: 800,
			}},
			Residents: config.InputPath{File: write(t, dir, "residents.yaml", residents)},
		},
	}
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	in := input.Init(c, start, "")

	assert.Equal(t, 3, in.Network.Len())
	assert.Equal(t, 3, in.Features.Len(entity.FeatureTypeNode))
	assert.Equal(t, 1, in.Features.Len(entity.FeatureTypeAirport))
	assert.Zero(t, in.Features.Len(entity.FeatureTypeRiver))
	airport, err := in.Features.Nearest(orb.Point{31, -24.8}, entity.FeatureTypeAirport)
	require.NoError(t, err)
	assert.Equal(t, "Kruger Mpumalanga", airport.Name)
	assert.Equal(t, "kmia", airport.ID)

	require.NotNil(t, in.Precipitation)
	assert.Equal(t, 2, in.Precipitation.Len())
	assert.Nil(t, in.TemperatureMin)
	assert.Nil(t, in.TemperatureMax)

	require.Len(t, in.Residents, 3)
	assert.Equal(t, []string{"walking", "driving"}, in.Residents[0].Capabilities)
	assert.Equal(t, 30, in.Residents[1].PicnicDuration)
	assert.Equal(t, []float64{31.01, -24.8}, in.Residents[1].StartPosition)
	assert.Equal(t, "Sand River", in.Residents[2].RiverName)
}

func TestInitRequiresNetwork(t *testing.T) {
	assert.Panics(t, func() { input.Init(config.Config{}, time.Time{}, "") })
}

func TestLoadResidentsRejectsUnknownField(t *testing.T) {
	path := write(t, t.TempDir(), "bad.yaml", "- activity: picnic\n  favourite_food: pap\n")
	_, err := input.LoadResidents(path)
	assert.Error(t, err)
}
