package raster_test

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/raster"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
)

var t0 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

const precipitation = `
name: precipitation
origin: [31.0, -24.0]
cell_size: 0.5
rows: 2
cols: 2
no_data: -1
frames:
  - time: "2020-01-01T06:00:00Z"
    values: [[600, 100], [0, 50]]
  - time: "2020-01-01T00:00:00Z"
    values: [[1, 2], [3, 4]]
`

func TestParseAndValueAt(t *testing.T) {
	f, err := raster.Parse([]byte(precipitation))
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())

	upperLeft := orb.Point{31.1, -24.1}
	lowerRight := orb.Point{31.9, -24.9}

	// 帧按时间排序，取不晚于t的最后一帧
	assert.Equal(t, 1., f.ValueAt(upperLeft, t0))
	assert.Equal(t, 1., f.ValueAt(upperLeft, t0.Add(5*time.Hour)))
	assert.Equal(t, 600., f.ValueAt(upperLeft, t0.Add(6*time.Hour)))
	assert.Equal(t, 50., f.ValueAt(lowerRight, t0.Add(24*time.Hour)))
	// 早于第一帧时使用第一帧
	assert.Equal(t, 4., f.ValueAt(lowerRight, t0.Add(-time.Hour)))
	// 网格外
	assert.Equal(t, -1., f.ValueAt(orb.Point{30, -24.1}, t0))
	assert.Equal(t, -1., f.ValueAt(orb.Point{31.1, -23.9}, t0))
}

func TestAddFrameShapeMismatch(t *testing.T) {
	f, err := raster.New("t", orb.Point{0, 0}, 1, 2, 2, 0)
	require.NoError(t, err)
	assert.Error(t, f.AddFrame(t0, [][]float64{{1, 2}}))
	assert.Error(t, f.AddFrame(t0, [][]float64{{1, 2}, {3}}))
	require.NoError(t, f.AddFrame(t0, [][]float64{{1, 2}, {3, 4}}))
	assert.Error(t, f.AddFrame(t0, [][]float64{{1, 2}, {3, 4}}))
}

func TestNewRejectsBadShape(t *testing.T) {
	_, err := raster.New("t", orb.Point{0, 0}, 0, 1, 1, 0)
	assert.Error(t, err)
	_, err = raster.New("t", orb.Point{0, 0}, 1, 0, 1, 0)
	assert.Error(t, err)
}

func TestEmptyFieldReturnsNoData(t *testing.T) {
	f, err := raster.New("t", orb.Point{0, 1}, 1, 1, 1, -9999)
	require.NoError(t, err)
	assert.Equal(t, -9999., f.ValueAt(orb.Point{0.5, 0.5}, t0))
}

func TestSyntheticWithinRange(t *testing.T) {
	f, err := raster.Synthetic("precipitation", config.SyntheticRaster{
		Seed:     3,
		Bound:    [4]float64{31, -25, 32, -24},
		Rows:     10,
		Cols:     10,
		Frames:   4,
		Interval: 3600,
		Min:      0,
		Max:      1000,
	}, t0)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Len())
	for _, p := range []orb.Point{{31.05, -24.05}, {31.55, -24.55}, {31.95, -24.95}} {
		for h := range 4 {
			v := f.ValueAt(p, t0.Add(time.Duration(h)*time.Hour))
			assert.GreaterOrEqual(t, v, 0.)
			assert.LessOrEqual(t, v, 1000.)
		}
	}

	again, err := raster.Synthetic("precipitation", config.SyntheticRaster{
		Seed: 3, Bound: [4]float64{31, -25, 32, -24}, Rows: 10, Cols: 10, Frames: 4, Interval: 3600, Max: 1000,
	}, t0)
	require.NoError(t, err)
	p := orb.Point{31.55, -24.55}
	assert.Equal(t, f.ValueAt(p, t0), again.ValueAt(p, t0))
}
