package raster

import (
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
)

const (
	defaultNoiseScale    = 0.1
	defaultNoiseOctaves  = 3
	defaultNoiseTimeStep = 0.05
)

// Synthetic 用OpenSimplex噪声生成时间序列栅格
// 功能：在没有真实气象数据时生成空间连续、随时间缓慢变化的栅格
// 参数：name-栅格名称，c-生成配置，start-第一帧的时刻
// 返回：栅格场与错误
// 算法说明：
// 1. 以(列, 行, 帧)为三维噪声坐标，帧坐标按TimeStep推进
// 2. 多层噪声叠加后归一化到[0, 1]，再映射到[Min, Max]
func Synthetic(name string, c config.SyntheticRaster, start time.Time) (*Field, error) {
	cellSize := (c.Bound[2] - c.Bound[0]) / float64(max(c.Cols, 1))
	f, err := New(name, orb.Point{c.Bound[0], c.Bound[3]}, cellSize, c.Rows, c.Cols, 0)
	if err != nil {
		return nil, err
	}
	scale := c.Scale
	if scale == 0 {
		scale = defaultNoiseScale
	}
	octaves := c.Octaves
	if octaves == 0 {
		octaves = defaultNoiseOctaves
	}
	timeStep := c.TimeStep
	if timeStep == 0 {
		timeStep = defaultNoiseTimeStep
	}
	noise := opensimplex.NewNormalized(c.Seed)
	frames := max(c.Frames, 1)
	for k := range frames {
		values := make([][]float64, c.Rows)
		for i := range values {
			values[i] = make([]float64, c.Cols)
			for j := range values[i] {
				v := octaveNoise(noise, float64(j)*scale, float64(i)*scale, float64(k)*timeStep, octaves)
				values[i][j] = c.Min + (c.Max-c.Min)*v
			}
		}
		t := start.Add(time.Duration(float64(k) * c.Interval * float64(time.Second)))
		if err := f.AddFrame(t, values); err != nil {
			return nil, err
		}
	}
	log.Infof("synthetic raster %s: %dx%d, %d frames", name, c.Rows, c.Cols, frames)
	return f, nil
}

// octaveNoise 多层噪声叠加，结果仍在[0, 1]
func octaveNoise(noise opensimplex.Noise, x, y, z float64, octaves int) float64 {
	total, amplitude, maxVal := 0., 1., 0.
	frequency := 1.
	for range octaves {
		total += noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= .5
		frequency *= 2
	}
	return total / maxVal
}
