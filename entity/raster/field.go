package raster

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
)

// Frame 某一时刻的栅格数据，Values[row][col]，第0行为最北侧
type Frame struct {
	Time   time.Time
	Values [][]float64
}

// Field 时间序列栅格场
// 功能：保存规则网格上的时间序列数据（降水、气温等），按位置与时刻取值
// 说明：初始化完成后只读，ValueAt可并发调用；时刻取值不做插值，使用不晚于该时刻的最后一帧
type Field struct {
	Name     string
	Origin   orb.Point // 左上角（最小经度, 最大纬度）
	CellSize float64   // 格子边长（度）
	Rows     int
	Cols     int
	NoData   float64 // 网格外或没有数据时返回的值

	frames []Frame // 按时间升序
}

// New 创建没有任何帧的栅格场
func New(name string, origin orb.Point, cellSize float64, rows, cols int, noData float64) (*Field, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("raster %s: cell size must be positive, got %v", name, cellSize)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("raster %s: bad shape %dx%d", name, rows, cols)
	}
	return &Field{
		Name:     name,
		Origin:   origin,
		CellSize: cellSize,
		Rows:     rows,
		Cols:     cols,
		NoData:   noData,
	}, nil
}

// AddFrame 加入一帧数据，保持帧按时间升序
// 参数：t-帧时刻，values-Rows×Cols的数据
// 返回：形状不匹配或时刻重复时返回error
func (f *Field) AddFrame(t time.Time, values [][]float64) error {
	if len(values) != f.Rows {
		return fmt.Errorf("raster %s frame %v: want %d rows, got %d", f.Name, t, f.Rows, len(values))
	}
	for i, row := range values {
		if len(row) != f.Cols {
			return fmt.Errorf("raster %s frame %v row %d: want %d cols, got %d", f.Name, t, i, f.Cols, len(row))
		}
	}
	i := sort.Search(len(f.frames), func(i int) bool { return !f.frames[i].Time.Before(t) })
	if i < len(f.frames) && f.frames[i].Time.Equal(t) {
		return fmt.Errorf("raster %s: duplicated frame at %v", f.Name, t)
	}
	f.frames = append(f.frames, Frame{})
	copy(f.frames[i+1:], f.frames[i:])
	f.frames[i] = Frame{Time: t, Values: values}
	return nil
}

// Len 帧数
func (f *Field) Len() int {
	return len(f.frames)
}

// Bound 栅格覆盖的范围
func (f *Field) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{f.Origin[0], f.Origin[1] - float64(f.Rows)*f.CellSize},
		Max: orb.Point{f.Origin[0] + float64(f.Cols)*f.CellSize, f.Origin[1]},
	}
}

// Cell 位置所在的格子
// 返回：行号、列号，以及位置是否在网格内
func (f *Field) Cell(pos orb.Point) (row, col int, ok bool) {
	col = int(math.Floor((pos[0] - f.Origin[0]) / f.CellSize))
	row = int(math.Floor((f.Origin[1] - pos[1]) / f.CellSize))
	ok = row >= 0 && row < f.Rows && col >= 0 && col < f.Cols
	return
}

// frameAt 不晚于t的最后一帧，t早于所有帧时返回第一帧
func (f *Field) frameAt(t time.Time) *Frame {
	if len(f.frames) == 0 {
		return nil
	}
	i := sort.Search(len(f.frames), func(i int) bool { return f.frames[i].Time.After(t) })
	if i == 0 {
		return &f.frames[0]
	}
	return &f.frames[i-1]
}

// ValueAt 位置pos在时刻t的值
// 功能：实现entity.IRasterField
// 返回：格子的值；网格外或没有帧时返回NoData
func (f *Field) ValueAt(pos orb.Point, t time.Time) float64 {
	row, col, ok := f.Cell(pos)
	if !ok {
		log.Debugf("raster %s: %v is outside %v", f.Name, pos, f.Bound())
		return f.NoData
	}
	frame := f.frameAt(t)
	if frame == nil {
		return f.NoData
	}
	return frame.Values[row][col]
}
