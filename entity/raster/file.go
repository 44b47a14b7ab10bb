package raster

import (
	"fmt"
	"os"
	"time"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v2"
)

// fileFrame 栅格文件中的一帧
type fileFrame struct {
	Time   string      `yaml:"time"` // RFC3339
	Values [][]float64 `yaml:"values"`
}

// file 栅格文件格式（YAML，JSON亦可）
type file struct {
	Name     string      `yaml:"name"`
	Origin   [2]float64  `yaml:"origin"` // 左上角[经度, 纬度]
	CellSize float64     `yaml:"cell_size"`
	Rows     int         `yaml:"rows"`
	Cols     int         `yaml:"cols"`
	NoData   float64     `yaml:"no_data"`
	Frames   []fileFrame `yaml:"frames"`
}

// Load 从文件读取栅格场
// 参数：path-文件路径
// 返回：栅格场与错误
func Load(path string) (*Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read raster %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析栅格文件内容
func Parse(data []byte) (*Field, error) {
	var rf file
	if err := yaml.UnmarshalStrict(data, &rf); err != nil {
		return nil, fmt.Errorf("parse raster: %w", err)
	}
	f, err := New(rf.Name, orb.Point(rf.Origin), rf.CellSize, rf.Rows, rf.Cols, rf.NoData)
	if err != nil {
		return nil, err
	}
	for _, fr := range rf.Frames {
		t, err := time.Parse(time.RFC3339, fr.Time)
		if err != nil {
			return nil, fmt.Errorf("raster %s: bad frame time %q: %w", rf.Name, fr.Time, err)
		}
		if err := f.AddFrame(t, fr.Values); err != nil {
			return nil, err
		}
	}
	return f, nil
}
