package feature

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// 没有name属性的要素使用的名称
const unnamed = "na"

// LoadGeoJSON 从GeoJSON文件读取某类要素
// 功能：读取FeatureCollection，将每个几何体的质心作为要素位置
// 参数：path-文件路径，t-要素类型
// 返回：要素列表与错误
func LoadGeoJSON(path string, t entity.FeatureType) ([]*entity.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseGeoJSON(data, t)
}

// ParseGeoJSON 解析GeoJSON FeatureCollection
// 说明：没有几何体的要素会被跳过；id为空时按"{类型}-{序号}"生成
func ParseGeoJSON(data []byte, t entity.FeatureType) ([]*entity.Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	features := make([]*entity.Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			log.Warnf("skip %s feature %d without geometry", t, i)
			continue
		}
		centroid, _ := planar.CentroidArea(f.Geometry)
		name := unnamed
		if s, ok := f.Properties["name"].(string); ok {
			name = s
		}
		id := fmt.Sprintf("%s-%d", t, i)
		if f.ID != nil {
			id = fmt.Sprint(f.ID)
		}
		features = append(features, &entity.Feature{
			ID:         id,
			Type:       t,
			Name:       name,
			Position:   centroid,
			Attributes: f.Properties,
		})
	}
	return features, nil
}
