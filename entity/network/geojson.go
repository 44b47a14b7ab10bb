package network

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// LoadGeoJSON 从GeoJSON文件构建出行网络
func LoadGeoJSON(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON 解析GeoJSON FeatureCollection并构建出行网络
// 功能：读取LineString与MultiLineString，其余几何类型被跳过
// 说明：属性walking默认为true，driving默认为false
func ParseGeoJSON(data []byte) (*Network, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	n := New()
	skipped := 0
	for _, f := range fc.Features {
		modes := modesOf(f.Properties)
		switch g := f.Geometry.(type) {
		case orb.LineString:
			n.AddLine(g, modes)
		case orb.MultiLineString:
			for _, line := range g {
				n.AddLine(line, modes)
			}
		default:
			skipped++
		}
	}
	if skipped > 0 {
		log.Warnf("skip %d non-line features in network", skipped)
	}
	if err := n.Build(); err != nil {
		return nil, err
	}
	return n, nil
}

func modesOf(props geojson.Properties) entity.Capabilities {
	var modes entity.Capabilities
	if v, ok := props["walking"].(bool); !ok || v {
		modes |= entity.NewCapabilities(entity.TravelModeWalking)
	}
	if v, ok := props["driving"].(bool); ok && v {
		modes |= entity.NewCapabilities(entity.TravelModeDriving)
	}
	return modes
}
