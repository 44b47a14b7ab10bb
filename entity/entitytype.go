package entity

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// TravelMode 出行方式
type TravelMode int32

const (
	TravelModeWalking TravelMode = iota // 步行
	TravelModeDriving                   // 开车
)

func (m TravelMode) String() string {
	switch m {
	case TravelModeWalking:
		return "walking"
	case TravelModeDriving:
		return "driving"
	}
	return fmt.Sprintf("TravelMode(%d)", int32(m))
}

// ParseTravelMode 将字符串解析为出行方式
func ParseTravelMode(s string) (TravelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walking", "walk":
		return TravelModeWalking, nil
	case "driving", "drive", "car":
		return TravelModeDriving, nil
	}
	return 0, fmt.Errorf("unknown travel mode %q", s)
}

// Capabilities 居民可使用的出行方式集合（位集合）
type Capabilities uint8

// NewCapabilities 由出行方式列表构造能力集合
func NewCapabilities(modes ...TravelMode) Capabilities {
	var c Capabilities
	for _, m := range modes {
		c |= 1 << uint(m)
	}
	return c
}

// ParseCapabilities 将字符串列表解析为能力集合，空列表视为仅步行
func ParseCapabilities(ss []string) (Capabilities, error) {
	if len(ss) == 0 {
		return NewCapabilities(TravelModeWalking), nil
	}
	var c Capabilities
	for _, s := range ss {
		m, err := ParseTravelMode(s)
		if err != nil {
			return 0, err
		}
		c |= NewCapabilities(m)
	}
	return c, nil
}

// Has 判断是否包含某种出行方式
func (c Capabilities) Has(m TravelMode) bool {
	return c&NewCapabilities(m) != 0
}

func (c Capabilities) String() string {
	modes := make([]string, 0, 2)
	for _, m := range []TravelMode{TravelModeWalking, TravelModeDriving} {
		if c.Has(m) {
			modes = append(modes, m.String())
		}
	}
	return "[" + strings.Join(modes, ",") + "]"
}

// FeatureType 矢量要素的类型（图层）
type FeatureType string

const (
	FeatureTypeAirport FeatureType = "airport" // 机场
	FeatureTypeRiver   FeatureType = "river"   // 河流
	FeatureTypePoi     FeatureType = "poi"     // 兴趣点
	FeatureTypeNode    FeatureType = "node"    // 出行网络节点
)

// Feature 带名称与类型的点要素
// 功能：表示一个可被查询的地理要素，位置为原始几何的质心
type Feature struct {
	ID         string         // 要素ID
	Type       FeatureType    // 要素类型
	Name       string         // 名称，没有name属性时为"na"
	Position   orb.Point      // 位置（经度, 纬度）
	Attributes map[string]any // 原始属性
}

// Point 实现orb.Pointer，用于空间索引
func (f *Feature) Point() orb.Point {
	return f.Position
}

func (f *Feature) String() string {
	return fmt.Sprintf("Feature{ID=%s, Type=%s, Name=%s, Position=%v}", f.ID, f.Type, f.Name, f.Position)
}

// ResidentRecord 居民的初始化数据
// 功能：描述一个居民在模拟开始时的全部输入，来自文件或MongoDB
type ResidentRecord struct {
	ID                        string    `yaml:"id,omitempty" bson:"id,omitempty"`                                               // 可选，uuid字符串
	Activity                  string    `yaml:"activity" bson:"activity"`                                                       // _airport / _river / picnic
	RiverName                 string    `yaml:"river_name,omitempty" bson:"river_name,omitempty"`                               // 目标河流名称
	PicnicDuration            int       `yaml:"picnic_duration,omitempty" bson:"picnic_duration,omitempty"`                     // 野餐时长（分钟）
	MaxTravelDistanceInMeters float64   `yaml:"max_travel_distance_in_meters,omitempty" bson:"max_travel_distance_in_meters"` // 野餐最大出行距离（米）
	Capabilities              []string  `yaml:"capabilities,omitempty" bson:"capabilities,omitempty"`                           // 出行方式
	StartPosition             []float64 `yaml:"start_position,omitempty" bson:"start_position,omitempty"`                       // [经度, 纬度]，为空则随机选取网络节点
}
