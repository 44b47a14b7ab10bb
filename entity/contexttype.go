package entity

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/clock"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/randengine"
)

// 地理要素库接口，所有方法必须支持并发读
type IFeatureStore interface {
	// 距离pos最近的某类要素，没有该类要素时返回ErrNoFeatureFound
	Nearest(pos orb.Point, featureType FeatureType) (*Feature, error)
	// 某类要素的全部数据，顺序稳定
	AllOfType(featureType FeatureType) []*Feature
	// 距离pos不超过radius米的候选位置，按距离升序
	WithinRadius(pos orb.Point, radius float64) []orb.Point
}

// 栅格场接口，所有方法必须支持并发读
type IRasterField interface {
	// 位置pos在时刻t的值
	ValueAt(pos orb.Point, t time.Time) float64
}

// 导航模块接口，所有方法必须支持并发调用
type IRouter interface {
	// 路径规划（同步版本），失败时返回ErrNoRouteFound
	FindRoute(start, goal orb.Point, caps Capabilities) (*Route, error)
}

// 出行网络接口
type INetwork interface {
	// 随机选取一个网络节点的位置
	RandomNode(generator *randengine.Engine) orb.Point
}

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	FeatureStore() IFeatureStore
	Precipitation() IRasterField
	TemperatureMin() IRasterField // 未配置时为nil
	TemperatureMax() IRasterField // 未配置时为nil
	Router() IRouter
	Network() INetwork
	Recorder() IRecorder // 未配置输出时为nil
	ResidentManager() IResidentManager
}
