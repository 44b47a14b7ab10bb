package config

import (
	"fmt"
	"time"
)

const (
	defaultPicnicDuration    = 60         // 默认野餐时长（分钟）
	defaultMaxTravelDistance = 5000       // 默认野餐最大出行距离（米）
	defaultRiverName         = "Sand River"
	defaultWalkingSpeed      = 1.34 // 默认步行速度（米/秒）
	defaultDrivingSpeed      = 13.9 // 默认驾车速度（米/秒）
	defaultInterval          = 1.   // 默认步长（秒）
)

var defaultStartTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，包含补全默认值后的控制参数
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All       Config    // 全部配置
	C         Control   // 全局控制配置
	StartTime time.Time // 第0步对应的时刻
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，进行配置验证和默认值补全
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针，配置非法时返回error
// 算法说明：
// 1. 解析起始时刻，为空则使用默认时刻
// 2. 补全步长与居民行为的默认值
// 3. 检查步长与速度必须为正，野餐时长与距离不能为负
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{
		All:       config,
		C:         config.Control,
		StartTime: defaultStartTime,
	}
	if s := config.Control.Step.StartTime; s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("bad control.step.start_time %q: %w", s, err)
		}
		rc.StartTime = t
	}
	if rc.C.Step.Interval == 0 {
		rc.C.Step.Interval = defaultInterval
	}
	if rc.C.Step.Interval < 0 {
		return nil, fmt.Errorf("control.step.interval must be positive, got %v", rc.C.Step.Interval)
	}
	r := &rc.C.Resident
	if r.PicnicDuration == 0 {
		r.PicnicDuration = defaultPicnicDuration
	}
	if r.MaxTravelDistance == 0 {
		r.MaxTravelDistance = defaultMaxTravelDistance
	}
	if r.RiverName == "" {
		r.RiverName = defaultRiverName
	}
	if r.WalkingSpeed == 0 {
		r.WalkingSpeed = defaultWalkingSpeed
	}
	if r.DrivingSpeed == 0 {
		r.DrivingSpeed = defaultDrivingSpeed
	}
	if r.PicnicDuration < 0 || r.MaxTravelDistance < 0 {
		return nil, fmt.Errorf("resident picnic settings must not be negative, got picnic_duration=%d max_travel_distance=%v", r.PicnicDuration, r.MaxTravelDistance)
	}
	if r.WalkingSpeed < 0 || r.DrivingSpeed < 0 {
		return nil, fmt.Errorf("resident speeds must be positive, got walking=%v driving=%v", r.WalkingSpeed, r.DrivingSpeed)
	}
	rc.All.Control = rc.C
	return rc, nil
}
