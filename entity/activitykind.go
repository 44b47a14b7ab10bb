package entity

import (
	"fmt"
	"strings"
)

// ActivityKind 居民的活动类型
type ActivityKind int32

const (
	ActivityKindToAirport    ActivityKind = iota // 前往最近的机场
	ActivityKindToNamedRiver                     // 前往指定名称的河流
	ActivityKindPicnic                           // 野餐往返
)

// 活动标签，沿用居民初始化文件中的写法
const (
	ActivityLabelAirport = "_airport"
	ActivityLabelRiver   = "_river"
	ActivityLabelPicnic  = "picnic"
)

func (k ActivityKind) String() string {
	switch k {
	case ActivityKindToAirport:
		return "ToAirport"
	case ActivityKindToNamedRiver:
		return "ToNamedRiver"
	case ActivityKindPicnic:
		return "Picnic"
	}
	return fmt.Sprintf("ActivityKind(%d)", int32(k))
}

// ParseActivityKind 将活动标签解析为活动类型
func ParseActivityKind(label string) (ActivityKind, error) {
	switch strings.TrimSpace(label) {
	case ActivityLabelAirport:
		return ActivityKindToAirport, nil
	case ActivityLabelRiver:
		return ActivityKindToNamedRiver, nil
	case ActivityLabelPicnic:
		return ActivityKindPicnic, nil
	}
	return 0, fmt.Errorf("unknown activity %q", label)
}
