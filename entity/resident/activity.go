package resident

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// PicnicState 野餐居民的状态
// 说明：状态严格按 Home -> GoingToPlace -> Arrived -> GoingHome -> Home 转移
type PicnicState int32

const (
	PicnicStateHome         PicnicState = iota // 在家
	PicnicStateGoingToPlace                    // 前往野餐地点
	PicnicStateArrived                         // 正在野餐
	PicnicStateGoingHome                       // 回家途中
)

func (s PicnicState) String() string {
	switch s {
	case PicnicStateHome:
		return "home"
	case PicnicStateGoingToPlace:
		return "going_to_place"
	case PicnicStateArrived:
		return "arrived"
	case PicnicStateGoingHome:
		return "going_home"
	}
	return fmt.Sprintf("PicnicState(%d)", int32(s))
}

// Activity 居民活动
// 功能：三种活动互斥，只有Picnic带有状态与计时器
type Activity interface {
	Kind() entity.ActivityKind
	String() string
}

// ToAirport 前往最近的机场
type ToAirport struct{}

func (ToAirport) Kind() entity.ActivityKind { return entity.ActivityKindToAirport }
func (ToAirport) String() string            { return "ToAirport{}" }

// ToNamedRiver 前往指定名称的河流
type ToNamedRiver struct {
	Name string
}

func (ToNamedRiver) Kind() entity.ActivityKind { return entity.ActivityKindToNamedRiver }
func (a ToNamedRiver) String() string          { return fmt.Sprintf("ToNamedRiver{Name=%q}", a.Name) }

// Picnic 到附近野餐后回家
type Picnic struct {
	State         PicnicState
	ArrivalTime   time.Time // 到达野餐地点的时刻
	DepartureTime time.Time // 计划离开的时刻，ArrivalTime+DurationMinutes

	DurationMinutes         int     // 野餐时长（分钟）
	MaxTravelDistanceMeters float64 // 候选地点的最大距离（米）
	// 为true时用剩余总时长<=0判断野餐结束，否则只比较剩余时长的分钟分量
	StrictDwellTimer bool
}

func (*Picnic) Kind() entity.ActivityKind { return entity.ActivityKindPicnic }

func (p *Picnic) String() string {
	return fmt.Sprintf("Picnic{State=%v, Arrival=%v, Departure=%v, Duration=%dmin}",
		p.State, p.ArrivalTime.Format(time.DateTime), p.DepartureTime.Format(time.DateTime), p.DurationMinutes)
}

// dwellExpired 野餐是否结束
// 说明：默认只比较剩余时长的分钟分量（截断取整，不含小时），
// 因此步长大于一分钟时可能错过，跨小时时可能多次命中
func (p *Picnic) dwellExpired(now time.Time) bool {
	remaining := p.DepartureTime.Sub(now)
	if p.StrictDwellTimer {
		return remaining <= 0
	}
	return int64(remaining/time.Minute)%60 == 0
}
