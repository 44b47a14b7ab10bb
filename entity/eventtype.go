package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// EventKind 居民事件类型
type EventKind string

const (
	EventPlanned      EventKind = "planned"       // 规划出路线
	EventNoGoal       EventKind = "no_goal"       // 没有目标，留在原地
	EventNoRoute      EventKind = "no_route"      // 有目标但导航失败
	EventStayHome     EventKind = "stay_home"     // 野餐居民决定不出门
	EventArrived      EventKind = "arrived"       // 走完路线
	EventStateChanged EventKind = "state_changed" // 野餐状态变化
	EventStranded     EventKind = "stranded"      // 回家导航失败
)

// Event 居民在某一时刻发生的事件
type Event struct {
	Time       time.Time
	ResidentID uuid.UUID
	Kind       EventKind
	State      string    // 事件发生后的野餐状态，非野餐居民为空
	Position   orb.Point // 事件发生时的位置
	Detail     string
}

// Snapshot 居民在某一步的位置
type Snapshot struct {
	ID       uuid.UUID `json:"id"`
	Position orb.Point `json:"position"`
	State    string    `json:"state,omitempty"`
	Moving   bool      `json:"moving"`
}

// Summary 某一步的全局统计
type Summary struct {
	Step              int32
	Time              time.Time
	NumResidents      int
	NumMoving         int
	NumCompletedTrips int32
	NumStranded       int32
	TravelDistance    float64 // 累计移动距离（米）
	Precipitation     float64 // 居民所在位置的平均降水
	TemperatureMin    float64 // 居民所在位置的平均最低气温
	TemperatureMax    float64 // 居民所在位置的平均最高气温
}

// 运行记录的依赖倒置（output包）
type IRecorder interface {
	RecordResidents(residents []IResident) error
	RecordEvents(events []Event) error
	RecordPositions(step int32, t time.Time, snapshots []Snapshot) error
	RecordSummary(summary Summary) error
	Close() error
}
