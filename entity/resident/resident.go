package resident

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// Resident 居民
// 功能：保存一个居民在整个生命周期中的数据，由Plan与Tick修改
// 说明：活动与出行能力在创建后不再改变；route非空当且仅当存在尚未到达的目标
type Resident struct {
	id           uuid.UUID
	activity     Activity
	home         orb.Point
	position     orb.Point
	route        *entity.Route
	capabilities entity.Capabilities

	// 本步移动距离（米）
	ds float64
	// 回家导航失败的原因，非nil表示被困
	stranded error
	// 本步产生的事件，由管理器在并行阶段结束后统一取走
	events []entity.Event
}

// New 创建居民，初始位置为home
func New(id uuid.UUID, activity Activity, home orb.Point, caps entity.Capabilities) *Resident {
	return &Resident{
		id:           id,
		activity:     activity,
		home:         home,
		position:     home,
		capabilities: caps,
	}
}

func (r *Resident) ID() uuid.UUID {
	return r.id
}

func (r *Resident) Activity() Activity {
	return r.activity
}

func (r *Resident) Kind() entity.ActivityKind {
	return r.activity.Kind()
}

func (r *Resident) Home() orb.Point {
	return r.home
}

func (r *Resident) Position() orb.Point {
	return r.position
}

func (r *Resident) Route() *entity.Route {
	return r.route
}

func (r *Resident) Capabilities() entity.Capabilities {
	return r.capabilities
}

// GoalReached 当前是否没有待完成的路线
func (r *Resident) GoalReached() bool {
	return r.route == nil
}

// Picnic 野餐活动的数据，非野餐居民返回nil
func (r *Resident) Picnic() *Picnic {
	p, _ := r.activity.(*Picnic)
	return p
}

// State 野餐状态的字符串表示，非野餐居民为空
func (r *Resident) State() string {
	if p := r.Picnic(); p != nil {
		return p.State.String()
	}
	return ""
}

// Stranded 回家导航失败的原因，未被困时为nil
func (r *Resident) Stranded() error {
	return r.stranded
}

// setRoute 设置路线，创建时就已走完的路线（起终点重合）视为已到达
func (r *Resident) setRoute(route *entity.Route) {
	if route != nil && route.Done() {
		r.position = route.Goal()
		route = nil
	}
	r.route = route
}

func (r *Resident) emit(now time.Time, kind entity.EventKind, detail string) {
	r.events = append(r.events, entity.Event{
		Time:       now,
		ResidentID: r.id,
		Kind:       kind,
		State:      r.State(),
		Position:   r.position,
		Detail:     detail,
	})
}

// drainEvents 取走并清空事件缓冲
func (r *Resident) drainEvents() []entity.Event {
	events := r.events
	r.events = nil
	return events
}

func (r *Resident) snapshot() entity.Snapshot {
	return entity.Snapshot{
		ID:       r.id,
		Position: r.position,
		State:    r.State(),
		Moving:   r.route != nil,
	}
}

func (r *Resident) String() string {
	return fmt.Sprintf("Resident{ID=%v, Activity=%v, Home=%v, Position=%v, Capabilities=%v}",
		r.id, r.activity, r.home, r.position, r.capabilities)
}
