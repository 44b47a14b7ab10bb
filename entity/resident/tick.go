package resident

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// Tick 居民每步的更新
// 功能：有路线时沿路线移动；已到达时执行野餐的到达、停留与回家逻辑
// 参数：r-居民，router-导航，now-当前仿真时刻，dt-步长（秒）
// 返回：回家导航失败时返回包装了entity.ErrStrandedAgent的错误，居民保持GoingHome且不重试
// 算法说明：
// 1. 路线未走完：移动一步，走完时清空路线，位置即为目标
// 2. 已到达且为野餐居民：
//   - GoingToPlace：转为Arrived，记录到达与离开时刻
//   - 否则Arrived且停留时间到：转为GoingHome，请求回家的路线
//   - 最后，位置与家重合时无条件转为Home
func Tick(r *Resident, router entity.IRouter, now time.Time, dt float64) error {
	r.ds = 0
	if r.route != nil {
		r.position, r.ds = r.route.Move(dt)
		if r.route.Done() {
			r.route = nil
			r.emit(now, entity.EventArrived, fmt.Sprintf("goal %v", r.position))
		}
		return nil
	}
	p, ok := r.activity.(*Picnic)
	if !ok {
		return nil
	}
	var err error
	if p.State == PicnicStateGoingToPlace {
		p.State = PicnicStateArrived
		p.ArrivalTime = now
		p.DepartureTime = now.Add(time.Duration(p.DurationMinutes) * time.Minute)
		r.emit(now, entity.EventStateChanged, fmt.Sprintf("depart at %v", p.DepartureTime.Format(time.DateTime)))
	} else if p.State == PicnicStateArrived && p.dwellExpired(now) {
		p.State = PicnicStateGoingHome
		r.emit(now, entity.EventStateChanged, "")
		route, routeErr := router.FindRoute(r.position, r.home, r.capabilities)
		if routeErr == nil && route == nil {
			routeErr = entity.ErrNoRouteFound
		}
		if routeErr != nil {
			r.stranded = fmt.Errorf("%v at %v: %w: %w", r.id, r.position, entity.ErrStrandedAgent, routeErr)
			r.emit(now, entity.EventStranded, routeErr.Error())
			err = r.stranded
		} else {
			r.setRoute(route)
		}
	}
	if r.position == r.home && p.State != PicnicStateHome {
		p.State = PicnicStateHome
		r.emit(now, entity.EventStateChanged, "")
	}
	return err
}
