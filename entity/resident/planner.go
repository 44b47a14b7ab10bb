package resident

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// 超过该降水量时野餐居民不出门
const maxPicnicPrecipitation = 500

// Plan 活动规划
// 功能：居民创建时调用一次，根据活动选择目标并请求路线
// 参数：r-居民，features-地理要素库，field-降水栅格，router-导航，now-当前仿真时刻
// 说明：找不到目标或导航失败都不是错误，居民留在原地；只修改路线与野餐状态
func Plan(
	r *Resident,
	features entity.IFeatureStore,
	field entity.IRasterField,
	router entity.IRouter,
	now time.Time,
) {
	switch a := r.activity.(type) {
	case ToAirport:
		airport, err := features.Nearest(r.home, entity.FeatureTypeAirport)
		if err != nil {
			log.Infof("%v: no airport: %v", r.id, err)
			r.emit(now, entity.EventNoGoal, err.Error())
			return
		}
		r.requestRoute(router, r.home, airport.Position, now)
	case ToNamedRiver:
		river, ok := firstNamed(features.AllOfType(entity.FeatureTypeRiver), a.Name)
		if !ok {
			log.Debugf("%v: no river named %q", r.id, a.Name)
			r.emit(now, entity.EventNoGoal, fmt.Sprintf("no river named %q", a.Name))
			return
		}
		r.requestRoute(router, r.home, river.Position, now)
	case *Picnic:
		planPicnic(r, a, features, field, router, now)
	default:
		log.Panicf("%v: unknown activity %v", r.id, r.activity)
	}
}

func planPicnic(
	r *Resident,
	p *Picnic,
	features entity.IFeatureStore,
	field entity.IRasterField,
	router entity.IRouter,
	now time.Time,
) {
	if precipitation := field.ValueAt(r.home, now); precipitation > maxPicnicPrecipitation {
		p.State = PicnicStateHome
		r.emit(now, entity.EventStayHome, fmt.Sprintf("precipitation %.1f", precipitation))
		return
	}
	candidates := features.WithinRadius(r.home, p.MaxTravelDistanceMeters)
	if len(candidates) < 2 {
		p.State = PicnicStateHome
		r.emit(now, entity.EventStayHome, fmt.Sprintf("%d candidates within %.0fm", len(candidates), p.MaxTravelDistanceMeters))
		return
	}
	// 固定取第二个候选
	p.State = PicnicStateGoingToPlace
	if !r.requestRoute(router, r.home, candidates[1], now) {
		// 没有路线时不会出发，保持在家，避免后续直接进入Arrived
		p.State = PicnicStateHome
	}
}

// requestRoute 请求路线，导航失败时记录事件
// 返回：是否得到了路线
func (r *Resident) requestRoute(router entity.IRouter, start, goal orb.Point, now time.Time) bool {
	route, err := router.FindRoute(start, goal, r.capabilities)
	if err == nil && route == nil {
		err = fmt.Errorf("route %v -> %v: empty route: %w", start, goal, entity.ErrNoRouteFound)
	}
	if err != nil {
		if !errors.Is(err, entity.ErrNoRouteFound) {
			log.Warnf("%v: unexpected router error: %v", r.id, err)
		} else {
			log.Infof("%v: %v", r.id, err)
		}
		r.emit(now, entity.EventNoRoute, err.Error())
		return false
	}
	r.setRoute(route)
	r.emit(now, entity.EventPlanned, fmt.Sprintf("goal %v", goal))
	return true
}

// firstNamed 按要素库顺序返回第一个名称完全一致的要素
func firstNamed(features []*entity.Feature, name string) (*entity.Feature, bool) {
	for _, f := range features {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
