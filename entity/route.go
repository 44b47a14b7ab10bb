package entity

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/samber/lo"
)

// Leg 路线中的一段，整段使用同一种出行方式
type Leg struct {
	Mode  TravelMode  // 出行方式
	Path  []orb.Point // 折线（经度, 纬度）
	Speed float64     // 移动速度（米/秒）
}

// Length 路段长度（米）
func (l *Leg) Length() float64 {
	if len(l.Path) < 2 {
		return 0
	}
	return geo.Length(orb.LineString(l.Path))
}

func (l *Leg) String() string {
	return fmt.Sprintf("Leg{Mode=%v, Points=%d, Length=%.1fm, Speed=%.2f}", l.Mode, len(l.Path), l.Length(), l.Speed)
}

// Route 多段路线以及沿路线移动的进度
// 功能：保存导航结果，并作为移动原语按时间步推进位置
// 说明：路线走完后Done()为true，此时Position()严格等于最后一段的终点
type Route struct {
	Legs []*Leg

	indexLeg    int       // 当前路段下标
	indexVertex int       // 当前路段中所在折线段的起点下标
	offset      float64   // 在当前折线段上已走过的距离（米）
	position    orb.Point // 当前位置
}

// NewRoute 由路段创建路线
// 功能：过滤掉空路段，初始化移动进度
// 参数：legs-路段列表
// 返回：路线，若没有任何有效路段则返回nil
func NewRoute(legs []*Leg) *Route {
	legs = lo.Filter(legs, func(l *Leg, _ int) bool {
		return l != nil && len(l.Path) > 0
	})
	if len(legs) == 0 {
		return nil
	}
	for _, l := range legs {
		if l.Speed <= 0 && len(l.Path) > 1 {
			panic(fmt.Sprintf("route: leg %v has non-positive speed", l))
		}
	}
	r := &Route{
		Legs:     legs,
		position: legs[0].Path[0],
	}
	r.skipFinishedLegs()
	return r
}

// Done 路线是否已经走完（nil视为已走完）
func (r *Route) Done() bool {
	return r == nil || r.indexLeg >= len(r.Legs)
}

// Current 当前路段，走完后返回nil
func (r *Route) Current() *Leg {
	if r.Done() {
		return nil
	}
	return r.Legs[r.indexLeg]
}

// Start 路线起点
func (r *Route) Start() orb.Point {
	return r.Legs[0].Path[0]
}

// Goal 路线终点
func (r *Route) Goal() orb.Point {
	last := r.Legs[len(r.Legs)-1]
	return last.Path[len(last.Path)-1]
}

// Position 当前位置
func (r *Route) Position() orb.Point {
	return r.position
}

// Length 路线总长度（米）
func (r *Route) Length() float64 {
	return lo.SumBy(r.Legs, func(l *Leg) float64 { return l.Length() })
}

// Move 沿路线移动一个时间步
// 功能：按当前路段速度推进dt秒，跨越折线顶点与路段时保留剩余时间
// 参数：dt-时间步长（秒）
// 返回：pos-移动后的位置，ds-本次移动的距离（米）
// 算法说明：
// 1. 计算当前折线段的剩余距离与所需时间
// 2. 剩余时间足够则走到顶点，扣除时间，进入下一折线段或下一路段
// 3. 否则在当前折线段上线性插值
// 4. 跳过已走完的路段，保证最后一段走完时Done()为true
func (r *Route) Move(dt float64) (pos orb.Point, ds float64) {
	rest := dt
	for rest > 0 && !r.Done() {
		leg := r.Legs[r.indexLeg]
		a, b := leg.Path[r.indexVertex], leg.Path[r.indexVertex+1]
		segment := geo.Distance(a, b)
		remain := segment - r.offset
		need := remain / leg.Speed
		if need <= rest {
			rest -= need
			ds += remain
			r.position = b
			r.indexVertex++
			r.offset = 0
			r.skipFinishedLegs()
			continue
		}
		step := rest * leg.Speed
		r.offset += step
		ds += step
		rest = 0
		ratio := r.offset / segment
		r.position = orb.Point{
			a[0] + (b[0]-a[0])*ratio,
			a[1] + (b[1]-a[1])*ratio,
		}
	}
	return r.position, ds
}

func (r *Route) skipFinishedLegs() {
	for r.indexLeg < len(r.Legs) && r.indexVertex >= len(r.Legs[r.indexLeg].Path)-1 {
		r.indexLeg++
		r.indexVertex = 0
		r.offset = 0
	}
}

func (r *Route) String() string {
	if r == nil {
		return "Route{}"
	}
	return fmt.Sprintf("Route{Legs=%v, Index=%d}", r.Legs, r.indexLeg)
}
