package network

import (
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/container"
)

// Router 基于出行网络的导航模块
// 功能：在网络上做最短路搜索，生成包含步行/驾车路段的路线
// 说明：搜索状态全部在调用栈上分配，可并发调用
type Router struct {
	network      *Network
	walkingSpeed float64
	drivingSpeed float64
}

// NewRouter 创建导航模块
// 参数：n-出行网络，walkingSpeed/drivingSpeed-步行与驾车速度（米/秒）
func NewRouter(n *Network, walkingSpeed, drivingSpeed float64) *Router {
	return &Router{
		network:      n,
		walkingSpeed: walkingSpeed,
		drivingSpeed: drivingSpeed,
	}
}

// FindRoute 路径规划
// 功能：为起终点生成路线
// 参数：start-起点，goal-终点，caps-可用出行方式
// 返回：路线；没有可行路径时返回entity.ErrNoRouteFound
// 算法说明：
// 1. 可以驾车时，起终点分别吸附到最近的可驾车节点，搜索驾车路径，成功则返回 步行-驾车-步行 三段（不能步行时首尾也是驾车）
// 2. 否则（或驾车不可达）可以步行时，吸附到最近的可步行节点，搜索步行路径，返回一段步行
// 3. 都不可行时返回ErrNoRouteFound
func (r *Router) FindRoute(start, goal orb.Point, caps entity.Capabilities) (*entity.Route, error) {
	if caps.Has(entity.TravelModeDriving) {
		if path, s, g := r.search(start, goal, entity.TravelModeDriving); path != nil {
			route := entity.NewRoute([]*entity.Leg{
				r.accessLeg(start, s.position, caps),
				{Mode: entity.TravelModeDriving, Path: path, Speed: r.drivingSpeed},
				r.accessLeg(g.position, goal, caps),
			})
			return route, nil
		}
	}
	if caps.Has(entity.TravelModeWalking) {
		if path, _, _ := r.search(start, goal, entity.TravelModeWalking); path != nil {
			line := make([]orb.Point, 0, len(path)+2)
			line = append(line, start)
			line = append(line, path...)
			line = append(line, goal)
			line = slices.Compact(line)
			return entity.NewRoute([]*entity.Leg{
				{Mode: entity.TravelModeWalking, Path: line, Speed: r.walkingSpeed},
			}), nil
		}
	}
	return nil, fmt.Errorf("route %v -> %v with %v: %w", start, goal, caps, entity.ErrNoRouteFound)
}

// accessLeg 网络外连接起终点与吸附节点的直线段，起终点相同时返回nil
// 说明：能步行时步行，否则按驾车速度直接开到节点
func (r *Router) accessLeg(from, to orb.Point, caps entity.Capabilities) *entity.Leg {
	if from == to {
		return nil
	}
	if !caps.Has(entity.TravelModeWalking) {
		return &entity.Leg{Mode: entity.TravelModeDriving, Path: []orb.Point{from, to}, Speed: r.drivingSpeed}
	}
	return &entity.Leg{Mode: entity.TravelModeWalking, Path: []orb.Point{from, to}, Speed: r.walkingSpeed}
}

// search 吸附起终点并搜索某种出行方式的路径
// 返回：节点位置序列与吸附到的起终点节点，不可达时path为nil
func (r *Router) search(start, goal orb.Point, mode entity.TravelMode) (path []orb.Point, s, g *Node) {
	s = r.network.NearestNode(start, mode)
	g = r.network.NearestNode(goal, mode)
	if s == nil || g == nil {
		return nil, nil, nil
	}
	return r.shortestPath(s, g, mode), s, g
}

// shortestPath Dijkstra最短路
func (r *Router) shortestPath(s, g *Node, mode entity.TravelMode) []orb.Point {
	n := len(r.network.nodes)
	dist := make([]float64, n)
	prev := make([]*Node, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[s.index] = 0
	pq := container.NewPriorityQueue[*Node]()
	pq.HeapPush(s, 0)
	for pq.Len() > 0 {
		u, d := pq.HeapPop()
		if u == g {
			break
		}
		if d > dist[u.index] {
			continue
		}
		for _, e := range u.edges {
			if !e.modes.Has(mode) {
				continue
			}
			if nd := d + e.length; nd < dist[e.to.index] {
				dist[e.to.index] = nd
				prev[e.to.index] = u
				pq.HeapPush(e.to, nd)
			}
		}
	}
	if math.IsInf(dist[g.index], 1) {
		return nil
	}
	path := []orb.Point{g.position}
	for u := prev[g.index]; u != nil; u = prev[u.index] {
		path = append(path, u.position)
	}
	slices.Reverse(path)
	return path
}
