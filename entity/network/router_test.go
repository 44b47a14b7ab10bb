package network_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity/network"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/randengine"
)

// 一条南北向的步行小路，与一条东西向的公路在(31.01, -24.8)相交
//
//	w0
//	|
//	d0 ---- x ---- d1
//	|
//	w1
const roads = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"walking": true},
     "geometry": {"type": "LineString", "coordinates": [[31.01, -24.79], [31.01, -24.8], [31.01, -24.81]]}},
    {"type": "Feature", "properties": {"walking": false, "driving": true},
     "geometry": {"type": "LineString", "coordinates": [[31.0, -24.8], [31.01, -24.8], [31.02, -24.8]]}},
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Point", "coordinates": [31.5, -24.5]}}
  ]
}`

func load(t *testing.T) *network.Network {
	n, err := network.ParseGeoJSON([]byte(roads))
	require.NoError(t, err)
	return n
}

func TestParseMergesVertices(t *testing.T) {
	n := load(t)
	// 交叉点只出现一次
	assert.Equal(t, 5, n.Len())
	assert.Len(t, n.Features(), 5)
	for _, f := range n.Features() {
		assert.Equal(t, entity.FeatureTypeNode, f.Type)
	}
}

func TestNearestNodeByMode(t *testing.T) {
	n := load(t)
	p := orb.Point{31.0, -24.798}
	walk := n.NearestNode(p, entity.TravelModeWalking)
	require.NotNil(t, walk)
	assert.Equal(t, orb.Point{31.01, -24.8}, walk.Point())
	drive := n.NearestNode(p, entity.TravelModeDriving)
	require.NotNil(t, drive)
	assert.Equal(t, orb.Point{31.0, -24.8}, drive.Point())
}

func TestWalkingRouteEndsAtGoal(t *testing.T) {
	router := network.NewRouter(load(t), 1.34, 13.9)
	start := orb.Point{31.0105, -24.7901}
	goal := orb.Point{31.0095, -24.8099}
	route, err := router.FindRoute(start, goal, entity.NewCapabilities(entity.TravelModeWalking))
	require.NoError(t, err)
	require.NotNil(t, route)
	require.Len(t, route.Legs, 1)
	assert.Equal(t, entity.TravelModeWalking, route.Legs[0].Mode)
	assert.Equal(t, start, route.Start())
	assert.Equal(t, goal, route.Goal())

	for i := 0; i < 100000 && !route.Done(); i++ {
		route.Move(1)
	}
	assert.True(t, route.Done())
	assert.Equal(t, goal, route.Position())
}

func TestDrivingRouteHasThreeLegs(t *testing.T) {
	router := network.NewRouter(load(t), 1.34, 13.9)
	start := orb.Point{31.0, -24.801}
	goal := orb.Point{31.02, -24.799}
	caps := entity.NewCapabilities(entity.TravelModeWalking, entity.TravelModeDriving)
	route, err := router.FindRoute(start, goal, caps)
	require.NoError(t, err)
	require.Len(t, route.Legs, 3)
	assert.Equal(t, []entity.TravelMode{entity.TravelModeWalking, entity.TravelModeDriving, entity.TravelModeWalking},
		[]entity.TravelMode{route.Legs[0].Mode, route.Legs[1].Mode, route.Legs[2].Mode})
	assert.Equal(t, 13.9, route.Legs[1].Speed)
	assert.Equal(t, goal, route.Goal())
}

func TestDrivingOnlyRouteHasNoWalkingLeg(t *testing.T) {
	router := network.NewRouter(load(t), 1.34, 13.9)
	start := orb.Point{31.0, -24.801}
	goal := orb.Point{31.02, -24.799}
	route, err := router.FindRoute(start, goal, entity.NewCapabilities(entity.TravelModeDriving))
	require.NoError(t, err)
	require.Len(t, route.Legs, 3)
	for _, leg := range route.Legs {
		assert.Equal(t, entity.TravelModeDriving, leg.Mode)
		assert.Equal(t, 13.9, leg.Speed)
	}
	assert.Equal(t, start, route.Start())
	assert.Equal(t, goal, route.Goal())
}

func TestNoRoute(t *testing.T) {
	n := network.New()
	n.AddLine(orb.LineString{{0, 0}, {0, 0.01}}, entity.NewCapabilities(entity.TravelModeWalking))
	n.AddLine(orb.LineString{{1, 0}, {1, 0.01}}, entity.NewCapabilities(entity.TravelModeWalking))
	require.NoError(t, n.Build())
	router := network.NewRouter(n, 1, 10)

	_, err := router.FindRoute(orb.Point{0, 0}, orb.Point{1, 0.01}, entity.NewCapabilities(entity.TravelModeWalking))
	assert.True(t, errors.Is(err, entity.ErrNoRouteFound))

	// 没有可驾车的边且不能步行
	_, err = router.FindRoute(orb.Point{0, 0}, orb.Point{0, 0.01}, entity.NewCapabilities(entity.TravelModeDriving))
	assert.ErrorIs(t, err, entity.ErrNoRouteFound)

	_, err = network.NewRouter(network.New(), 1, 10).FindRoute(orb.Point{0, 0}, orb.Point{0, 1}, entity.NewCapabilities(entity.TravelModeWalking))
	assert.ErrorIs(t, err, entity.ErrNoRouteFound)
}

func TestDrivingFallsBackToWalking(t *testing.T) {
	n := network.New()
	n.AddLine(orb.LineString{{0, 0}, {0, 0.01}}, entity.NewCapabilities(entity.TravelModeWalking))
	// 两段互不连通的公路，起点与终点分别吸附到不同的公路上
	n.AddLine(orb.LineString{{-1, 0}, {-1, 0.001}}, entity.NewCapabilities(entity.TravelModeDriving))
	n.AddLine(orb.LineString{{1, 0.01}, {1, 0.011}}, entity.NewCapabilities(entity.TravelModeDriving))
	require.NoError(t, n.Build())
	router := network.NewRouter(n, 1, 10)

	caps := entity.NewCapabilities(entity.TravelModeWalking, entity.TravelModeDriving)
	route, err := router.FindRoute(orb.Point{0, 0}, orb.Point{0, 0.01}, caps)
	require.NoError(t, err)
	require.Len(t, route.Legs, 1)
	assert.Equal(t, entity.TravelModeWalking, route.Legs[0].Mode)
	assert.Equal(t, orb.Point{0, 0.01}, route.Goal())
}

func TestRandomNodeIsDeterministic(t *testing.T) {
	n := load(t)
	nodes := n.Nodes()
	a, b := randengine.New(7), randengine.New(7)
	for range 10 {
		p := n.RandomNode(a)
		assert.Equal(t, p, n.RandomNode(b))
		assert.Contains(t, nodes, p)
	}
}
