package resident_test

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// fakeStore 固定内容的要素库
type fakeStore struct {
	airports   []*entity.Feature
	rivers     []*entity.Feature
	candidates []orb.Point
}

func (s *fakeStore) Nearest(pos orb.Point, t entity.FeatureType) (*entity.Feature, error) {
	features := s.AllOfType(t)
	if len(features) == 0 {
		return nil, fmt.Errorf("nearest %s: %w", t, entity.ErrNoFeatureFound)
	}
	return lo.MinBy(features, func(a, b *entity.Feature) bool {
		return geo.Distance(pos, a.Position) < geo.Distance(pos, b.Position)
	}), nil
}

func (s *fakeStore) AllOfType(t entity.FeatureType) []*entity.Feature {
	switch t {
	case entity.FeatureTypeAirport:
		return s.airports
	case entity.FeatureTypeRiver:
		return s.rivers
	}
	return nil
}

func (s *fakeStore) WithinRadius(pos orb.Point, radius float64) []orb.Point {
	return s.candidates
}

// fakeField 处处相同的栅格
type fakeField float64

func (f fakeField) ValueAt(orb.Point, time.Time) float64 {
	return float64(f)
}

// fakeRouter 直线路线，fail返回true时导航失败
type fakeRouter struct {
	speed float64
	fail  func(start, goal orb.Point) bool
	calls atomic.Int32
}

func (r *fakeRouter) FindRoute(start, goal orb.Point, caps entity.Capabilities) (*entity.Route, error) {
	r.calls.Add(1)
	if r.fail != nil && r.fail(start, goal) {
		return nil, fmt.Errorf("fake: %w", entity.ErrNoRouteFound)
	}
	speed := r.speed
	if speed == 0 {
		speed = 10
	}
	return entity.NewRoute([]*entity.Leg{
		{Mode: entity.TravelModeWalking, Path: []orb.Point{start, goal}, Speed: speed},
	}), nil
}

func feature(t entity.FeatureType, name string, pos orb.Point) *entity.Feature {
	return &entity.Feature{ID: name, Type: t, Name: name, Position: pos}
}

var (
	t0   = time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	home = orb.Point{31.2, -24.8}
	walk = entity.NewCapabilities(entity.TravelModeWalking)
)

// timeStep 第i步相对t0的时长（步长1秒）
func timeStep(i int) time.Duration {
	return time.Duration(i) * time.Second
}
