package feature

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/quadtree"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// indexed 空间索引中的元素，记录要素在图层中的插入顺序
type indexed struct {
	f     *entity.Feature
	index int
}

func (i indexed) Point() orb.Point {
	return i.f.Position
}

// layer 同一类型要素组成的图层
type layer struct {
	features []*entity.Feature
	tree     *quadtree.Quadtree // 空间索引，为nil时退化为线性扫描
}

// build 构建图层的四叉树索引
func (l *layer) build() error {
	if len(l.features) == 0 {
		l.tree = nil
		return nil
	}
	first := l.features[0].Position
	bound := orb.Bound{Min: first, Max: first}
	for _, f := range l.features[1:] {
		bound = bound.Extend(f.Position)
	}
	tree := quadtree.New(bound.Pad(1e-9))
	for i, f := range l.features {
		if err := tree.Add(indexed{f: f, index: i}); err != nil {
			return fmt.Errorf("index feature %v: %w", f, err)
		}
	}
	l.tree = tree
	return nil
}

// Store 地理要素库
// 功能：按类型保存点要素，提供最近邻、按类型遍历与半径查询
// 说明：写入（Add/Build）只在初始化阶段进行，之后所有查询都是只读的，可并发调用
type Store struct {
	layers map[entity.FeatureType]*layer

	// WithinRadius所查询的候选图层
	candidateType entity.FeatureType
}

// NewStore 创建空的要素库，半径查询默认使用出行网络节点图层
func NewStore() *Store {
	return &Store{
		layers:        make(map[entity.FeatureType]*layer),
		candidateType: entity.FeatureTypeNode,
	}
}

// SetCandidateType 修改半径查询使用的图层
func (s *Store) SetCandidateType(t entity.FeatureType) {
	s.candidateType = t
}

// Add 加入要素，已有索引失效，需要重新Build
func (s *Store) Add(features ...*entity.Feature) {
	for _, f := range features {
		l, ok := s.layers[f.Type]
		if !ok {
			l = &layer{}
			s.layers[f.Type] = l
		}
		l.features = append(l.features, f)
		l.tree = nil
	}
}

// Build 为所有图层构建空间索引
// 功能：在所有要素加入后调用，使半径查询不再线性扫描
// 返回：构建失败的错误
func (s *Store) Build() error {
	for t, l := range s.layers {
		if err := l.build(); err != nil {
			return fmt.Errorf("build %s layer: %w", t, err)
		}
		log.Debugf("layer %s indexed: %d features", t, len(l.features))
	}
	return nil
}

// Len 某类要素的数量
func (s *Store) Len(t entity.FeatureType) int {
	if l, ok := s.layers[t]; ok {
		return len(l.features)
	}
	return 0
}

// Nearest 距离pos最近的某类要素
// 功能：按测地线距离选择最近的要素，距离相同时取先加入的
// 参数：pos-查询位置，t-要素类型
// 返回：最近的要素；该类型没有要素时返回entity.ErrNoFeatureFound
func (s *Store) Nearest(pos orb.Point, t entity.FeatureType) (*entity.Feature, error) {
	l, ok := s.layers[t]
	if !ok || len(l.features) == 0 {
		return nil, fmt.Errorf("nearest %s to %v: %w", t, pos, entity.ErrNoFeatureFound)
	}
	return lo.MinBy(l.features, func(a, b *entity.Feature) bool {
		return geo.Distance(pos, a.Position) < geo.Distance(pos, b.Position)
	}), nil
}

// AllOfType 某类要素的全部数据，顺序为加入顺序
func (s *Store) AllOfType(t entity.FeatureType) []*entity.Feature {
	if l, ok := s.layers[t]; ok {
		return l.features
	}
	return nil
}

// WithinRadius 查询半径范围内的候选位置
// 功能：在候选图层中找出与pos测地线距离不超过radius米的要素位置
// 参数：pos-查询位置，radius-半径（米）
// 返回：按距离升序排列的位置，距离相同时按加入顺序
// 算法说明：
// 1. 以pos为中心构造外接矩形，在四叉树中取出矩形内的要素（无索引时全部扫描）
// 2. 用测地线距离过滤
// 3. 按（距离，加入顺序）稳定排序
func (s *Store) WithinRadius(pos orb.Point, radius float64) []orb.Point {
	l, ok := s.layers[s.candidateType]
	if !ok || radius < 0 {
		return nil
	}
	var found []indexed
	if l.tree != nil {
		bound := geo.NewBoundAroundPoint(pos, radius)
		found = lo.Map(l.tree.InBound(nil, bound), func(p orb.Pointer, _ int) indexed {
			return p.(indexed)
		})
	} else {
		found = lo.Map(l.features, func(f *entity.Feature, i int) indexed {
			return indexed{f: f, index: i}
		})
	}
	type candidate struct {
		indexed
		distance float64
	}
	candidates := make([]candidate, 0, len(found))
	for _, i := range found {
		if d := geo.Distance(pos, i.f.Position); d <= radius {
			candidates = append(candidates, candidate{indexed: i, distance: d})
		}
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		if a.distance != b.distance {
			if a.distance < b.distance {
				return -1
			}
			return 1
		}
		return a.index - b.index
	})
	return lo.Map(candidates, func(c candidate, _ int) orb.Point {
		return c.f.Position
	})
}
