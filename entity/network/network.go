package network

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/quadtree"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/randengine"
)

// Node 出行网络节点
type Node struct {
	index    int
	position orb.Point
	edges    []*Edge
	modes    entity.Capabilities // 与该节点相连的边所允许的出行方式之并
}

// Point 实现orb.Pointer，用于空间索引
func (n *Node) Point() orb.Point {
	return n.position
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{Index=%d, Position=%v, Modes=%v}", n.index, n.position, n.modes)
}

// Edge 有向边，来自输入线要素中相邻两个顶点
type Edge struct {
	from, to *Node
	length   float64             // 测地线长度（米）
	modes    entity.Capabilities // 允许的出行方式
}

// Network 出行网络
// 功能：由线要素构成的图，顶点按坐标合并，边记录长度与允许的出行方式
// 说明：AddLine只在初始化阶段调用，Build之后只读，可并发查询
type Network struct {
	nodes []*Node
	index map[orb.Point]*Node
	tree  *quadtree.Quadtree
}

// New 创建空的出行网络
func New() *Network {
	return &Network{
		nodes: make([]*Node, 0),
		index: make(map[orb.Point]*Node),
	}
}

func (n *Network) node(p orb.Point) *Node {
	if node, ok := n.index[p]; ok {
		return node
	}
	node := &Node{index: len(n.nodes), position: p}
	n.nodes = append(n.nodes, node)
	n.index[p] = node
	n.tree = nil
	return node
}

// AddLine 加入一条线
// 功能：相邻顶点之间加入双向边，重复的相邻顶点被忽略
// 参数：line-折线，modes-允许的出行方式
func (n *Network) AddLine(line orb.LineString, modes entity.Capabilities) {
	if modes == 0 {
		return
	}
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		if a == b {
			continue
		}
		na, nb := n.node(a), n.node(b)
		length := geo.Distance(a, b)
		na.edges = append(na.edges, &Edge{from: na, to: nb, length: length, modes: modes})
		nb.edges = append(nb.edges, &Edge{from: nb, to: na, length: length, modes: modes})
		na.modes |= modes
		nb.modes |= modes
	}
}

// Build 构建节点的空间索引
func (n *Network) Build() error {
	if len(n.nodes) == 0 {
		n.tree = nil
		return nil
	}
	bound := orb.Bound{Min: n.nodes[0].position, Max: n.nodes[0].position}
	for _, node := range n.nodes[1:] {
		bound = bound.Extend(node.position)
	}
	tree := quadtree.New(bound.Pad(1e-9))
	for _, node := range n.nodes {
		if err := tree.Add(node); err != nil {
			return fmt.Errorf("index %v: %w", node, err)
		}
	}
	n.tree = tree
	log.Debugf("network indexed: %d nodes", len(n.nodes))
	return nil
}

// Len 节点数
func (n *Network) Len() int {
	return len(n.nodes)
}

// Nodes 全部节点的位置，顺序为加入顺序
func (n *Network) Nodes() []orb.Point {
	points := make([]orb.Point, len(n.nodes))
	for i, node := range n.nodes {
		points[i] = node.position
	}
	return points
}

// Features 将节点转换为要素库中的node图层
func (n *Network) Features() []*entity.Feature {
	features := make([]*entity.Feature, len(n.nodes))
	for i, node := range n.nodes {
		features[i] = &entity.Feature{
			ID:       fmt.Sprintf("%s-%d", entity.FeatureTypeNode, i),
			Type:     entity.FeatureTypeNode,
			Name:     node.modes.String(),
			Position: node.position,
		}
	}
	return features
}

// NearestNode 距离pos最近、且可以使用出行方式mode的节点
// 返回：节点；没有满足条件的节点时返回nil
// 说明：已Build时使用四叉树（平面距离），否则按测地线距离线性扫描
func (n *Network) NearestNode(pos orb.Point, mode entity.TravelMode) *Node {
	if n.tree != nil {
		p := n.tree.Matching(pos, func(p orb.Pointer) bool {
			return p.(*Node).modes.Has(mode)
		})
		if p == nil {
			return nil
		}
		return p.(*Node)
	}
	var best *Node
	bestDistance := 0.
	for _, node := range n.nodes {
		if !node.modes.Has(mode) {
			continue
		}
		if d := geo.Distance(pos, node.position); best == nil || d < bestDistance {
			best, bestDistance = node, d
		}
	}
	return best
}

// RandomNode 随机选取一个节点的位置
func (n *Network) RandomNode(generator *randengine.Engine) orb.Point {
	if len(n.nodes) == 0 {
		log.Panicf("random node from empty network")
	}
	return n.nodes[generator.IntnSafe(len(n.nodes))].position
}
