package geom

import (
	"github.com/dhconnelly/rtreego"
	osm "github.com/omniscale/go-osm"
)

// R-tree rects need a non-zero extent, also for point entries.
const nodeExtent = 1e-9

// nodeIndex is a coordinate-keyed index over graph nodes, used for
// exact-match node reuse. It lives only as long as one parse call.
type nodeIndex struct {
	tree *rtreego.Rtree
}

func newNodeIndex() *nodeIndex {
	return &nodeIndex{tree: rtreego.NewTree(2, 25, 50)}
}

type indexedNode struct {
	node *osm.Node
}

func (in *indexedNode) Bounds() rtreego.Rect {
	return nodeRect(Coord{Long: in.node.Long, Lat: in.node.Lat})
}

func nodeRect(c Coord) rtreego.Rect {
	p := rtreego.Point{c.Long, c.Lat}
	rect, _ := rtreego.NewRect(p, []float64{nodeExtent, nodeExtent})
	return rect
}

func (ni *nodeIndex) insert(n *osm.Node) {
	ni.tree.Insert(&indexedNode{node: n})
}

// find returns a node with exactly equal coordinates, or nil.
func (ni *nodeIndex) find(c Coord) *osm.Node {
	for _, s := range ni.tree.SearchIntersect(nodeRect(c)) {
		n := s.(*indexedNode).node
		if n.Long == c.Long && n.Lat == c.Lat {
			return n
		}
	}
	return nil
}
