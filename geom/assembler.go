// Package geom builds graph primitives from ordered coordinate rings:
// node materialization with coordinate dedup, way assembly with ring
// autoclosure, and multipolygon assembly from multi-ring polygons.
package geom

import (
	osm "github.com/omniscale/go-osm"

	"github.com/Sushant-Chavan/kelojson/dataset"
	"github.com/Sushant-Chavan/kelojson/format"
)

// Coord is an absolute geographic coordinate.
type Coord struct {
	Long, Lat float64
}

// Assembler materializes nodes, ways and multipolygon relations into a
// dataset. It owns a coordinate index so that features at exactly the
// same position collapse to a single node. An Assembler is scoped to one
// parse call and must be discarded afterwards.
type Assembler struct {
	ds    *dataset.Dataset
	index *nodeIndex
}

func NewAssembler(ds *dataset.Dataset) *Assembler {
	return &Assembler{ds: ds, index: newNodeIndex()}
}

// Node returns the graph node at the given coordinate. An existing node
// with exactly equal coordinates is reused; otherwise a new node with the
// supplied id (or a fresh one, if id is 0) is created and indexed.
func (a *Assembler) Node(c Coord, id int64) *osm.Node {
	if n := a.index.find(c); n != nil {
		return n
	}
	n := &osm.Node{
		Element: osm.Element{ID: id},
		Long:    c.Long,
		Lat:     c.Lat,
	}
	a.ds.AddNode(n)
	a.index.insert(n)
	return n
}

// Way builds a way from a coordinate ring. ids supplies one node id per
// coordinate; missing entries get fresh ids. autoClose appends a closing
// reference to the first node when polygon semantics are requested, the
// ring has more than one coordinate and its ends are not already equal.
// Consecutive references to the same node (after dedup) are collapsed to
// one, keeping only the intentional closing repeat. Returns nil for an
// empty ring.
func (a *Assembler) Way(coords []Coord, ids []int64, wayID int64, autoClose bool) *osm.Way {
	if len(coords) == 0 {
		return nil
	}
	doClose := autoClose && len(coords) > 1 && coords[0] != coords[len(coords)-1]

	nodes := make([]*osm.Node, 0, len(coords)+1)
	for i, c := range coords {
		var id int64
		if i < len(ids) {
			id = ids[i]
		}
		nodes = append(nodes, a.Node(c, id))
	}
	if doClose {
		nodes = append(nodes, nodes[0])
	}

	way := &osm.Way{Element: osm.Element{ID: wayID}}
	var last *osm.Node
	for _, n := range nodes {
		if n == last {
			continue
		}
		way.Refs = append(way.Refs, n.ID)
		way.Nodes = append(way.Nodes, *n)
		last = n
	}
	a.ds.AddWay(way)
	return way
}

// Polygon builds a single closed way from a one-ring polygon, or a
// multipolygon relation from a multi-ring polygon. The first ring becomes
// the outer member, all further rings inner members. The outer way gets
// the feature id; inner ways and the relation get fresh ids. Empty rings
// are skipped. The returned way or relation (never both) should receive
// the source feature's tags; both are nil if no ring had coordinates.
func (a *Assembler) Polygon(rings [][]Coord, ids [][]int64, featureID int64) (*osm.Way, *osm.Relation) {
	if len(rings) == 0 {
		return nil, nil
	}
	if len(rings) == 1 {
		return a.Way(rings[0], ringIDs(ids, 0), featureID, true), nil
	}

	rel := &osm.Relation{
		Element: osm.Element{Tags: osm.Tags{format.MultipolygonKey: format.MultipolygonValue}},
	}
	for i, ring := range rings {
		wayID := int64(0)
		role := format.RoleInner
		if i == 0 {
			wayID = featureID
			role = format.RoleOuter
		}
		way := a.Way(ring, ringIDs(ids, i), wayID, true)
		if way == nil {
			continue
		}
		rel.Members = append(rel.Members, osm.Member{
			ID:      way.ID,
			Type:    osm.WayMember,
			Role:    role,
			Way:     way,
			Element: &way.Element,
		})
	}
	if len(rel.Members) == 0 {
		return nil, nil
	}
	a.ds.AddRelation(rel)
	return nil, rel
}

func ringIDs(ids [][]int64, ring int) []int64 {
	if ring < len(ids) {
		return ids[ring]
	}
	return nil
}
