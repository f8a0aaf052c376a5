// Package dataset holds the in-memory object graph the codec reads and
// writes: nodes, ways and relations with stable identifiers and tags.
// The graph is exclusively owned by the caller; no internal locking.
package dataset

import (
	"math"

	osm "github.com/omniscale/go-osm"
)

// Dataset is an insertion-ordered collection of OSM primitives with
// id-keyed lookup per primitive type. Nodes, ways and relations have
// separate id spaces.
type Dataset struct {
	nodes     []*osm.Node
	ways      []*osm.Way
	relations []*osm.Relation

	nodesByID     map[int64]*osm.Node
	waysByID      map[int64]*osm.Way
	relationsByID map[int64]*osm.Relation

	// Fresh ids are negative and decreasing, so they never collide with
	// ids read from a file.
	lastID int64
}

func New() *Dataset {
	return &Dataset{
		nodesByID:     make(map[int64]*osm.Node),
		waysByID:      make(map[int64]*osm.Way),
		relationsByID: make(map[int64]*osm.Relation),
	}
}

// NewID returns a fresh id for a primitive created without one. Ids
// already taken in any id space are skipped, so fresh ids never collide
// with ids read from a file.
func (d *Dataset) NewID() int64 {
	for {
		d.lastID--
		if d.nodesByID[d.lastID] == nil && d.waysByID[d.lastID] == nil && d.relationsByID[d.lastID] == nil {
			return d.lastID
		}
	}
}

// AddNode inserts a node into the graph. A node with id 0 is assigned a
// fresh id. An existing node with the same id is replaced, keeping its
// place in iteration order.
func (d *Dataset) AddNode(n *osm.Node) {
	if n.ID == 0 {
		n.ID = d.NewID()
	}
	if old, ok := d.nodesByID[n.ID]; ok {
		for i, e := range d.nodes {
			if e == old {
				d.nodes[i] = n
				break
			}
		}
	} else {
		d.nodes = append(d.nodes, n)
	}
	d.nodesByID[n.ID] = n
}

func (d *Dataset) AddWay(w *osm.Way) {
	if w.ID == 0 {
		w.ID = d.NewID()
	}
	if old, ok := d.waysByID[w.ID]; ok {
		for i, e := range d.ways {
			if e == old {
				d.ways[i] = w
				break
			}
		}
	} else {
		d.ways = append(d.ways, w)
	}
	d.waysByID[w.ID] = w
}

func (d *Dataset) AddRelation(r *osm.Relation) {
	if r.ID == 0 {
		r.ID = d.NewID()
	}
	if old, ok := d.relationsByID[r.ID]; ok {
		for i, e := range d.relations {
			if e == old {
				d.relations[i] = r
				break
			}
		}
	} else {
		d.relations = append(d.relations, r)
	}
	d.relationsByID[r.ID] = r
}

func (d *Dataset) Node(id int64) *osm.Node         { return d.nodesByID[id] }
func (d *Dataset) Way(id int64) *osm.Way           { return d.waysByID[id] }
func (d *Dataset) Relation(id int64) *osm.Relation { return d.relationsByID[id] }

// Nodes returns all nodes in insertion order. The slice is owned by the
// dataset and must not be modified.
func (d *Dataset) Nodes() []*osm.Node { return d.nodes }

func (d *Dataset) Ways() []*osm.Way { return d.ways }

func (d *Dataset) Relations() []*osm.Relation { return d.relations }

// FindMember resolves the referent of a member triple (type, id) and fills
// the member's pointer fields. Returns false if the referent is unknown.
func (d *Dataset) FindMember(m *osm.Member) bool {
	switch m.Type {
	case osm.NodeMember:
		if n := d.nodesByID[m.ID]; n != nil {
			m.Node = n
			m.Element = &n.Element
			return true
		}
	case osm.WayMember:
		if w := d.waysByID[m.ID]; w != nil {
			m.Way = w
			m.Element = &w.Element
			return true
		}
	case osm.RelationMember:
		if r := d.relationsByID[m.ID]; r != nil {
			m.Element = &r.Element
			return true
		}
	}
	return false
}

// TagOnlyNode creates a node that carries tags but no position. Such
// nodes represent non-geometry records and are written back as
// properties-only features.
func TagOnlyNode(id int64, tags osm.Tags) *osm.Node {
	return &osm.Node{
		Element: osm.Element{ID: id, Tags: tags},
		Lat:     math.NaN(),
		Long:    math.NaN(),
	}
}

// HasPosition reports whether a node carries a usable coordinate.
func HasPosition(n *osm.Node) bool {
	return !math.IsNaN(n.Lat) && !math.IsNaN(n.Long)
}
