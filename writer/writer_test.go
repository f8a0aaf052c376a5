package writer

import (
	"bytes"
	"encoding/json"
	"testing"

	osm "github.com/omniscale/go-osm"

	"github.com/Sushant-Chavan/kelojson/dataset"
	"github.com/Sushant-Chavan/kelojson/format"
	"github.com/Sushant-Chavan/kelojson/proj"
)

func write(t *testing.T, ds *dataset.Dataset, opts Options) format.FeatureCollection {
	t.Helper()
	buf := bytes.Buffer{}
	if err := New(ds, proj.Identity{}, opts).Write(&buf); err != nil {
		t.Fatal(err)
	}
	var fc format.FeatureCollection
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatal(err)
	}
	return fc
}

func addNode(ds *dataset.Dataset, id int64, long, lat float64, tags osm.Tags) *osm.Node {
	n := &osm.Node{Element: osm.Element{ID: id, Tags: tags}, Long: long, Lat: lat}
	ds.AddNode(n)
	return n
}

func addWay(ds *dataset.Dataset, id int64, tags osm.Tags, nodes ...*osm.Node) *osm.Way {
	w := &osm.Way{Element: osm.Element{ID: id, Tags: tags}}
	for _, n := range nodes {
		w.Refs = append(w.Refs, n.ID)
		w.Nodes = append(w.Nodes, *n)
	}
	ds.AddWay(w)
	return w
}

func TestRelationsFirst(t *testing.T) {
	ds := dataset.New()
	n := addNode(ds, 1, 0, 0, osm.Tags{"name": "a"})
	addWay(ds, 10, osm.Tags{"highway": "path"}, n, addNode(ds, 2, 1, 0, osm.Tags{"name": "b"}))
	ds.AddRelation(&osm.Relation{
		Element: osm.Element{ID: 30, Tags: osm.Tags{"type": "route"}},
		Members: []osm.Member{{ID: 10, Type: osm.WayMember, Role: "path"}},
	})

	fc := write(t, ds, DefaultOptions())
	if fc.Type != "FeatureCollection" {
		t.Fatal(fc.Type)
	}
	if len(fc.Features) != 4 {
		t.Fatal(len(fc.Features))
	}
	first := fc.Features[0]
	if first.Relation == nil || first.Geometry != nil {
		t.Fatal("relation not emitted first")
	}
	if first.ID != 30 {
		t.Fatal(first.ID)
	}
	m := first.Relation.Members[0]
	if m.ID != 10 || m.Type != "Way" || m.Role != "path" {
		t.Fatal(m)
	}
}

func TestSkipEmptyNodes(t *testing.T) {
	ds := dataset.New()
	addNode(ds, 1, 0, 0, nil)
	addNode(ds, 2, 1, 0, osm.Tags{"name": "b"})

	fc := write(t, ds, DefaultOptions())
	if len(fc.Features) != 1 || fc.Features[0].ID != 2 {
		t.Fatal(fc.Features)
	}

	opts := DefaultOptions()
	opts.SkipEmptyNodes = false
	fc = write(t, ds, opts)
	if len(fc.Features) != 2 {
		t.Fatal(fc.Features)
	}
}

func TestReservedKeysExcluded(t *testing.T) {
	ds := dataset.New()
	addNode(ds, 1, 0, 0, osm.Tags{"name": "a", "x": "1", "y": "2"})

	fc := write(t, ds, DefaultOptions())
	props := fc.Features[0].Properties
	if _, ok := props["x"]; ok {
		t.Fatal(props)
	}
	if _, ok := props["y"]; ok {
		t.Fatal(props)
	}
	if props["name"] != "a" {
		t.Fatal(props)
	}
}

func TestAreaPolicy(t *testing.T) {
	ds := dataset.New()
	a := addNode(ds, 1, 0, 0, nil)
	b := addNode(ds, 2, 1, 0, nil)
	c := addNode(ds, 3, 1, 1, nil)
	addWay(ds, 10, osm.Tags{"building": "yes"}, a, b, c, a)
	addWay(ds, 11, osm.Tags{"highway": "path"}, a, b, c, a)
	addWay(ds, 12, nil, a, b, c, a)
	addWay(ds, 13, osm.Tags{"building": "yes"}, a, b, c) // not closed

	byID := func(fc format.FeatureCollection, id format.ID) *format.Feature {
		for i := range fc.Features {
			if fc.Features[i].ID == id {
				return &fc.Features[i]
			}
		}
		return nil
	}

	fc := write(t, ds, DefaultOptions())
	if g := byID(fc, 10).Geometry; g.Type != "Polygon" {
		t.Fatal(g.Type)
	}
	if g := byID(fc, 11).Geometry; g.Type != "LineString" {
		t.Fatal(g.Type)
	}
	if g := byID(fc, 12).Geometry; g.Type != "LineString" {
		t.Fatal(g.Type)
	}
	if g := byID(fc, 13).Geometry; g.Type != "LineString" {
		t.Fatal(g.Type)
	}

	opts := DefaultOptions()
	opts.UntaggedClosedIsPolygon = true
	fc = write(t, ds, opts)
	if g := byID(fc, 12).Geometry; g.Type != "Polygon" {
		t.Fatal(g.Type)
	}
}

func TestWayNodeIDs(t *testing.T) {
	ds := dataset.New()
	a := addNode(ds, 1, 0, 0, nil)
	b := addNode(ds, 2, 1, 0, nil)
	addWay(ds, 10, osm.Tags{"highway": "path"}, a, b)

	fc := write(t, ds, DefaultOptions())
	g := fc.Features[0].Geometry
	if len(g.NodeIDs) != 1 {
		t.Fatal(g.NodeIDs)
	}
	if len(g.NodeIDs[0]) != 2 || g.NodeIDs[0][0] != 1 || g.NodeIDs[0][1] != 2 {
		t.Fatal(g.NodeIDs)
	}
	coords, err := format.DecodeLine(g.Coordinates)
	if err != nil {
		t.Fatal(err)
	}
	if len(coords) != 2 || coords[1].X != 1 {
		t.Fatal(coords)
	}
}

func TestIncompleteWaySkipped(t *testing.T) {
	ds := dataset.New()
	w := &osm.Way{Element: osm.Element{ID: 10, Tags: osm.Tags{"highway": "path"}}, Refs: []int64{1, 2}}
	ds.AddWay(w)

	fc := write(t, ds, DefaultOptions())
	if len(fc.Features) != 0 {
		t.Fatal(fc.Features)
	}
}

func TestTagOnlyNodeWritten(t *testing.T) {
	ds := dataset.New()
	ds.AddNode(dataset.TagOnlyNode(40, osm.Tags{"map_version": "3"}))

	fc := write(t, ds, DefaultOptions())
	if len(fc.Features) != 1 {
		t.Fatal(fc.Features)
	}
	f := fc.Features[0]
	if f.Geometry != nil || f.Relation != nil {
		t.Fatal("tag-only node with geometry or relation")
	}
	if f.Properties["map_version"] != "3" {
		t.Fatal(f.Properties)
	}
}

// The sentinel origin node keeps its absolute coordinate; everything else
// is shifted by it.
func TestOriginOffset(t *testing.T) {
	ds := dataset.New()
	addNode(ds, 1, 100, 200, osm.Tags{"name": "origin"})
	addNode(ds, 2, 101, 202, osm.Tags{"name": "dock"})

	fc := write(t, ds, DefaultOptions())
	byID := map[format.ID]format.Feature{}
	for _, f := range fc.Features {
		byID[f.ID] = f
	}

	c, err := format.DecodePoint(byID[1].Geometry.Coordinates)
	if err != nil {
		t.Fatal(err)
	}
	if c.X != 100 || c.Y != 200 {
		t.Fatal(c)
	}
	c, err = format.DecodePoint(byID[2].Geometry.Coordinates)
	if err != nil {
		t.Fatal(err)
	}
	if c.X != 1 || c.Y != 2 {
		t.Fatal(c)
	}
}

func TestJSONTagValuesEmbedded(t *testing.T) {
	ds := dataset.New()
	addNode(ds, 1, 0, 0, osm.Tags{"zones": `["a","b"]`, "name": "depot"})

	fc := write(t, ds, DefaultOptions())
	props := fc.Features[0].Properties
	zones, ok := props["zones"].([]interface{})
	if !ok || len(zones) != 2 {
		t.Fatal(props["zones"])
	}
	if props["name"] != "depot" {
		t.Fatal(props)
	}
}

func TestWriterDoesNotMutate(t *testing.T) {
	ds := dataset.New()
	n := addNode(ds, 1, 100, 200, osm.Tags{"name": "origin"})

	write(t, ds, DefaultOptions())
	if n.Long != 100 || n.Lat != 200 {
		t.Fatal("writer mutated the graph")
	}
	if len(n.Tags) != 1 {
		t.Fatal(n.Tags)
	}
}
