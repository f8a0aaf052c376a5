package kelojson_test

import (
	"bytes"
	"testing"

	osm "github.com/omniscale/go-osm"
	"github.com/stretchr/testify/require"

	kelojson "github.com/Sushant-Chavan/kelojson"
	"github.com/Sushant-Chavan/kelojson/dataset"
)

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

// Writing a graph and parsing the result back yields the same ids, tags,
// member lists and coordinates (within the wire precision).
func TestRoundTrip(t *testing.T) {
	ds := dataset.New()
	a := addNode(ds, 1, 8.0001, 53.0001, osm.Tags{"name": "a"})
	b := addNode(ds, 2, 8.0002, 53.0001, nil)
	c := addNode(ds, 3, 8.0002, 53.0002, nil)
	addWay(ds, 10, osm.Tags{"highway": "path"}, a, b, c)
	addWay(ds, 11, osm.Tags{"building": "yes"}, a, b, c, a)
	ds.AddRelation(&osm.Relation{
		Element: osm.Element{ID: 30, Tags: osm.Tags{"type": "route"}},
		Members: []osm.Member{
			{ID: 10, Type: osm.WayMember, Role: "path"},
			{ID: 1, Type: osm.NodeMember, Role: "stop"},
		},
	})

	buf := bytes.Buffer{}
	require.NoError(t, kelojson.Write(&buf, ds))

	got, err := kelojson.Parse(&buf)
	require.NoError(t, err)

	require.Len(t, got.Nodes(), 3)
	require.Len(t, got.Ways(), 2)
	require.Len(t, got.Relations(), 1)

	for _, orig := range ds.Nodes() {
		n := got.Node(orig.ID)
		require.NotNil(t, n, "node %d", orig.ID)
		require.InDelta(t, orig.Long, n.Long, 1e-9)
		require.InDelta(t, orig.Lat, n.Lat, 1e-9)
		if len(orig.Tags) > 0 {
			require.Equal(t, orig.Tags, n.Tags)
		} else {
			require.Empty(t, n.Tags)
		}
	}

	w := got.Way(10)
	require.NotNil(t, w)
	require.Equal(t, []int64{1, 2, 3}, w.Refs)
	require.Equal(t, osm.Tags{"highway": "path"}, w.Tags)

	ring := got.Way(11)
	require.NotNil(t, ring)
	require.Equal(t, []int64{1, 2, 3, 1}, ring.Refs)
	require.Equal(t, osm.Tags{"building": "yes"}, ring.Tags)

	rel := got.Relation(30)
	require.NotNil(t, rel)
	require.Equal(t, "route", rel.Tags["type"])
	require.Len(t, rel.Members, 2)
	require.Equal(t, int64(10), rel.Members[0].ID)
	require.Equal(t, osm.MemberType(osm.WayMember), rel.Members[0].Type)
	require.Equal(t, "path", rel.Members[0].Role)
	require.Equal(t, int64(1), rel.Members[1].ID)
	require.Equal(t, "stop", rel.Members[1].Role)
}

// The origin offset is a presentation convenience of the wire format; it
// must not leak into the read-back geometry.
func TestOriginSymmetry(t *testing.T) {
	ds := dataset.New()
	addNode(ds, 1, 8.0005, 53.0005, osm.Tags{"name": "origin"})
	addNode(ds, 2, 8.0006, 53.0006, osm.Tags{"name": "dock"})
	addNode(ds, 3, 8.0007, 53.0007, osm.Tags{"name": "charger"})

	buf := bytes.Buffer{}
	require.NoError(t, kelojson.Write(&buf, ds))

	got, err := kelojson.Parse(&buf)
	require.NoError(t, err)

	for _, orig := range ds.Nodes() {
		n := got.Node(orig.ID)
		require.NotNil(t, n, "node %d", orig.ID)
		require.InDelta(t, orig.Long, n.Long, 1e-9)
		require.InDelta(t, orig.Lat, n.Lat, 1e-9)
	}
}

func TestRoundTripMultipolygonRelation(t *testing.T) {
	ds := dataset.New()
	a := addNode(ds, 1, 8.0001, 53.0001, nil)
	b := addNode(ds, 2, 8.0002, 53.0001, nil)
	c := addNode(ds, 3, 8.0002, 53.0002, nil)
	outer := addWay(ds, 10, nil, a, b, c, a)
	d := addNode(ds, 4, 8.00013, 53.00012, nil)
	e := addNode(ds, 5, 8.00014, 53.00012, nil)
	f := addNode(ds, 6, 8.00014, 53.00013, nil)
	inner := addWay(ds, 11, nil, d, e, f, d)
	ds.AddRelation(&osm.Relation{
		Element: osm.Element{ID: 30, Tags: osm.Tags{"type": "multipolygon", "landuse": "meadow"}},
		Members: []osm.Member{
			{ID: outer.ID, Type: osm.WayMember, Role: "outer"},
			{ID: inner.ID, Type: osm.WayMember, Role: "inner"},
		},
	})

	buf := bytes.Buffer{}
	require.NoError(t, kelojson.Write(&buf, ds))

	got, err := kelojson.Parse(&buf)
	require.NoError(t, err)

	rel := got.Relation(30)
	require.NotNil(t, rel)
	require.Equal(t, "multipolygon", rel.Tags["type"])
	require.Equal(t, "meadow", rel.Tags["landuse"])
	require.Len(t, rel.Members, 2)
	require.Equal(t, "outer", rel.Members[0].Role)
	require.Equal(t, "inner", rel.Members[1].Role)
	require.NotNil(t, rel.Members[0].Way)
	require.Equal(t, []int64{1, 2, 3, 1}, rel.Members[0].Way.Refs)
}
