// Package writer emits a dataset as a KeloJSON document.
//
// Relations are emitted before all other primitives, matching the
// reader's assumption that relation features may precede their members.
// The writer never mutates the graph.
package writer

import (
	"encoding/json"
	"io"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"

	"github.com/Sushant-Chavan/kelojson/dataset"
	"github.com/Sushant-Chavan/kelojson/format"
	"github.com/Sushant-Chavan/kelojson/log"
	"github.com/Sushant-Chavan/kelojson/proj"
)

type Options struct {
	// SkipEmptyNodes drops nodes without tags from the output.
	SkipEmptyNodes bool
	// UntaggedClosedIsPolygon writes untagged closed ways as Polygon
	// instead of LineString.
	UntaggedClosedIsPolygon bool
	// AreaTags lists tag keys that mark a closed way as an area. An
	// explicit area=yes/no tag always decides when present.
	AreaTags []string
	// Pretty indents the output.
	Pretty bool
}

func DefaultOptions() Options {
	return Options{
		SkipEmptyNodes: true,
		AreaTags:       []string{"building", "landuse", "leisure", "natural", "amenity"},
		Pretty:         true,
	}
}

// Writer emits one dataset per Write call. Not safe for concurrent use.
type Writer struct {
	ds        *dataset.Dataset
	transform proj.Transform
	opts      Options
	areaKeys  map[string]struct{}

	originNode *osm.Node
	originX    float64
	originY    float64
}

func New(ds *dataset.Dataset, transform proj.Transform, opts Options) *Writer {
	areaKeys := make(map[string]struct{}, len(opts.AreaTags))
	for _, k := range opts.AreaTags {
		areaKeys[k] = struct{}{}
	}
	return &Writer{ds: ds, transform: transform, opts: opts, areaKeys: areaKeys}
}

// Write emits the dataset with default options.
func Write(dst io.Writer, ds *dataset.Dataset, transform proj.Transform) error {
	return New(ds, transform, DefaultOptions()).Write(dst)
}

func (w *Writer) Write(dst io.Writer) error {
	if err := w.findOrigin(); err != nil {
		return err
	}

	fc := format.FeatureCollection{
		Type:     format.TypeFeatureCollection,
		Features: []format.Feature{},
	}
	for _, rel := range w.ds.Relations() {
		fc.Features = append(fc.Features, w.relationFeature(rel))
	}
	for _, way := range w.ds.Ways() {
		f, err := w.wayFeature(way)
		if err != nil {
			return err
		}
		if f != nil {
			fc.Features = append(fc.Features, *f)
		}
	}
	for _, n := range w.ds.Nodes() {
		f, err := w.nodeFeature(n)
		if err != nil {
			return err
		}
		if f != nil {
			fc.Features = append(fc.Features, *f)
		}
	}

	enc := json.NewEncoder(dst)
	if w.opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(&fc); err != nil {
		return errors.Wrap(err, "encoding document")
	}
	return nil
}

// findOrigin scans the graph for the sentinel origin node. Its projected
// coordinate is subtracted from every emitted coordinate except its own,
// which keeps the offset recoverable on read.
func (w *Writer) findOrigin() error {
	w.originNode = nil
	w.originX, w.originY = 0, 0
	for _, n := range w.ds.Nodes() {
		if n.Tags[format.OriginKey] != format.OriginValue || !dataset.HasPosition(n) {
			continue
		}
		x, y, err := w.transform.Forward(n.Long, n.Lat)
		if err != nil {
			return errors.Wrapf(err, "projecting origin node %d", n.ID)
		}
		w.originNode = n
		w.originX, w.originY = x, y
		log.Infof("setting custom origin at %v,%v", x, y)
		return nil
	}
	return nil
}

func (w *Writer) relationFeature(rel *osm.Relation) format.Feature {
	members := make([]format.Member, 0, len(rel.Members))
	for _, m := range rel.Members {
		members = append(members, format.Member{
			ID:   format.ID(m.ID),
			Type: format.MemberTypeTags[m.Type],
			Role: m.Role,
		})
	}
	return format.Feature{
		Type:       format.TypeFeature,
		ID:         format.ID(rel.ID),
		Properties: properties(rel.Tags),
		Relation:   &format.Relation{Members: members},
	}
}

func (w *Writer) wayFeature(way *osm.Way) (*format.Feature, error) {
	if len(way.Nodes) == 0 || len(way.Nodes) != len(way.Refs) {
		// incomplete way, nothing to export
		return nil, nil
	}
	coords := make([]format.Coord, len(way.Nodes))
	for i, n := range way.Nodes {
		c, err := w.coord(n.Long, n.Lat, false)
		if err != nil {
			return nil, err
		}
		coords[i] = c
	}

	props := properties(way.Tags)
	g := &format.Geometry{NodeIDs: [][]int64{way.Refs}}
	var raw []byte
	var err error
	if w.asPolygon(way, len(props) == 0) {
		g.Type = format.GeomPolygon
		raw, err = json.Marshal([][]format.Coord{coords})
	} else {
		g.Type = format.GeomLineString
		raw, err = json.Marshal(coords)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encoding way %d", way.ID)
	}
	g.Coordinates = raw

	return &format.Feature{
		Type:       format.TypeFeature,
		ID:         format.ID(way.ID),
		Properties: props,
		Geometry:   g,
	}, nil
}

func (w *Writer) nodeFeature(n *osm.Node) (*format.Feature, error) {
	props := properties(n.Tags)
	if !dataset.HasPosition(n) {
		if len(props) == 0 {
			// placeholder without geometry or tags
			return nil, nil
		}
		// tag-only record, properties-only feature
		return &format.Feature{Type: format.TypeFeature, ID: format.ID(n.ID), Properties: props}, nil
	}
	if w.opts.SkipEmptyNodes && len(props) == 0 {
		return nil, nil
	}

	c, err := w.coord(n.Long, n.Lat, n == w.originNode)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding node %d", n.ID)
	}
	return &format.Feature{
		Type:       format.TypeFeature,
		ID:         format.ID(n.ID),
		Properties: props,
		Geometry:   &format.Geometry{Type: format.GeomPoint, Coordinates: raw},
	}, nil
}

// asPolygon decides whether a closed way is emitted as an area. Closure
// is structural; tags only select between LineString and Polygon.
func (w *Writer) asPolygon(way *osm.Way, untagged bool) bool {
	if !way.IsClosed() {
		return false
	}
	if untagged {
		return w.opts.UntaggedClosedIsPolygon
	}
	if v, ok := way.Tags["area"]; ok {
		return v != "no"
	}
	for k := range way.Tags {
		if _, ok := w.areaKeys[k]; ok {
			return true
		}
	}
	return false
}

func (w *Writer) coord(long, lat float64, sentinel bool) (format.Coord, error) {
	x, y, err := w.transform.Forward(long, lat)
	if err != nil {
		return format.Coord{}, errors.Wrap(err, "projecting coordinate")
	}
	if !sentinel {
		x -= w.originX
		y -= w.originY
	}
	return format.Coord{X: x, Y: y}, nil
}

func properties(tags osm.Tags) map[string]interface{} {
	if len(tags) == 0 {
		return nil
	}
	props := make(map[string]interface{}, len(tags))
	for k, v := range tags {
		if k == format.ReservedX || k == format.ReservedY {
			continue
		}
		props[k] = tagValue(v)
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

// tagValue embeds values that are complete JSON objects or arrays
// structurally; everything else stays a string.
func tagValue(v string) interface{} {
	if len(v) >= 2 && ((v[0] == '{' && v[len(v)-1] == '}') || (v[0] == '[' && v[len(v)-1] == ']')) {
		var out interface{}
		if err := json.Unmarshal([]byte(v), &out); err == nil {
			return out
		}
	}
	return v
}
