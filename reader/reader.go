// Package reader parses KeloJSON documents into a dataset.
//
// Parsing is two-pass: pass 1 materializes every geometry-bearing and
// tag-only feature, while relation features are deferred. Pass 2 resolves
// the deferred relations against the then-complete graph, so relations
// may reference members that appear later in the feature stream.
package reader

import (
	"encoding/json"
	"fmt"
	"io"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"

	"github.com/Sushant-Chavan/kelojson/dataset"
	"github.com/Sushant-Chavan/kelojson/format"
	"github.com/Sushant-Chavan/kelojson/geom"
	"github.com/Sushant-Chavan/kelojson/log"
	"github.com/Sushant-Chavan/kelojson/proj"
)

// Warning records a non-fatal condition encountered during a parse, such
// as a relation member whose referent is not in the document.
type Warning struct {
	FeatureID int64
	Message   string
}

// Reader parses KeloJSON documents. Each Parse call builds a fresh
// dataset. Not safe for concurrent use.
type Reader struct {
	transform proj.Transform

	ds       *dataset.Dataset
	asm      *geom.Assembler
	originX  float64
	originY  float64
	deferred []*format.Feature
	warnings []Warning
}

func New(transform proj.Transform) *Reader {
	return &Reader{transform: transform}
}

// Parse parses one document with the given transform.
func Parse(src io.Reader, transform proj.Transform) (*dataset.Dataset, error) {
	return New(transform).Parse(src)
}

// Parse reads a single document from src and returns the object graph.
// Malformed documents and invalid geometry abort the parse with a data
// error; I/O failures are returned as-is, wrapped.
func (r *Reader) Parse(src io.Reader) (*dataset.Dataset, error) {
	r.ds = dataset.New()
	r.asm = geom.NewAssembler(r.ds)
	r.originX, r.originY = 0, 0
	r.deferred = nil
	r.warnings = nil

	var doc format.FeatureCollection
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		return nil, decodeError(err)
	}
	if doc.Type != format.TypeFeatureCollection {
		return nil, &format.DataError{
			Reason: fmt.Sprintf("top-level type is %q, not %q", doc.Type, format.TypeFeatureCollection),
		}
	}
	if doc.Features == nil {
		return nil, &format.DataError{Reason: "missing features array"}
	}

	r.findOrigin(doc.Features)

	for i := range doc.Features {
		f := &doc.Features[i]
		switch {
		case f.Geometry != nil:
			if err := r.parseGeometry(f); err != nil {
				return nil, err
			}
		case f.Relation != nil:
			r.deferred = append(r.deferred, f)
		case f.Properties != nil:
			r.parseTagOnly(f)
		default:
			r.warn(int64(f.ID), "feature without geometry, relation, or properties")
		}
	}

	// Relation shells are created before any member is resolved, so
	// relations can reference each other regardless of document order.
	log.Debugf("resolving %d relations", len(r.deferred))
	rels := make([]*osm.Relation, len(r.deferred))
	for i, f := range r.deferred {
		rel := &osm.Relation{Element: osm.Element{ID: int64(f.ID)}}
		r.fillTags(&rel.Element, f.Properties)
		r.ds.AddRelation(rel)
		rels[i] = rel
	}
	for i, f := range r.deferred {
		if err := r.resolveMembers(rels[i], f); err != nil {
			return nil, err
		}
	}
	return r.ds, nil
}

// Warnings returns the non-fatal conditions recorded by the last Parse.
func (r *Reader) Warnings() []Warning { return r.warnings }

// findOrigin recovers the planar offset the writer subtracted from all
// coordinates. The sentinel origin node is written unshifted, so its
// coordinate is the offset itself.
func (r *Reader) findOrigin(features []format.Feature) {
	for i := range features {
		f := &features[i]
		if !isOrigin(f) {
			continue
		}
		c, err := format.DecodePoint(f.Geometry.Coordinates)
		if err != nil {
			// reported as a parse error in pass 1
			return
		}
		r.originX, r.originY = c.X, c.Y
		log.Infof("using origin at %v,%v", c.X, c.Y)
		return
	}
}

func isOrigin(f *format.Feature) bool {
	if f.Geometry == nil || f.Geometry.Type != format.GeomPoint {
		return false
	}
	v, ok := f.Properties[format.OriginKey].(string)
	return ok && v == format.OriginValue
}

func (r *Reader) parseGeometry(f *format.Feature) error {
	id := int64(f.ID)
	g := f.Geometry
	switch g.Type {
	case format.GeomPoint:
		c, err := format.DecodePoint(g.Coordinates)
		if err != nil {
			return featureErr(err, id)
		}
		node := r.asm.Node(r.toGeo(c, isOrigin(f)), id)
		r.fillTags(&node.Element, f.Properties)
	case format.GeomLineString:
		coords, err := format.DecodeLine(g.Coordinates)
		if err != nil {
			return featureErr(err, id)
		}
		var ids []int64
		if len(g.NodeIDs) > 0 {
			ids = g.NodeIDs[0]
		}
		if way := r.asm.Way(r.toGeoRing(coords), ids, id, false); way != nil {
			r.fillTags(&way.Element, f.Properties)
		}
	case format.GeomPolygon:
		rings, err := format.DecodePolygon(g.Coordinates)
		if err != nil {
			return featureErr(err, id)
		}
		r.addPolygon(f, rings, id)
	case format.GeomMultiPolygon:
		polys, err := format.DecodeMultiPolygon(g.Coordinates)
		if err != nil {
			return featureErr(err, id)
		}
		for i, rings := range polys {
			// only the first polygon keeps the feature id
			polyID := int64(0)
			if i == 0 {
				polyID = id
			}
			r.addPolygon(f, rings, polyID)
		}
	default:
		return &format.DataError{Reason: "unknown geometry type " + g.Type, ID: id}
	}
	return nil
}

func (r *Reader) addPolygon(f *format.Feature, rings [][]format.Coord, id int64) {
	geoRings := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		geoRings[i] = r.toGeoRing(ring)
	}
	way, rel := r.asm.Polygon(geoRings, polygonRingIDs(f.Geometry, len(rings)), id)
	if way != nil {
		r.fillTags(&way.Element, f.Properties)
	}
	if rel != nil {
		r.fillTags(&rel.Element, f.Properties)
		// structural tag wins over a same-named property
		rel.Tags[format.MultipolygonKey] = format.MultipolygonValue
	}
}

// polygonRingIDs aligns nodeIds arrays with polygon rings. Established
// files carry a single id array shared by all rings; newer writers emit
// one array per ring.
func polygonRingIDs(g *format.Geometry, ringCount int) [][]int64 {
	if len(g.NodeIDs) == 0 {
		return nil
	}
	if len(g.NodeIDs) == ringCount {
		return g.NodeIDs
	}
	out := make([][]int64, ringCount)
	for i := range out {
		out[i] = g.NodeIDs[0]
	}
	return out
}

func (r *Reader) parseTagOnly(f *format.Feature) {
	n := dataset.TagOnlyNode(int64(f.ID), nil)
	r.fillTags(&n.Element, f.Properties)
	r.ds.AddNode(n)
}

func (r *Reader) resolveMembers(rel *osm.Relation, f *format.Feature) error {
	for _, m := range f.Relation.Members {
		mt, ok := format.MemberTypes[m.Type]
		if !ok {
			return &format.UnknownMemberTypeError{Tag: m.Type, RelationID: rel.ID}
		}
		member := osm.Member{ID: int64(m.ID), Type: mt, Role: m.Role}
		if !r.ds.FindMember(&member) {
			r.warn(rel.ID, fmt.Sprintf("dropping unresolvable member %s %d", m.Type, int64(m.ID)))
			continue
		}
		rel.Members = append(rel.Members, member)
	}
	return nil
}

// toGeo maps a wire coordinate back to an absolute geographic coordinate.
// The origin offset is added back for everything but the sentinel node,
// which was written unshifted.
func (r *Reader) toGeo(c format.Coord, sentinel bool) geom.Coord {
	x, y := c.X, c.Y
	if !sentinel {
		x += r.originX
		y += r.originY
	}
	long, lat := r.transform.Inverse(x, y)
	return geom.Coord{Long: long, Lat: lat}
}

func (r *Reader) toGeoRing(coords []format.Coord) []geom.Coord {
	ring := make([]geom.Coord, len(coords))
	for i, c := range coords {
		ring[i] = r.toGeo(c, false)
	}
	return ring
}

// fillTags merges feature properties into an element's tag set. Non-string
// values keep their compact JSON encoding, mirroring how the writer embeds
// JSON-shaped tag values structurally.
func (r *Reader) fillTags(e *osm.Element, props map[string]interface{}) {
	if len(props) == 0 {
		return
	}
	if e.Tags == nil {
		e.Tags = make(osm.Tags, len(props))
	}
	for k, v := range props {
		e.Tags[k] = propValue(v)
	}
}

func propValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func (r *Reader) warn(id int64, msg string) {
	r.warnings = append(r.warnings, Warning{FeatureID: id, Message: msg})
	log.Warnf("feature %d: %s", id, msg)
}

func featureErr(err error, id int64) error {
	if de, ok := err.(*format.DataError); ok && de.ID == 0 {
		de.ID = id
	}
	return err
}

func decodeError(err error) error {
	switch err.(type) {
	case *json.SyntaxError, *json.UnmarshalTypeError:
		return &format.DataError{Reason: err.Error()}
	}
	if format.IsDataError(err) {
		return err
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &format.DataError{Reason: "empty or truncated document"}
	}
	return errors.Wrap(err, "reading document")
}
