// Package format defines the wire-level schema of KeloJSON: field names,
// geometry and member type tags, identifier and coordinate encoding.
//
// KeloJSON is GeoJSON extended with a per-feature "relation" object that
// encodes relation membership, and a "nodeIds" array that carries stable
// node identifiers alongside LineString/Polygon coordinates.
package format

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	osm "github.com/omniscale/go-osm"
)

const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"

	GeomPoint        = "Point"
	GeomLineString   = "LineString"
	GeomPolygon      = "Polygon"
	GeomMultiPolygon = "MultiPolygon"

	MemberNode     = "Node"
	MemberWay      = "Way"
	MemberRelation = "Relation"

	RoleOuter = "outer"
	RoleInner = "inner"

	// A node tagged name=origin fixes the planar offset the writer
	// subtracts from all other coordinates.
	OriginKey   = "name"
	OriginValue = "origin"

	// Tag keys reserved for coordinate storage, never emitted as
	// properties.
	ReservedX = "x"
	ReservedY = "y"

	MultipolygonKey   = "type"
	MultipolygonValue = "multipolygon"

	// Extension of uncompressed KeloJSON files.
	Extension = ".kelojson"
)

// CoordPrecision is the number of fractional digits kept for planar
// coordinates on the wire.
const CoordPrecision = 11

// MemberTypes maps the wire type tag of a relation member to the graph
// member type.
var MemberTypes = map[string]osm.MemberType{
	MemberNode:     osm.NodeMember,
	MemberWay:      osm.WayMember,
	MemberRelation: osm.RelationMember,
}

// MemberTypeTags is the inverse of MemberTypes.
var MemberTypeTags = map[osm.MemberType]string{
	osm.NodeMember:     MemberNode,
	osm.WayMember:      MemberWay,
	osm.RelationMember: MemberRelation,
}

// FeatureCollection is the top-level document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature carries exactly one of Geometry or Relation, or neither for a
// tag-only record. When a producer populates both, readers prefer the
// geometry and ignore the relation part.
type Feature struct {
	Type       string                 `json:"type"`
	ID         ID                     `json:"id,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Geometry   *Geometry              `json:"geometry,omitempty"`
	Relation   *Relation              `json:"relation,omitempty"`
}

// Geometry leaves Coordinates raw since the nesting depth depends on Type.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	NodeIDs     [][]int64       `json:"nodeIds,omitempty"`
}

// Relation is the member list of a relation feature.
type Relation struct {
	Members []Member `json:"members"`
}

// Member is one (id, type, role) triple.
type Member struct {
	ID   ID     `json:"id"`
	Type string `json:"type"`
	Role string `json:"role"`
}

// ID is a 64-bit identifier, encoded as a string on the wire. Files from
// other producers encode it as a bare number; both forms are accepted.
type ID int64

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(id), 10))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return &DataError{Reason: "invalid id " + string(b)}
	}
	*id = ID(v)
	return nil
}

// Coord is one planar wire coordinate. It marshals as a two-element array
// with CoordPrecision fractional digits.
type Coord struct {
	X, Y float64
}

func (c Coord) MarshalJSON() ([]byte, error) {
	return []byte("[" + FormatCoord(c.X) + "," + FormatCoord(c.Y) + "]"), nil
}

func (c *Coord) UnmarshalJSON(b []byte) error {
	var parts []json.Number
	if err := json.Unmarshal(b, &parts); err != nil {
		return &DataError{Reason: "coordinate not a number array: " + err.Error()}
	}
	if len(parts) != 2 {
		return &DataError{Reason: "coordinate array length not 2"}
	}
	x, errX := parts[0].Float64()
	y, errY := parts[1].Float64()
	if errX != nil || errY != nil {
		return &DataError{Reason: "unparsable coordinate " + string(b)}
	}
	c.X, c.Y = x, y
	return nil
}

// FormatCoord renders a planar coordinate with CoordPrecision fractional
// digits, rounding half-up (away from zero).
func FormatCoord(v float64) string {
	scaled := v * 1e11
	var n int64
	if scaled >= 0 {
		n = int64(math.Floor(scaled + 0.5))
	} else {
		n = int64(math.Ceil(scaled - 0.5))
	}
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= CoordPrecision {
		digits = strings.Repeat("0", CoordPrecision-len(digits)+1) + digits
	}
	out := digits[:len(digits)-CoordPrecision] + "." + digits[len(digits)-CoordPrecision:]
	if neg {
		out = "-" + out
	}
	return out
}

// DecodePoint parses Point coordinates.
func DecodePoint(raw json.RawMessage) (Coord, error) {
	var c Coord
	if raw == nil {
		return c, &DataError{Reason: "missing Point coordinates"}
	}
	err := json.Unmarshal(raw, &c)
	return c, coordErr(err)
}

// DecodeLine parses LineString coordinates.
func DecodeLine(raw json.RawMessage) ([]Coord, error) {
	if raw == nil {
		return nil, &DataError{Reason: "missing LineString coordinates"}
	}
	var coords []Coord
	err := json.Unmarshal(raw, &coords)
	return coords, coordErr(err)
}

// DecodePolygon parses Polygon coordinates into rings.
func DecodePolygon(raw json.RawMessage) ([][]Coord, error) {
	if raw == nil {
		return nil, &DataError{Reason: "missing Polygon coordinates"}
	}
	var rings [][]Coord
	err := json.Unmarshal(raw, &rings)
	return rings, coordErr(err)
}

// DecodeMultiPolygon parses MultiPolygon coordinates.
func DecodeMultiPolygon(raw json.RawMessage) ([][][]Coord, error) {
	if raw == nil {
		return nil, &DataError{Reason: "missing MultiPolygon coordinates"}
	}
	var polys [][][]Coord
	err := json.Unmarshal(raw, &polys)
	return polys, coordErr(err)
}

func coordErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*DataError); ok {
		return err
	}
	return &DataError{Reason: "invalid coordinates: " + err.Error()}
}
