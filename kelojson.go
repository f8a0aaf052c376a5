// Package kelojson reads and writes KeloJSON, a GeoJSON dialect that
// additionally encodes relation membership and stable node identifiers,
// so that an edited map round-trips without losing ids, tags or
// topology.
//
// Parse and Write use the spherical mercator transform that all known
// producers use; the reader and writer packages accept any
// proj.Transform.
package kelojson

import (
	"io"

	"github.com/Sushant-Chavan/kelojson/dataset"
	"github.com/Sushant-Chavan/kelojson/proj"
	"github.com/Sushant-Chavan/kelojson/reader"
	"github.com/Sushant-Chavan/kelojson/writer"
)

// Parse reads one KeloJSON document into a fresh dataset.
func Parse(src io.Reader) (*dataset.Dataset, error) {
	return reader.Parse(src, proj.Mercator{})
}

// Write emits the dataset as a KeloJSON document with default options.
func Write(dst io.Writer, ds *dataset.Dataset) error {
	return writer.Write(dst, ds, proj.Mercator{})
}
