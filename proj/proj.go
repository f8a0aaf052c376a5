package proj

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
)

const pole = 6378137 * math.Pi // 20037508.342789244

// Transform maps geographic coordinates to planar east/north coordinates
// and back. Implementations must be pure functions; origin offsetting is
// handled by the codec, not the transform.
type Transform interface {
	// Forward projects a geographic coordinate. Latitude must be within
	// [-90, 90] and longitude within [-180, 180], otherwise an error is
	// returned.
	Forward(long, lat float64) (x, y float64, err error)
	// Inverse is the exact inverse of Forward for coordinates produced
	// by Forward.
	Inverse(x, y float64) (long, lat float64)
}

// Mercator is the EPSG:3857 spherical mercator projection, the transform
// used by all known KeloJSON producers.
type Mercator struct{}

func (Mercator) Forward(long, lat float64) (x, y float64, err error) {
	if !s2.LatLngFromDegrees(lat, long).IsValid() {
		return 0, 0, errors.Errorf("coordinate out of range: long=%v lat=%v", long, lat)
	}
	x, y = WgsToMerc(long, lat)
	return x, y, nil
}

func (Mercator) Inverse(x, y float64) (long, lat float64) {
	return MercToWgs(x, y)
}

// Identity passes coordinates through unchanged, for graphs that already
// live in a local planar frame.
type Identity struct{}

func (Identity) Forward(long, lat float64) (x, y float64, err error) {
	return long, lat, nil
}

func (Identity) Inverse(x, y float64) (long, lat float64) {
	return x, y
}

func WgsToMerc(long, lat float64) (x, y float64) {
	x = long * pole / 180.0
	y = math.Log(math.Tan((90.0+lat)*math.Pi/360.0)) / math.Pi * pole
	return x, y
}

func MercToWgs(x, y float64) (long, lat float64) {
	long = 180.0 * x / pole
	lat = 180.0 / math.Pi * (2*math.Atan(math.Exp((y/pole)*math.Pi)) - math.Pi/2)
	return long, lat
}
