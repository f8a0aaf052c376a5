// Package config loads tool configuration from YAML files.
package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/Sushant-Chavan/kelojson/writer"
)

// Config holds the options of the kelojson command line tool. All fields
// are optional; unset fields keep their built-in defaults.
type Config struct {
	// SkipEmptyNodes drops untagged point features on write. Way
	// coordinates still carry the node ids, so nothing is lost.
	SkipEmptyNodes *bool `yaml:"skip_empty_nodes"`
	// UntaggedClosedIsPolygon writes closed untagged ways as Polygon
	// instead of LineString.
	UntaggedClosedIsPolygon bool `yaml:"untagged_closed_is_polygon"`
	// AreaTags replaces the built-in set of tag keys whose presence
	// marks a closed way as an area.
	AreaTags []string `yaml:"area_tags"`
	// Quiet suppresses info level log output.
	Quiet bool `yaml:"quiet"`
}

// Load reads a YAML config file. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	conf := &Config{}
	if err := yaml.UnmarshalStrict(data, conf); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return conf, nil
}

// WriterOptions merges the config into the writer defaults.
func (c *Config) WriterOptions() writer.Options {
	opts := writer.DefaultOptions()
	if c == nil {
		return opts
	}
	if c.SkipEmptyNodes != nil {
		opts.SkipEmptyNodes = *c.SkipEmptyNodes
	}
	if c.UntaggedClosedIsPolygon {
		opts.UntaggedClosedIsPolygon = true
	}
	if len(c.AreaTags) > 0 {
		opts.AreaTags = c.AreaTags
	}
	return opts
}
