// Package config loads named database source definitions from YAML or the
// environment and turns them into dialect connection parameters.
//
// A config document maps source names to connection settings:
//
//	sources:
//	  warehouse:
//	    driver: postgres
//	    host: db.example.com
//	    port: 5432
//	    dbname: reports
//	    user: alice
//	    password: sekrit
//	    ssl: true
//	    options:
//	      connect_timeout: 10
//
// user and password distinguish absent from explicitly empty, mirroring
// dialect.ConnectionParameters, and options keep their document order.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/exceedzhang/metabase/dialect"
)

// Source is one named database definition.
type Source struct {
	Driver   string  `yaml:"driver"`
	Host     string  `yaml:"host"`
	Port     int     `yaml:"port"`
	Database string  `yaml:"dbname"`
	User     *string `yaml:"user"`
	Password *string `yaml:"password"`
	SSL      bool    `yaml:"ssl"`
	Options  Options `yaml:"options"`
}

// Options is an ordered list of extra driver options. A YAML mapping is
// ordered in the document; decoding into a Go map would lose that order,
// so Options walks the mapping node itself.
type Options []dialect.Property

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config: line %d: options must be a mapping", node.Line)
	}
	out := make(Options, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("config: line %d: option %q must be a scalar", value.Line, key.Value)
		}
		out = append(out, dialect.Property{Key: key.Value, Value: value.Value})
	}
	*o = out
	return nil
}

// Params converts the source into dialect connection parameters.
func (s Source) Params() dialect.ConnectionParameters {
	opts := make([]dialect.ParamOption, 0, 4+len(s.Options))
	if s.Port != 0 {
		opts = append(opts, dialect.WithPort(s.Port))
	}
	if s.User != nil {
		opts = append(opts, dialect.WithUser(*s.User))
	}
	if s.Password != nil {
		opts = append(opts, dialect.WithPassword(*s.Password))
	}
	if s.SSL {
		opts = append(opts, dialect.WithSSL())
	}
	for _, o := range s.Options {
		opts = append(opts, dialect.WithOption(o.Key, o.Value))
	}
	return dialect.NewParams(s.Host, s.Database, opts...)
}

// Dialect returns the registered driver named by the source.
func (s Source) Dialect() (dialect.Driver, error) {
	return dialect.Lookup(s.Driver)
}

// Config is a set of named sources.
type Config struct {
	Sources map[string]Source `yaml:"sources"`
}

// Load decodes a config document. Unknown fields are rejected so typos
// fail loudly instead of silently dropping a setting. An empty document
// yields an empty config.
func Load(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads a config document from path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// UnknownSourceError is returned by Config.Source for an undefined name.
type UnknownSourceError struct {
	Name string
}

// Error returns the error string.
func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("config: source %q not defined", e.Name)
}

// IsUnknownSource returns true if the error is an UnknownSourceError.
func IsUnknownSource(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownSourceError
	return errors.As(err, &e)
}

// Source returns the named source definition.
func (c *Config) Source(name string) (Source, error) {
	s, ok := c.Sources[name]
	if !ok {
		return Source{}, &UnknownSourceError{Name: name}
	}
	return s, nil
}

// SourceNames returns the defined source names, sorted.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every source against the driver registry. All problems
// are reported at once, joined into a single error.
func (c *Config) Validate() error {
	var errs []error
	for _, name := range c.SourceNames() {
		s := c.Sources[name]
		if s.Driver == "" {
			errs = append(errs, fmt.Errorf("config: source %q: driver is required", name))
			continue
		}
		if _, err := dialect.Lookup(s.Driver); err != nil {
			errs = append(errs, fmt.Errorf("config: source %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
