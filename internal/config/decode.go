package config

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// maxConfigSize bounds how much of a config file is decoded.
const maxConfigSize = 1 << 20

var errEmptyConfig = errors.New("empty file")

// decode parses data into cfg, rejecting unknown fields so that a typo in
// a key is reported instead of silently ignored.
func decode(data []byte, cfg *Config) error {
	switch {
	case len(data) == 0:
		return errEmptyConfig
	case len(data) > maxConfigSize:
		return fmt.Errorf("file is %d bytes, limit is %d", len(data), maxConfigSize)
	}
	return yaml.UnmarshalWithOptions(data, cfg, yaml.Strict())
}
