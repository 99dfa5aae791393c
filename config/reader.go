package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"

	"go.viam.com/boxcollider/logging"
)

// Read reads a config from the given file, substituting ${VAR} references from the environment.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config file %q", filePath)
	}
	cfg, err := FromReader(filePath, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	logger.Debugw("read config", "path", filePath, "level", cfg.Level.File+cfg.Level.Primitive, "controller", cfg.Sim.Controller)
	return cfg, nil
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	cfg := Config{ConfigFilePath: originalPath}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	if err := cfg.Validate(""); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}
