package main

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/arloliu/wire"
	"github.com/arloliu/wire/format"
	"github.com/arloliu/wire/section"
)

// fileConfig is the wiredump.toml key mapping.
type fileConfig struct {
	Format          string `toml:"format"`
	BigEndian       bool   `toml:"big_endian"`
	MaxDocumentSize int    `toml:"max_document_size"`
	LogLevel        string `toml:"log_level"`
}

type dumpConfig struct {
	WireType        format.WireType
	BigEndian       bool
	MaxDocumentSize int
	LogLevel        logrus.Level
}

func defaultDumpConfig() dumpConfig {
	return dumpConfig{
		WireType:        format.Binary,
		MaxDocumentSize: section.MaxLength,
		LogLevel:        logrus.WarnLevel,
	}
}

// loadDumpConfig overlays the keys defined in the TOML file at path onto cfg.
func loadDumpConfig(path string, cfg dumpConfig) (dumpConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, errors.Wrapf(err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("format") {
		if cfg.WireType, err = format.ParseWireType(raw.Format); err != nil {
			return cfg, errors.Wrapf(err, "load config %s", path)
		}
	}
	if meta.IsDefined("big_endian") {
		cfg.BigEndian = raw.BigEndian
	}
	if meta.IsDefined("max_document_size") {
		cfg.MaxDocumentSize = raw.MaxDocumentSize
	}
	if meta.IsDefined("log_level") {
		if cfg.LogLevel, err = logrus.ParseLevel(strings.TrimSpace(raw.LogLevel)); err != nil {
			return cfg, errors.Wrapf(err, "load config %s", path)
		}
	}

	return cfg, nil
}

func (c dumpConfig) wireOptions(logger logrus.FieldLogger) []wire.Option {
	opts := []wire.Option{
		wire.WithLogger(logger),
		wire.WithMaxDocumentSize(c.MaxDocumentSize),
	}
	if c.BigEndian {
		opts = append(opts, wire.WithBigEndian())
	}

	return opts
}
