// Command wiredump prints the documents of wire files as human-readable text.
//
//	wiredump --format binary events.wire
//	wiredump -c wiredump.toml - < events.wire
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/arloliu/wire"
	"github.com/arloliu/wire/format"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("wiredump failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "wiredump",
		Usage:     "render size-prefixed wire documents as text",
		ArgsUsage: "FILE... (use - for stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "wire format: binary, numeric, fieldless, text or json",
				Value:   "binary",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file; flags given on the command line take precedence",
			},
			&cli.BoolFlag{
				Name:  "big-endian",
				Usage: "headers and binary values are big-endian",
			},
			&cli.IntFlag{
				Name:  "max-document-size",
				Usage: "reject documents whose payload is larger than this many bytes",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn or error",
				Value: "warn",
			},
		},
		Action: dump,
	}
}

func resolveConfig(c *cli.Context) (dumpConfig, error) {
	cfg := defaultDumpConfig()

	var err error
	if path := c.String("config"); path != "" {
		if cfg, err = loadDumpConfig(path, cfg); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("format") {
		if cfg.WireType, err = format.ParseWireType(c.String("format")); err != nil {
			return cfg, err
		}
	}
	if c.IsSet("big-endian") {
		cfg.BigEndian = c.Bool("big-endian")
	}
	if c.IsSet("max-document-size") {
		cfg.MaxDocumentSize = c.Int("max-document-size")
	}
	if c.IsSet("log-level") {
		if cfg.LogLevel, err = logrus.ParseLevel(c.String("log-level")); err != nil {
			return cfg, errors.Wrap(err, "invalid --log-level")
		}
	}

	return cfg, nil
}

func dump(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("no input files")
	}

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(c.App.ErrWriter)
	logger.SetLevel(cfg.LogLevel)
	log := logger.WithField("format", cfg.WireType.String())

	for _, path := range c.Args().Slice() {
		data, err := readInput(path, c.App.Reader)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": path, "bytes": len(data)}).Debug("dumping")

		text, err := wire.FromSizePrefixedBlobs(data, cfg.WireType, cfg.wireOptions(log)...)
		if _, werr := fmt.Fprint(c.App.Writer, text); werr != nil {
			return werr
		}
		if err != nil {
			return errors.Wrapf(err, "dump %s", path)
		}
	}

	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return data, errors.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(path)

	return data, errors.Wrapf(err, "read %s", path)
}
