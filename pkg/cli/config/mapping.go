package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Mapping holds the CLI flag for the optional room/user mapping file
type Mapping struct {
	path string
}

func (x *Mapping) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mapping-file",
			Usage:       "Path to a TOML file with explicit room and user mappings (optional)",
			Category:    "Chat",
			Destination: &x.path,
			Sources:     cli.EnvVars("SLACKLINE_MAPPING_FILE"),
		},
	}
}

func (x Mapping) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// Configure loads the mapping file, returning nil when no file is configured
func (x *Mapping) Configure() (*model.Mapping, error) {
	if x.path == "" {
		return nil, nil
	}

	mapping, err := model.LoadMapping(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load mapping file", goerr.V("path", x.path))
	}
	return mapping, nil
}
