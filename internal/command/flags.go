// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/awspcgo/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var cfg config.Type

// NewBucketFlag constructs the "bucket" flag naming the S3 bucket that holds
// the shared policy cache. Absent means local-file mode.
func NewBucketFlag(ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "bucket",
		Aliases: []string{"b"},
		Usage:   "S3 bucket holding the shared policy cache. Absent means a local cache file",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWSPC_BUCKET"),
			yaml.YAML(ns+"."+"bucket", altsrc.StringSourcer(cfg.Source)),
			yaml.YAML("bucket", altsrc.StringSourcer(cfg.Source)),
		),
	}
}

// NewProfileFlag constructs the "profile" flag for the shared AWS config
// profile.
func NewProfileFlag(ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "AWS shared config profile. Defaults to the AWS_PROFILE chain",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWSPC_PROFILE"),
			yaml.YAML(ns+"."+"profile", altsrc.StringSourcer(cfg.Source)),
			yaml.YAML("profile", altsrc.StringSourcer(cfg.Source)),
		),
	}
}

// NewRegionFlag constructs the "region" flag.
func NewRegionFlag(ns string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region override. Defaults to the env/profile chain",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWSPC_REGION"),
			yaml.YAML(ns+"."+"region", altsrc.StringSourcer(cfg.Source)),
			yaml.YAML("region", altsrc.StringSourcer(cfg.Source)),
		),
	}
}

func NewGlobalFlags(ns string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:  "color",
			Usage: "colorize text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(ns+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}
