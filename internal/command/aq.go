// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/urfave/cli/v3"

	"github.com/staranto/awspcgo/internal/awsx"
	"github.com/staranto/awspcgo/internal/config"
	"github.com/staranto/awspcgo/internal/meta"
	"github.com/staranto/awspcgo/internal/org"
	"github.com/staranto/awspcgo/internal/output"
)

// AqCommandAction is the action handler for the "aq" subcommand. It lists
// the accounts of the organization.
func AqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "aq"

	awscfg, err := AWSConfig(ctx, cmd)
	if err != nil {
		return err
	}

	accounts, err := org.Accounts(ctx, awsx.NewOrganizations(awscfg), cmd.Bool("suspended"))
	if err != nil {
		return err
	}

	var rows []output.AccountRow
	for _, a := range accounts {
		rows = append(rows, output.AccountRow{
			ID:     aws.ToString(a.Id),
			Name:   aws.ToString(a.Name),
			Email:  aws.ToString(a.Email),
			Status: string(a.Status),
		})
	}

	return output.SpitAccounts(os.Stdout, cmd.String("output"), cmd.Bool("titles"), cmd.Bool("color"), rows)
}

// AqCommandBuilder constructs the cli.Command for "aq".
func AqCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "aq",
		Usage:     "account query",
		UsageText: `awspc aq [options]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "suspended",
				Usage: "include suspended accounts",
				Value: false,
			},
			NewProfileFlag("aq"),
			NewRegionFlag("aq"),
		}, NewGlobalFlags("aq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return AqCommandAction(ctx, cmd)
		},
	}
}
