// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/awspcgo/internal/audit"
	"github.com/staranto/awspcgo/internal/awsx"
	"github.com/staranto/awspcgo/internal/config"
	"github.com/staranto/awspcgo/internal/meta"
	"github.com/staranto/awspcgo/internal/output"
	"github.com/staranto/awspcgo/internal/policy"
)

// PqCommandAction is the action handler for the "pq" subcommand. It resolves
// details for each named policy ARN through the persistent cache. Any
// resolution failure aborts the run; there is no skip-and-continue.
func PqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "pq"

	arns := cmd.Args().Slice()
	if len(arns) == 0 {
		return errors.New("no policy ARNs specified")
	}

	kind := policy.AttachmentKind(cmd.String("kind"))

	// Construct all identities up front so a bad kind fails before any
	// remote work.
	var ids []policy.Identity
	for _, arn := range arns {
		id, err := policy.NewIdentity(arn, kind)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	awscfg, err := AWSConfig(ctx, cmd)
	if err != nil {
		return err
	}

	store := NewPolicyStore(cmd, awscfg)
	resolver := audit.NewResolver(awsx.NewIAM(awscfg), store)

	var rows []output.PolicyRow
	for _, id := range ids {
		d, err := resolver.Resolve(ctx, id)
		if err != nil {
			return err
		}

		row := output.PolicyRow{
			ARN:         id.ARN,
			Name:        d.Name,
			Version:     d.VersionID,
			Kind:        string(id.Kind),
			Managed:     id.AWSManaged,
			Statements:  d.Statements(),
			Hash:        d.ContentHash(),
			Description: d.Description,
		}
		if cmd.Bool("full") {
			row.Document = d.Document
		}
		rows = append(rows, row)
	}

	return output.SpitPolicies(os.Stdout, cmd.String("output"), cmd.Bool("titles"), cmd.Bool("color"), rows)
}

// PqCommandBuilder constructs the cli.Command for "pq".
func PqCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "pq",
		Usage:     "policy query",
		UsageText: `awspc pq [options] ARN [ARN...]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "full",
				Usage: "include the policy document in results",
				Value: false,
			},
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "attachment kind of the queried policies (Group|User|Inline|Role)",
				Value:   string(policy.KindUser),
				Validator: func(value string) error {
					return FlagValidators(value, KindValidator)
				},
			},
			NewBucketFlag("pq"),
			NewProfileFlag("pq"),
			NewRegionFlag("pq"),
		}, NewGlobalFlags("pq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return PqCommandAction(ctx, cmd)
		},
	}
}
