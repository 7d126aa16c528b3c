// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	acctypes "github.com/aws/aws-sdk-go-v2/service/account/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/urfave/cli/v3"

	"github.com/staranto/awspcgo/internal/awsx"
	"github.com/staranto/awspcgo/internal/config"
	"github.com/staranto/awspcgo/internal/meta"
	"github.com/staranto/awspcgo/internal/org"
)

// CqCommandAction is the action handler for the "cq" subcommand. It walks
// every account in the organization, gathers its contact information, writes
// the report, and optionally pushes new contact details to each account.
func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "cq"

	awscfg, err := AWSConfig(ctx, cmd)
	if err != nil {
		return err
	}

	var details *acctypes.ContactInformation
	if cmd.Bool("update") {
		details, err = org.LoadContactDetails(cmd.String("details"))
		if err != nil {
			return err
		}
	}

	ident, err := awsx.NewSTS(awscfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("failed to get caller identity: %w", err)
	}

	accounts, err := org.Accounts(ctx, awsx.NewOrganizations(awscfg), cmd.Bool("suspended"))
	if err != nil {
		return err
	}

	accountAPI := awsx.NewAccount(awscfg)

	var contacts []org.AccountContacts
	for _, a := range accounts {
		ac, err := org.Contacts(ctx, accountAPI, aws.ToString(a.Id))
		if err != nil {
			return err
		}
		contacts = append(contacts, ac)

		if details != nil {
			if err := org.PutContacts(ctx, accountAPI, ac.ID, details); err != nil {
				return err
			}
		}
	}

	var w io.Writer
	report := cmd.String("report")
	if report == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(report)
		if err != nil {
			return fmt.Errorf("failed to create report %s: %w", report, err)
		}
		defer f.Close()
		w = f
	}

	return org.WriteContactReport(w, aws.ToString(ident.Account), contacts)
}

// CqCommandBuilder constructs the cli.Command for "cq".
func CqCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cq",
		Usage:     "contact query",
		UsageText: `awspc cq [options]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "details",
				Usage: "YAML file holding the contact details to push with --update",
				Value: "details.yaml",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "report output path, or - for stdout",
				Value: "contact_details_report.txt",
			},
			&cli.BoolFlag{
				Name:  "suspended",
				Usage: "include suspended accounts",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "update",
				Usage: "push the contact details file to every account",
				Value: false,
			},
			NewProfileFlag("cq"),
			NewRegionFlag("cq"),
		}, NewGlobalFlags("cq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return CqCommandAction(ctx, cmd)
		},
	}
}
