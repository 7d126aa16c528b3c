// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package org

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

// OrganizationsAPI is the slice of the Organizations surface the walk needs.
type OrganizationsAPI interface {
	ListAccounts(ctx context.Context, in *organizations.ListAccountsInput, optFns ...func(*organizations.Options)) (*organizations.ListAccountsOutput, error)
}

// Accounts pages through every account in the organization. Suspended
// accounts are skipped unless includeSuspended is set.
func Accounts(ctx context.Context, api OrganizationsAPI, includeSuspended bool) ([]orgtypes.Account, error) {
	var accounts []orgtypes.Account

	in := &organizations.ListAccountsInput{}
	for {
		out, err := api.ListAccounts(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}

		for _, a := range out.Accounts {
			if !includeSuspended && a.Status == orgtypes.AccountStatusSuspended {
				log.Debugf("skipping suspended account %v", a.Id)
				continue
			}
			accounts = append(accounts, a)
		}

		if out.NextToken == nil {
			break
		}
		in.NextToken = out.NextToken
	}

	return accounts, nil
}
