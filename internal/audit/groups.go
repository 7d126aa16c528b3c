// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"github.com/staranto/awspcgo/internal/policy"
)

// GroupPolicies expands the managed policies attached to each of a user's
// groups into Group-kind identities. groupNames is the user's group list;
// attachments maps group name to the ARNs of its attached managed policies.
func GroupPolicies(groupNames []string, attachments map[string][]string) ([]policy.Identity, error) {
	var identities []policy.Identity
	for _, name := range groupNames {
		for _, arn := range attachments[name] {
			id, err := policy.NewIdentity(arn, policy.KindGroup)
			if err != nil {
				return nil, err
			}
			identities = append(identities, id)
		}
	}
	return identities, nil
}
