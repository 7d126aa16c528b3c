// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/awspcgo/internal/policy"
)

func TestGroupPolicies(t *testing.T) {
	attachments := map[string][]string{
		"admins":  {"arn:aws:iam::aws:policy/AdministratorAccess"},
		"readers": {"arn:aws:iam::aws:policy/ReadOnlyAccess", "arn:aws:iam::123:policy/Extra"},
		"empty":   {},
	}

	ids, err := GroupPolicies([]string{"admins", "readers"}, attachments)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	for _, id := range ids {
		assert.Equal(t, policy.KindGroup, id.Kind)
	}
	assert.Equal(t, "arn:aws:iam::aws:policy/AdministratorAccess", ids[0].ARN)
	assert.True(t, ids[0].AWSManaged)
	assert.False(t, ids[2].AWSManaged)
}

func TestGroupPolicies_UnknownGroupIgnored(t *testing.T) {
	ids, err := GroupPolicies([]string{"ghost"}, map[string][]string{})
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
