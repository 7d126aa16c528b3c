// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package audit

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/awspcgo/internal/cache"
	"github.com/staranto/awspcgo/internal/policy"
)

var ctx = context.Background()

const testDocument = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"s3:GetObject","Resource":"*"}]}`

// fakeIAM implements DescriptorAPI with call counters.
type fakeIAM struct {
	name        string
	versionID   string
	description *string
	document    string
	getErr      error
	versionErr  error

	getPolicyCount        int
	getPolicyVersionCount int
}

func (f *fakeIAM) GetPolicy(_ context.Context, _ *iam.GetPolicyInput, _ ...func(*iam.Options)) (*iam.GetPolicyOutput, error) {
	f.getPolicyCount++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &iam.GetPolicyOutput{
		Policy: &iamtypes.Policy{
			PolicyName:       aws.String(f.name),
			DefaultVersionId: aws.String(f.versionID),
			Description:      f.description,
		},
	}, nil
}

func (f *fakeIAM) GetPolicyVersion(_ context.Context, _ *iam.GetPolicyVersionInput, _ ...func(*iam.Options)) (*iam.GetPolicyVersionOutput, error) {
	f.getPolicyVersionCount++
	if f.versionErr != nil {
		return nil, f.versionErr
	}
	return &iam.GetPolicyVersionOutput{
		PolicyVersion: &iamtypes.PolicyVersion{
			Document: aws.String(url.QueryEscape(f.document)),
		},
	}, nil
}

func newTestResolver(t *testing.T, api *fakeIAM) (*Resolver, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), cache.Name)
	return NewResolver(api, cache.NewStore(cache.WithPath(path))), path
}

func mustIdentity(t *testing.T, arn string) policy.Identity {
	t.Helper()
	id, err := policy.NewIdentity(arn, policy.KindUser)
	require.NoError(t, err)
	return id
}

func TestResolve_MissFetchesAndNormalizes(t *testing.T) {
	api := &fakeIAM{
		name:        "ReadOnly",
		versionID:   "v4",
		description: aws.String("read only access"),
		document:    testDocument,
	}
	r, _ := newTestResolver(t, api)

	d, err := r.Resolve(ctx, mustIdentity(t, "arn:aws:iam::aws:policy/ReadOnly"))
	require.NoError(t, err)

	assert.Equal(t, "ReadOnly", d.Name)
	assert.Equal(t, "v4", d.VersionID)
	assert.Equal(t, "read only access", d.Description)

	// Pretty-printed, then newline-flattened.
	assert.NotContains(t, d.Document, "\n")
	assert.Contains(t, d.Document, policy.LineBreak)
	assert.Contains(t, d.Document, `  "Version": "2012-10-17"`)
	assert.Equal(t, 1, d.Statements())
}

func TestResolve_SecondCallHitsCache(t *testing.T) {
	api := &fakeIAM{name: "Foo", versionID: "v1", document: testDocument}
	r, _ := newTestResolver(t, api)

	id := mustIdentity(t, "arn:aws:iam::123:policy/Foo")

	first, err := r.Resolve(ctx, id)
	require.NoError(t, err)
	second, err := r.Resolve(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.getPolicyCount)
	assert.Equal(t, 1, api.getPolicyVersionCount)
}

func TestResolve_PersistsAcrossProcesses(t *testing.T) {
	api := &fakeIAM{name: "Foo", versionID: "v1", document: testDocument}
	r, path := newTestResolver(t, api)

	id := mustIdentity(t, "arn:aws:iam::123:policy/Foo")
	_, err := r.Resolve(ctx, id)
	require.NoError(t, err)

	// A new resolver over a fresh store, same backing file: no IAM calls.
	api2 := &fakeIAM{}
	r2 := NewResolver(api2, cache.NewStore(cache.WithPath(path)))
	d, err := r2.Resolve(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "Foo", d.Name)
	assert.Equal(t, 0, api2.getPolicyCount)
	assert.Equal(t, 0, api2.getPolicyVersionCount)
}

func TestResolve_MissingDescriptionLeftEmpty(t *testing.T) {
	api := &fakeIAM{name: "Foo", versionID: "v1", document: testDocument}
	r, _ := newTestResolver(t, api)

	d, err := r.Resolve(ctx, mustIdentity(t, "arn:aws:iam::123:policy/Foo"))
	require.NoError(t, err)
	assert.Empty(t, d.Description)
}

func TestResolve_DescriptorErrorPropagates(t *testing.T) {
	api := &fakeIAM{getErr: errors.New("throttled")}
	r, _ := newTestResolver(t, api)

	_, err := r.Resolve(ctx, mustIdentity(t, "arn:aws:iam::123:policy/Foo"))
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "throttled"))
	assert.Equal(t, 0, api.getPolicyVersionCount)
}

func TestResolve_VersionErrorPropagates(t *testing.T) {
	api := &fakeIAM{name: "Foo", versionID: "v1", versionErr: errors.New("boom")}
	r, _ := newTestResolver(t, api)

	_, err := r.Resolve(ctx, mustIdentity(t, "arn:aws:iam::123:policy/Foo"))
	assert.Error(t, err)

	// A failed resolution must not poison the cache.
	api.versionErr = nil
	api.document = testDocument
	d, err := r.Resolve(ctx, mustIdentity(t, "arn:aws:iam::123:policy/Foo"))
	require.NoError(t, err)
	assert.Equal(t, "Foo", d.Name)
	assert.Equal(t, 2, api.getPolicyCount)
}

func TestNormalizeDocument(t *testing.T) {
	doc, err := normalizeDocument(url.QueryEscape(`{"a":{"b":1}}`))
	require.NoError(t, err)
	assert.Equal(t, `{<br>  "a": {<br>    "b": 1<br>  }<br>}`, doc)
}

func TestNormalizeDocument_BadJSON(t *testing.T) {
	_, err := normalizeDocument("not-json")
	assert.Error(t, err)
}
