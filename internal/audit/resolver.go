// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/staranto/awspcgo/internal/cache"
	"github.com/staranto/awspcgo/internal/policy"
)

// DescriptorAPI is the slice of the IAM surface the resolver needs.
// *iam.Client satisfies it; tests substitute a fake with call counters.
type DescriptorAPI interface {
	GetPolicy(ctx context.Context, in *iam.GetPolicyInput, optFns ...func(*iam.Options)) (*iam.GetPolicyOutput, error)
	GetPolicyVersion(ctx context.Context, in *iam.GetPolicyVersionInput, optFns ...func(*iam.Options)) (*iam.GetPolicyVersionOutput, error)
}

// Resolver looks up policy details, consulting the cache first. A miss costs
// exactly two IAM calls (descriptor, then version document) and one
// write-through save; a hit costs nothing remote.
type Resolver struct {
	iam   DescriptorAPI
	store *cache.Store
}

// NewResolver constructs a Resolver over the given IAM client and cache
// store. The store is shared, not owned: the caller controls its lifecycle.
func NewResolver(api DescriptorAPI, store *cache.Store) *Resolver {
	return &Resolver{iam: api, store: store}
}

// Resolve returns the details for the given policy identity. Failures are
// fatal to this resolution; there is no retry and no partial result.
func (r *Resolver) Resolve(ctx context.Context, id policy.Identity) (policy.Detail, error) {
	entries, err := r.store.Load(ctx)
	if err != nil {
		return policy.Detail{}, err
	}

	if d, ok := entries[id.ARN]; ok {
		log.Debugf("cache hit for %s", id.ARN)
		return d, nil
	}

	out, err := r.iam.GetPolicy(ctx, &iam.GetPolicyInput{
		PolicyArn: aws.String(id.ARN),
	})
	if err != nil {
		return policy.Detail{}, fmt.Errorf("failed to get policy %s: %w", id.ARN, err)
	}

	d := policy.Detail{
		Name:        aws.ToString(out.Policy.PolicyName),
		VersionID:   aws.ToString(out.Policy.DefaultVersionId),
		Description: aws.ToString(out.Policy.Description),
	}

	ver, err := r.iam.GetPolicyVersion(ctx, &iam.GetPolicyVersionInput{
		PolicyArn: aws.String(id.ARN),
		VersionId: aws.String(d.VersionID),
	})
	if err != nil {
		return policy.Detail{}, fmt.Errorf("failed to get policy version %s/%s: %w", id.ARN, d.VersionID, err)
	}

	d.Document, err = normalizeDocument(aws.ToString(ver.PolicyVersion.Document))
	if err != nil {
		return policy.Detail{}, fmt.Errorf("failed to normalize document for %s: %w", id.ARN, err)
	}

	r.store.Put(id.ARN, d)
	// Write-through: a crash mid-audit must not lose entries already resolved.
	if err := r.store.Save(ctx); err != nil {
		return policy.Detail{}, err
	}

	return d, nil
}

// normalizeDocument turns the URL-encoded JSON returned by IAM into a
// two-space-indented document with newlines rewritten to the flat-display
// marker.
func normalizeDocument(raw string) (string, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "", err
	}

	var doc any
	if err := json.Unmarshal([]byte(decoded), &doc); err != nil {
		return "", err
	}
	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(string(pretty), "\n", policy.LineBreak), nil
}
