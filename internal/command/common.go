// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/urfave/cli/v3"

	"github.com/staranto/awspcgo/internal/awsx"
	"github.com/staranto/awspcgo/internal/cache"
	"github.com/staranto/awspcgo/internal/config"
	"github.com/staranto/awspcgo/internal/meta"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// AWSConfig loads SDK config honoring the --profile and --region flags and
// the configured retry budget.
func AWSConfig(ctx context.Context, cmd *cli.Command) (awsv2.Config, error) {
	var opts []awsx.Option
	if profile := cmd.String("profile"); profile != "" {
		opts = append(opts, awsx.WithProfile(profile))
	}
	if region := cmd.String("region"); region != "" {
		opts = append(opts, awsx.WithRegion(region))
	}
	opts = append(opts, retryOptions()...)
	return awsx.LoadAWSConfig(ctx, opts...)
}

// retryOptions returns a retryer override when "retries" is configured.
// Absent or non-positive means SDK defaults.
func retryOptions() []awsx.Option {
	attempts, err := config.GetInt("retries")
	if err != nil || attempts <= 0 {
		return nil
	}
	return []awsx.Option{
		awsx.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), attempts)
		}),
	}
}

// NewPolicyStore constructs the cache store per the --bucket flag: remote
// mode when a bucket is named, local-file mode otherwise.
func NewPolicyStore(cmd *cli.Command, awscfg awsv2.Config) *cache.Store {
	if bucket := cmd.String("bucket"); bucket != "" {
		return cache.NewStore(cache.WithBucket(bucket, awsx.NewS3(awscfg)))
	}
	return cache.NewStore()
}
