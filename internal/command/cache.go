// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/awspcgo/internal/config"
	"github.com/staranto/awspcgo/internal/meta"
)

// CacheCommandAction is the action handler for the "cache" subcommand. It
// reports on the policy cache backing store. Cached entries are never
// refreshed, so the age shown here is how stale the oldest capture might be;
// deleting the backing file is the way to force a refetch.
func CacheCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "cache"

	awscfg, err := AWSConfig(ctx, cmd)
	if err != nil {
		return err
	}

	store := NewPolicyStore(cmd, awscfg)
	entries, err := store.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("path:    %s\n", store.Path())
	if store.Bucket() != "" {
		fmt.Printf("bucket:  %s\n", store.Bucket())
	}
	fmt.Printf("state:   %s\n", store.State())
	fmt.Printf("entries: %d\n", len(entries))

	if info, err := os.Stat(store.Path()); err == nil {
		fmt.Printf("size:    %s\n", humanize.Bytes(uint64(info.Size())))
		fmt.Printf("age:     %s\n", humanize.Time(info.ModTime()))
	}

	return nil
}

// CacheCommandBuilder constructs the cli.Command for "cache".
func CacheCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "policy cache info",
		UsageText: `awspc cache [options]`,
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: []cli.Flag{
			NewBucketFlag("cache"),
			NewProfileFlag("cache"),
			NewRegionFlag("cache"),
		},
		Action: CacheCommandAction,
	}
}
