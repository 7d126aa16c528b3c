// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache persists resolved policy details across runs, either to a
// local file or to a shared S3 bucket, so each policy ARN is fetched from
// IAM at most once for the lifetime of the cache.
package cache
