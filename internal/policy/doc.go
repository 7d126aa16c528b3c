// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package policy holds the value objects for IAM policies discovered during
// an audit: the per-attachment Identity and the cached per-ARN Detail.
package policy
