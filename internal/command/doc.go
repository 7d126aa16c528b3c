// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the awspc CLI: app wiring, flags, and the
// pq/aq/cq/cache subcommands.
package command
