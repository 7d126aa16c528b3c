// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package audit resolves policy details through the persistent cache during
// an account audit. Details are deliberately not pulled with the bulk
// authorization-details walk, since the same managed policies appear on many
// identities; they are fetched once per ARN and cached instead.
package audit
