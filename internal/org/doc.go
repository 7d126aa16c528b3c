// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package org walks the accounts of an AWS Organization and gathers, updates,
// and reports their contact information.
package org
