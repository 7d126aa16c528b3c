// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/tidwall/gjson"
)

// LineBreak is the flat-display marker substituted for newlines in cached
// policy documents, so a document renders on a single report line.
const LineBreak = "<br>"

// Detail is the descriptive metadata fetched once per distinct policy ARN.
// Once stored in the cache it is never updated in place.
type Detail struct {
	// Name is the friendly name of the policy.
	Name string
	// VersionID is the default (current) version of the policy.
	VersionID string
	// Description is the policy description, if one was set.
	Description string
	// Document is the pretty-printed policy document with newlines rewritten
	// to LineBreak.
	Document string
}

// ContentHash returns the MD5 of the document text as a hex string. It is
// used for display-side deduplication, not as a cache key.
func (d Detail) ContentHash() string {
	h := md5.New()
	_, _ = h.Write([]byte(d.Document))
	return hex.EncodeToString(h.Sum(nil))
}

// Statements counts the statements in the policy document. IAM allows
// Statement to be either a single object or an array.
func (d Detail) Statements() int {
	doc := strings.ReplaceAll(d.Document, LineBreak, "\n")
	stmt := gjson.Get(doc, "Statement")
	if !stmt.Exists() {
		return 0
	}
	if stmt.IsArray() {
		return len(stmt.Array())
	}
	return 1
}
