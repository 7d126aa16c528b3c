// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"fmt"
	"strings"
)

// AttachmentKind is how a policy reaches an identity: directly inline, or
// attached via a group, user, or role.
type AttachmentKind string

const (
	KindGroup  AttachmentKind = "Group"
	KindUser   AttachmentKind = "User"
	KindInline AttachmentKind = "Inline"
	KindRole   AttachmentKind = "Role"
)

// ErrInvalidAttachmentKind is returned by NewIdentity when the kind is not
// one of the four known values. This is a programming error at the call
// site, not an operational failure.
var ErrInvalidAttachmentKind = errors.New("invalid attachment kind")

// awsManagedPrefix marks policies provided by AWS itself, as opposed to
// customer-managed ones.
const awsManagedPrefix = "arn:aws:iam::aws:policy"

var arnSanitizer = strings.NewReplacer(":", "", "/", "")

// Identity is a policy as seen from one attachment site. It is a pure value:
// two Identities with the same ARN refer to the same policy.
type Identity struct {
	// ARN is the Amazon Resource Name of the policy.
	ARN string
	// SanitizedARN is the ARN with characters that are invalid in CSS
	// selectors (':' and '/') removed. Use it wherever the ARN must appear as
	// a markup token.
	SanitizedARN string
	// Kind is how the policy is attached.
	Kind AttachmentKind
	// AWSManaged is true for standard AWS-provided policies.
	AWSManaged bool
}

// NewIdentity constructs an Identity from a raw ARN and attachment kind.
// The sanitized form and the managed flag are derived once, here.
func NewIdentity(arn string, kind AttachmentKind) (Identity, error) {
	switch kind {
	case KindGroup, KindUser, KindInline, KindRole:
	default:
		return Identity{}, fmt.Errorf("%w %q when instantiating policy", ErrInvalidAttachmentKind, kind)
	}

	return Identity{
		ARN:          arn,
		SanitizedARN: arnSanitizer.Replace(arn),
		Kind:         kind,
		AWSManaged:   strings.HasPrefix(arn, awsManagedPrefix),
	}, nil
}

func (id Identity) String() string {
	return id.ARN
}
