// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"github.com/samber/oops"

	"github.com/holomush/linkguard/pkg/errutil"
)

// Rejection codes. Every rejected message carries exactly one of them.
const (
	CodeStructural          = "STRUCTURAL_ERROR"
	CodeUnknownLinkType     = "UNKNOWN_LINK_TYPE"
	CodeUnresolvedReference = "UNRESOLVED_REFERENCE"
	CodeFieldOverflow       = "FIELD_OVERFLOW"
	CodeColorMismatch       = "COLOR_MISMATCH"
	CodeNameMismatch        = "NAME_MISMATCH"
	CodeTruncatedInput      = "TRUNCATED_INPUT"
)

// CodeCatalogUnavailable is returned when a validation is attempted
// without a complete set of repositories.
const CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"

// Codes lists the rejection codes in a stable order.
var Codes = []string{
	CodeStructural,
	CodeUnknownLinkType,
	CodeUnresolvedReference,
	CodeFieldOverflow,
	CodeColorMismatch,
	CodeNameMismatch,
	CodeTruncatedInput,
}

// Code returns the rejection code of err, or "" if err is nil or carries no code.
func Code(err error) string {
	return errutil.Code(err)
}

func errStructural(offset int, format string, args ...any) error {
	return oops.Code(CodeStructural).
		With("offset", offset).
		Errorf(format, args...)
}

func errTruncated(offset int, what string) error {
	return oops.Code(CodeTruncatedInput).
		With("offset", offset).
		Errorf("sequence finished unexpectedly while reading %s", what)
}

func errUnknownLinkType(offset int, tag string) error {
	return oops.Code(CodeUnknownLinkType).
		With("offset", offset).
		With("link_type", tag).
		Errorf("unsupported link type %q", tag)
}

func errDisabledLinkType(offset int, kind Kind) error {
	return oops.Code(CodeUnknownLinkType).
		With("offset", offset).
		With("link_type", string(kind)).
		Errorf("link type %q is disabled", kind)
}

func errUnresolved(kind Kind, field string, id any) error {
	return oops.Code(CodeUnresolvedReference).
		With("link_type", string(kind)).
		With("field", field).
		With("id", id).
		Errorf("%s link references unknown %s %v", kind, field, id)
}

func errOverflow(offset int, what string, value, limit any) error {
	return oops.Code(CodeFieldOverflow).
		With("offset", offset).
		With("value", value).
		With("limit", limit).
		Errorf("%s %v exceeds limit %v", what, value, limit)
}

func errColorMismatch(kind Kind, want, got uint32) error {
	return oops.Code(CodeColorMismatch).
		With("link_type", string(kind)).
		With("expected_color", formatColor(want)).
		With("color", formatColor(got)).
		Errorf("%s link has color %s, but user claims %s", kind, formatColor(want), formatColor(got))
}

func errNameMismatch(kind Kind, id uint32, caption string) error {
	return oops.Code(CodeNameMismatch).
		With("link_type", string(kind)).
		With("id", id).
		With("caption", caption).
		Errorf("linked %s (id: %d) name wasn't found in any localization", kind, id)
}

// inField annotates a cursor error with the link field being read.
func inField(err error, kind Kind, field string) error {
	if err == nil {
		return nil
	}
	return oops.With("link_type", string(kind)).With("field", field).Wrap(err)
}
