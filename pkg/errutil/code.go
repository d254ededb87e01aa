// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil holds helpers for oops errors: reading their codes,
// logging them with structured context and asserting on them in tests.
package errutil

import "github.com/samber/oops"

// Code returns the oops code of err, or "" when err is nil or has no
// string code.
func Code(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}

// HasCode reports whether err carries the oops code.
func HasCode(err error, code string) bool {
	return code != "" && Code(err) == code
}
