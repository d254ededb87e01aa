// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"encoding/json"
	"fmt"

	"github.com/samber/oops"
)

// LinkView is the JSON form of a parsed link.
type LinkView struct {
	Kind    Kind            `json:"kind"`
	Color   string          `json:"color"`
	Span    Span            `json:"span"`
	Caption string          `json:"caption"`
	Fields  json.RawMessage `json:"fields"`
}

// View renders a link. Fields holds the variant's payload fields.
func View(l Link) (LinkView, error) {
	fields, err := json.Marshal(l)
	if err != nil {
		return LinkView{}, oops.With("link_type", string(l.Kind())).Wrapf(err, "encode link fields")
	}
	return LinkView{
		Kind:    l.Kind(),
		Color:   fmt.Sprintf("%08x", l.Color()),
		Span:    l.Span(),
		Caption: l.Caption(),
		Fields:  fields,
	}, nil
}

// Views renders links in order. The result is never nil.
func Views(links []Link) ([]LinkView, error) {
	out := make([]LinkView, 0, len(links))
	for _, l := range links {
		v, err := View(l)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
