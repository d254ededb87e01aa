// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/linkguard/internal/chatlink"
)

// maxStdinMessage bounds one line read from stdin.
const maxStdinMessage = 1 << 20

type validateConfig struct {
	json bool
}

// verdict is the --json output for one message.
type verdict struct {
	Message  string              `json:"message"`
	Accepted bool                `json:"accepted"`
	Links    []chatlink.LinkView `json:"links"`
	Code     string              `json:"code,omitempty"`
	Reason   string              `json:"reason,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	cfg := &validateConfig{}

	cmd := &cobra.Command{
		Use:   "validate [message]",
		Short: "Validate chat messages",
		Long: `Validates one chat message given as arguments (joined with spaces), or
every line of standard input when no arguments are given. Exits non-zero
if any message is rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.json, "json", false, "print one JSON verdict per message")

	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, args []string, cfg *validateConfig) error {
	ctx := cmd.Context()

	src, err := a.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer src.close()

	v, err := chatlink.NewValidator(append(a.cfg.ValidatorOptions(), chatlink.WithLogger(a.logger))...)
	if err != nil {
		return err
	}
	repos := chatlink.RepositoriesFrom(src.holder.Load())

	check := func(msg string) (bool, error) {
		out, err := judge(ctx, v, repos, msg)
		if err != nil {
			return false, err
		}
		return out.Accepted, printVerdict(cmd.OutOrStdout(), out, cfg.json)
	}

	rejected := 0
	if len(args) > 0 {
		ok, err := check(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if !ok {
			rejected++
		}
	} else {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 4096), maxStdinMessage)
		for scanner.Scan() {
			ok, err := check(scanner.Text())
			if err != nil {
				return err
			}
			if !ok {
				rejected++
			}
		}
		if err := scanner.Err(); err != nil {
			return oops.Code("INPUT_READ_FAILED").Wrap(err)
		}
	}

	if rejected > 0 {
		return oops.Code("MESSAGE_REJECTED").With("rejected", rejected).Errorf("%d message(s) rejected", rejected)
	}
	return nil
}

// judge validates one message. Rejections are part of the verdict; only
// failures unrelated to the message are returned as errors.
func judge(ctx context.Context, v *chatlink.Validator, repos *chatlink.Repositories, msg string) (*verdict, error) {
	out := &verdict{Message: msg, Links: []chatlink.LinkView{}}

	result, err := v.Validate(ctx, repos, msg)
	if err != nil {
		code := chatlink.Code(err)
		if code == "" || code == chatlink.CodeCatalogUnavailable {
			return nil, err
		}
		out.Code = code
		out.Reason = err.Error()
		return out, nil
	}

	if out.Links, err = chatlink.Views(result.Links); err != nil {
		return nil, err
	}
	out.Accepted = true
	return out, nil
}

func printVerdict(w io.Writer, out *verdict, asJSON bool) error {
	if asJSON {
		if err := json.NewEncoder(w).Encode(out); err != nil {
			return oops.Wrapf(err, "write verdict")
		}
		return nil
	}

	var err error
	if out.Accepted {
		_, err = fmt.Fprintf(w, "accepted: %d link(s)\n", len(out.Links))
		for _, l := range out.Links {
			if err != nil {
				break
			}
			_, err = fmt.Fprintf(w, "  %s [%s] at %d-%d\n", l.Kind, l.Caption, l.Span.Start, l.Span.End)
		}
	} else {
		_, err = fmt.Fprintf(w, "rejected: %s: %s\n", out.Code, out.Reason)
	}
	if err != nil {
		return oops.Wrapf(err, "write verdict")
	}
	return nil
}
