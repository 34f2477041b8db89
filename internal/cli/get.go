// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/z5labs/strata"

	"github.com/spf13/cobra"
)

func newGetCmd(o *options) *cobra.Command {
	var showOrigin bool

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Print the value at a path",
		Example: `  strata -f config.yaml get server.port
  strata -f config.yaml get 'servers[0].host' --origin`,
		Args: cobra.ExactArgs(1),
		RunE: o.withConfig(func(cmd *cobra.Command, args []string, cfg *strata.Config) error {
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}

			s, err := render(v)
			if err != nil {
				return err
			}
			if showOrigin {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s, v.Origin())
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		}),
	}

	cmd.Flags().BoolVar(&showOrigin, "origin", false, "also print the source of the value")
	return cmd
}

// render formats scalars as plain text and everything else as JSON.
func render(v strata.Value) (string, error) {
	switch v.Kind() {
	case strata.KindNull:
		return "null", nil
	case strata.KindArray, strata.KindTable:
		b, err := json.Marshal(v.Interface())
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return v.AsString()
	}
}
