// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/pkg/format"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"
	"gopkg.in/yaml.v3"
)

// UnknownOutputError occurs when dump is asked for an unsupported output format.
type UnknownOutputError struct {
	Output string
}

// Error implements the error interface.
func (e UnknownOutputError) Error() string {
	return fmt.Sprintf("unknown output format: %s", e.Output)
}

func newDumpCmd(o *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the merged configuration",
		Args:  cobra.NoArgs,
		RunE: o.withConfig(func(cmd *cobra.Command, args []string, cfg *strata.Config) error {
			return dump(cmd.OutOrStdout(), output, cfg)
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json, yaml, toml or protobuf")
	return cmd
}

func dump(w io.Writer, output string, cfg *strata.Config) error {
	settings := cfg.AllSettings()

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(settings)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err := enc.Encode(settings)
		if err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(settings)
	case "protobuf":
		root, err := cfg.Table("")
		if err != nil {
			return err
		}
		s, err := format.ToStruct(root)
		if err != nil {
			return err
		}
		b, err := proto.Marshal(s)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return UnknownOutputError{Output: output}
	}
}
