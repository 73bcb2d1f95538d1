package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/nsconfig"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print the value at a dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.ensureConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			value, err := root.GetPath(args[0])
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), value)
		},
	}
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Store a value at a dotted path and save the owning file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.ensureConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err := root.SetPath(args[0], parseValue(args[1])); err != nil {
				return err
			}
			return root.SaveAll()
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every value in the tree, mounted files included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.ensureConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			flat, err := root.Flatten()
			if err != nil {
				return err
			}

			var matcher glob.Glob
			if match != "" {
				matcher, err = glob.Compile(match, '.')
				if err != nil {
					return fmt.Errorf("invalid --match pattern %q: %w", match, err)
				}
			}

			paths := make([]string, 0, len(flat))
			for path := range flat {
				if matcher == nil || matcher.Match(path) {
					paths = append(paths, path)
				}
			}
			sort.Strings(paths)

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				rows := make([][]string, 0, len(paths))
				for _, path := range paths {
					rows = append(rows, []string{path, formatScalar(flat[path])})
				}
				fmt.Fprintln(out, renderTable([]string{"Path", "Value"}, rows))
				return nil
			}

			for _, path := range paths {
				fmt.Fprintf(out, "%s=%s\n", path, formatScalar(flat[path]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Only list paths matching a glob (segments separated by '.')")
	return cmd
}

func newDumpCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Write the whole tree in the root file's format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := ctx.ensureConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return root.Dump(cmd.OutOrStdout())
		},
	}
}

func printValue(w io.Writer, value any) error {
	switch v := value.(type) {
	case *nsconfig.Namespace:
		snapshot, err := v.Snapshot()
		if err != nil {
			return err
		}
		return writeJSON(w, snapshot)
	case map[string]any, []any:
		return writeJSON(w, v)
	default:
		_, err := fmt.Fprintln(w, formatScalar(v))
		return err
	}
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(out)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// parseValue attempts to parse a command-line string into a typed value
func parseValue(s string) any {
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
