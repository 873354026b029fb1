package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"martianoff/tsclosure/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration tsclosure would use in the current directory.

Values come from the built-in defaults, the nearest tsclosure.toml and
TSCLOSURE_* environment variables, later sources winning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, path, err := config.New(opts.dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintln(out, "# no "+config.FileName+" found, using defaults")
			} else {
				fmt.Fprintf(out, "# %s\n", path)
			}
			for _, key := range config.Keys() {
				fmt.Fprintf(out, "%s = %s\n", key, formatValue(v.Get(key)))
			}
			return nil
		},
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}
