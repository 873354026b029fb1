package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/spf13/cobra"

	"martianoff/tsclosure/internal/logger"
	"martianoff/tsclosure/internal/transpiler/manifest"
)

func newManifestCmd() *cobra.Command {
	var showFiles bool
	cmd := &cobra.Command{
		Use:   "manifest <file.json>",
		Short: "Print the module load order of a manifest",
		Long: `Read a modules manifest written by the transpiler and print its modules
so that every module comes after the modules it references.

Fails, listing every cycle, when modules reference each other circularly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readManifest(args[0])
			if err != nil {
				return err
			}
			graph := m.Graph()
			order, err := graph.TopologicalSort()
			if err != nil {
				cycles := graph.FindAllCycles()
				lines := make([]string, len(cycles))
				for i, c := range cycles {
					lines[i] = "  " + strings.Join(c, " -> ")
				}
				return errors.Newf("%s: %d module cycle(s):\n%s",
					args[0], len(cycles), strings.Join(lines, "\n"))
			}
			logger.Named("manifest").Debugw("manifest sorted",
				logger.FieldFile, args[0], logger.FieldCount, len(order))

			out := cmd.OutOrStdout()
			for _, n := range order {
				if showFiles && n.FileName != "" {
					fmt.Fprintf(out, "%s\t%s\n", n.Module, n.FileName)
					continue
				}
				fmt.Fprintln(out, n.Module)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showFiles, "files", "f", false, "Print the defining file next to each module")
	return cmd
}

func readManifest(path string) (*manifest.ModulesManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	m := manifest.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrapf(err, "decode manifest %s", path)
	}
	return m, nil
}
