/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/webxtract/buildgraph"
	C "bennypowers.dev/webxtract/cmd/config"
	"bennypowers.dev/webxtract/extract"
	"bennypowers.dev/webxtract/graph"
	"bennypowers.dev/webxtract/internal/logging"
	"bennypowers.dev/webxtract/internal/platform"
	"bennypowers.dev/webxtract/queries"
	"bennypowers.dev/webxtract/resolve"
	"bennypowers.dev/webxtract/transform"
	"bennypowers.dev/webxtract/urlmap"
	"bennypowers.dev/webxtract/write"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a portable component tree from the configured project",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		var cfg C.WebxtractConfig
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			cfg.Output = output
		}
		if sequential, _ := cmd.Flags().GetBool("sequential"); sequential {
			cfg.Sequential = true
		}
		defines, _ := cmd.Flags().GetStringArray("define")
		overrides, err := parseDefines(defines)
		if err != nil {
			return err
		}
		if len(overrides) > 0 {
			if cfg.Defines == nil {
				cfg.Defines = make(map[string]bool, len(overrides))
			}
			for k, v := range overrides {
				cfg.Defines[k] = v
			}
		}

		if cfg.Output == "" {
			return fmt.Errorf("no output directory configured: set \"output\" in the config file or pass --output")
		}
		if len(cfg.Components) == 0 {
			return fmt.Errorf("no component globs configured: set \"components\" in the config file")
		}

		fs := platform.NewOSFileSystem()

		reader := urlmap.NewReader(fs, cfg.ProjectDir)
		reader.Flags = cfg.Defines
		urls, err := reader.Read(cfg.JarManifests, cfg.BuildDescriptions)
		if err != nil {
			return fmt.Errorf("reading manifests: %w", err)
		}

		resolver := resolve.New(fs, cfg.ProjectDir, urls)

		qm, err := queries.NewQueryManager(queries.ExtractorQueries())
		if err != nil {
			return fmt.Errorf("loading queries: %w", err)
		}
		defer qm.Close()

		builder := buildgraph.New(fs, resolver, extract.NewJSExtractor(qm), extract.NewCSSExtractor(qm))
		g, err := builder.Build(cfg.Components, cfg.GlobalStylesheets)
		if err != nil {
			return fmt.Errorf("building dependency graph: %w", err)
		}
		if g.CycleCheck() {
			logging.Warning("dependency graph contains a cycle")
		}

		if err := write.PrepareOutputDir(fs, cfg.Output); err != nil {
			return fmt.Errorf("preparing output directory: %w", err)
		}

		written := writableNodeCount(g)
		var progress *pterm.ProgressbarPrinter
		if !cfg.Quiet && written > 0 {
			progress, _ = pterm.DefaultProgressbar.WithTotal(written).WithTitle("Writing").Start()
		}

		w := &write.Writer{
			FS:         fs,
			Graph:      g,
			OutputDir:  cfg.Output,
			CSS:        transform.NewCSSTransformer(qm),
			JS:         transform.NewJSTransformer(qm),
			Sequential: cfg.Sequential,
			Progress:   progress,
		}
		if err := w.WriteAll(); err != nil {
			return fmt.Errorf("writing output tree: %w", err)
		}
		if progress != nil {
			progress.Stop()
		}

		pterm.Success.Printf("Extracted %d files to %s in %s\n", written, cfg.Output, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

// writableNodeCount counts the nodes the writer will actually produce a
// file for (everything except Omit-destined inlined stylesheets).
func writableNodeCount(g *graph.Graph) int {
	n := 0
	for _, node := range g.Nodes() {
		if node.Destination.Kind != graph.DestOmit {
			n++
		}
	}
	return n
}

// parseDefines parses repeated --define NAME=true|false flags.
func parseDefines(raw []string) (map[string]bool, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]bool, len(raw))
	for _, entry := range raw {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --define %q: expected NAME=true|false", entry)
		}
		switch value {
		case "true":
			out[name] = true
		case "false":
			out[name] = false
		default:
			return nil, fmt.Errorf("invalid --define %q: value must be true or false", entry)
		}
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("output", "o", "", "directory to write the extracted tree to (overrides config)")
	extractCmd.Flags().StringArray("define", nil, "override an #ifdef flag, e.g. --define ANDROID=true (repeatable)")
	extractCmd.Flags().Bool("sequential", false, "write output nodes one at a time instead of across a worker pool")
}
