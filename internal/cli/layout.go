package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/scene"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  sceneFlags
		output string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Pack a scene and write the layout as JSON",
		Long: `Pack a scene and write the layout as JSON.

The scene file (.toml, .yaml, .yml or .json) names a container, its width,
the cell size and the items. The layout lists, for every placed item, its
cell, its span in cells and its pixel offsets, along with the snapped
container width and height.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, output, quiet)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <scene>.layout.json, - for stdout)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the placements table")

	return cmd
}

// runLayout loads the scene, computes the layout and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, flags sceneFlags, output string, quiet bool) error {
	s, err := scene.Load(input)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	runner, err := c.newRunner(ctx, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Overrides: flags.overrides, Logger: c.Logger}
	l, cached, err := runner.LayoutWithCacheInfo(ctx, s, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	if output == "-" {
		_, err := fmt.Fprintln(stdout, string(data))
		return err
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(l, cached)
	if !quiet && len(l.Positions) > 0 {
		fmt.Fprintln(stdout, placementsTable(l, s.WithOverrides(flags.overrides)))
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
