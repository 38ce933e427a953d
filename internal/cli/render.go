package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/scene"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   sceneFlags
		formats string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene's layout as SVG, PNG, PDF, DOT, JSON or text",
		Long: `Render a scene's layout.

Formats:
  svg   vector picture of the grid (Graphviz)
  png   raster picture of the grid (Graphviz)
  pdf   one page the size of the container
  dot   the Graphviz source
  json  the layout with item names and colors
  txt   the occupancy grid for a terminal ("-o -" prints it)

Several formats can be given at once: -f svg,pdf,txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := render.ParseFormats(formats)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags, fs, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.DefaultFormat, "output formats, comma separated: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension (default: next to the scene, - for stdout)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, flags sceneFlags, formats []string, output string) error {
	s, err := scene.Load(input)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	runner, err := c.newRunner(ctx, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")))
	sp.Start()
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, s, pipeline.Options{
		Overrides: flags.overrides,
		Formats:   formats,
		Logger:    c.Logger,
	})
	if err != nil {
		sp.StopWithError("Render failed")
		return err
	}
	sp.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "-" {
		for _, f := range formats {
			if _, err := stdout.Write(result.Artifacts[f]); err != nil {
				return err
			}
		}
		return nil
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	paths, err := writeArtifacts(base, formats, result.Artifacts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(paths)))

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Layout, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes one file per format, named base plus the format
// extension, and returns the paths in format order.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + render.Extension(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
