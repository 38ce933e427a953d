package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
)

// watchDebounce collapses the burst of events editors emit for one save.
const watchDebounce = 150 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var flags sceneFlags

	cmd := &cobra.Command{
		Use:   "watch [scene]",
		Short: "Re-run the layout whenever the scene file changes",
		Long: `Re-run the layout whenever the scene file changes.

The scene is bound to a live coordinator. Each save re-reads the file,
replaces the items and re-packs them; a change of the viewport size is
delivered as a resize signal. The occupancy grid is printed after every pass.
Invalid edits are reported and the previous layout is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], flags, nil)
		},
	}
	flags.register(cmd)
	return cmd
}

// runWatch blocks until ctx is done. passed, if set, is called after every
// reload attempt with its error.
func (c *CLI) runWatch(ctx context.Context, path string, flags sceneFlags, passed func(error)) error {
	sess, err := openSession(path, flags.overrides, c.Logger)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	defer sess.close()
	printPass(sess)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	printInfo("Watching %s (ctrl+c to stop)", path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			c.Logger.Debug("scene changed", "path", ev.Name, "op", ev.Op.String())
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		case <-debounce:
			debounce = nil
			err := sess.reload()
			if err != nil {
				printWarning("%v", err)
				printDetail("keeping the previous layout")
			} else {
				printPass(sess)
			}
			if passed != nil {
				passed(err)
			}
		}
	}
}

func printPass(sess *session) {
	l := sess.layout()
	printNewline()
	fmt.Fprint(stdout, render.RenderText(l, pipeline.RenderOptions(sess.scene)...))
	printStats(l, false)
}
