package cli

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
)

var (
	previewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	previewErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var flags sceneFlags

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Show the layout in the terminal and re-pack it as the window resizes",
		Long: `Show the layout in the terminal.

The container is as wide as the terminal allows, one cell per four
characters. Resizing the window resizes the container and re-runs the
layout. Keys: ←/→ remove or add a column, r reloads the scene file, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newPreviewModel(args[0], flags)
			if err != nil {
				return err
			}
			defer m.sess.close()
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// =============================================================================
// previewModel - Interactive layout preview
// =============================================================================

type previewModel struct {
	sess    *session
	columns int
	errs    *lastLine
	status  string
}

func newPreviewModel(path string, flags sceneFlags) (previewModel, error) {
	errs := &lastLine{}
	logger := log.NewWithOptions(errs, log.Options{Level: log.ErrorLevel})
	sess, err := openSession(path, flags.overrides, logger)
	if err != nil {
		return previewModel{}, fmt.Errorf("load scene: %w", err)
	}
	return previewModel{sess: sess, columns: sess.layout().Columns, errs: errs}, nil
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.columns > 1 {
				m.setColumns(m.columns - 1)
			}
		case "right", "l":
			m.setColumns(m.columns + 1)
		case "r":
			if err := m.sess.reload(); err != nil {
				m.status = err.Error()
			} else {
				m.status = "reloaded " + m.sess.path
			}
		}
	case tea.WindowSizeMsg:
		m.setColumns(max(1, msg.Width/render.TextCellWidth))
	}
	return m, nil
}

// setColumns resizes the container to n cells; the coordinator re-packs in
// its resize callback.
func (m *previewModel) setColumns(n int) {
	m.columns = n
	m.errs.reset()
	m.sess.resize(float64(n) * m.sess.scene.Cell.Width)
	m.status = ""
}

func (m previewModel) View() string {
	var b strings.Builder
	l := m.sess.layout()

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s  %d columns · %d rows · %d placed",
		m.sess.scene.Container.ID, l.Columns, l.Rows, len(l.Positions))))
	b.WriteString("\n\n")
	b.WriteString(render.RenderText(l, pipeline.RenderOptions(m.sess.scene)...))
	b.WriteString("\n")

	if line := m.errs.String(); line != "" {
		b.WriteString(previewErrorStyle.Render(line))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(previewHelpStyle.Render("←/→ columns  r reload  q quit"))
	return b.String()
}

// lastLine is a log sink that keeps only the most recent line.
type lastLine struct {
	mu   sync.Mutex
	line string
}

func (w *lastLine) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s := strings.TrimSpace(string(bytes.TrimRight(p, "\n"))); s != "" {
		w.line = s
	}
	return len(p), nil
}

func (w *lastLine) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.line
}

func (w *lastLine) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.line = ""
}
