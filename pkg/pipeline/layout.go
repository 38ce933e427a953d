package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/scene"
)

// ComputeLayout validates the scene, builds a fresh host for it and runs one
// pass. The coordinator is closed before returning.
func ComputeLayout(s *scene.Scene, logger *log.Logger) (masonry.Layout, error) {
	if err := s.Validate(); err != nil {
		return masonry.Layout{}, err
	}
	h := s.Build()
	m, err := masonry.New(h.Document, s.Config(),
		masonry.WithViewport(h.Viewport),
		masonry.WithLogger(logger),
	)
	if err != nil {
		return masonry.Layout{}, err
	}
	defer m.Close()
	return m.Layout(), nil
}
