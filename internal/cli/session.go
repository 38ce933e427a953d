package cli

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/scene"
)

// session keeps one scene bound to a live coordinator, for the commands that
// react to changes (watch, preview). The coordinator always listens to the
// session's viewport, so resizing the viewport re-runs the layout.
type session struct {
	path      string
	overrides scene.Overrides
	logger    *log.Logger

	scene *scene.Scene
	host  *scene.Host
	m     *masonry.Masonry
}

func openSession(path string, overrides scene.Overrides, logger *log.Logger) (*session, error) {
	s := &session{path: path, overrides: overrides, logger: logger}
	sc, err := s.load()
	if err != nil {
		return nil, err
	}
	if err := s.bind(sc); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) load() (*scene.Scene, error) {
	sc, err := scene.Load(s.path)
	if err != nil {
		return nil, err
	}
	return sc.WithOverrides(s.overrides), nil
}

// bind builds a fresh host and coordinator for sc.
func (s *session) bind(sc *scene.Scene) error {
	h := sc.Build()
	cfg := sc.Config()
	cfg.AutoResize = true
	m, err := masonry.New(h.Document, cfg,
		masonry.WithViewport(h.Viewport),
		masonry.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}
	if s.m != nil {
		s.m.Close()
	}
	s.scene, s.host, s.m = sc, h, m
	return nil
}

// reload re-reads the scene file. A change of cell size or options rebinds
// the coordinator; otherwise the items and width are synced into the existing
// host and a forced pass is run. The previous layout stays in place when the
// new scene cannot be loaded or packed.
func (s *session) reload() error {
	sc, err := s.load()
	if err != nil {
		return err
	}
	if sc.Config() != s.scene.Config() {
		s.logger.Debug("scene configuration changed, rebinding", "path", s.path)
		return s.bind(sc)
	}

	prev := s.scene
	sc.Sync(s.host)
	if _, err := s.m.Update(true); err != nil {
		prev.Sync(s.host)
		if _, rerr := s.m.Update(true); rerr != nil {
			s.logger.Error("restoring previous layout failed", "err", rerr)
		}
		return fmt.Errorf("layout: %w", err)
	}
	s.scene = sc
	if sc.Viewport != prev.Viewport {
		s.host.Viewport.Resize(sc.Viewport.Width, sc.Viewport.Height)
	}
	return nil
}

// resize changes the container width and signals a viewport resize, which
// the coordinator picks up on its own.
func (s *session) resize(width float64) {
	_, h := s.host.Container.IntrinsicSize()
	s.host.Container.Resize(width, h)
	s.host.Viewport.Resize(width, s.host.Viewport.Height())
}

func (s *session) layout() masonry.Layout { return s.m.Layout() }

func (s *session) close() {
	if s.m != nil {
		s.m.Close()
	}
}
