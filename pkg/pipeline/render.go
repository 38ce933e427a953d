package pipeline

import (
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/scene"
)

// RenderOptions derives renderer options from a scene: item names as labels,
// item colors, and the inversion flags.
func RenderOptions(s *scene.Scene) []render.Option {
	labels := make([]string, len(s.Items))
	colors := make([]string, len(s.Items))
	for i, it := range s.Items {
		labels[i] = it.Name
		colors[i] = it.Color
	}
	return []render.Option{
		render.WithLabels(labels),
		render.WithColors(colors),
		render.WithInvert(s.Options.InvertX, s.Options.InvertY),
	}
}

// RenderFromLayout renders every requested format.
func RenderFromLayout(l masonry.Layout, s *scene.Scene, formats []string) (map[string][]byte, error) {
	opts := RenderOptions(s)
	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := render.Render(f, l, opts...)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}
