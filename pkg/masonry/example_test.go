package masonry_test

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/host"
	"github.com/matzehuels/masonry/pkg/host/memory"
	"github.com/matzehuels/masonry/pkg/masonry"
)

func Example() {
	doc := memory.NewDocument()
	container := memory.NewElement("gallery", 310, 0)
	container.Append(
		memory.NewElement("a", 100, 100),
		memory.NewElement("b", 200, 200),
		memory.NewElement("c", 100, 100),
		memory.NewElement("d", 100, 100),
	)
	doc.Register("gallery", container)

	m, err := masonry.New(doc, masonry.Config{
		ContainerID: "gallery",
		ColWidth:    100,
		RowHeight:   100,
	}, masonry.WithLogger(log.New(io.Discard)))
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, el := range container.Items() {
		fmt.Printf("%s: top=%s left=%s\n", el.Name(), el.Style(host.Top), el.Style(host.Left))
	}
	fmt.Println("container:", container.Style(host.Width), "x", container.Style(host.Height))
	fmt.Println("columns:", m.Layout().Columns)
	// Output:
	// a: top=0px left=0px
	// b: top=0px left=100px
	// c: top=100px left=0px
	// d: top=200px left=0px
	// container: 300px x 300px
	// columns: 3
}
