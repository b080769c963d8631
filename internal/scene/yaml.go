package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/graphview/internal/geom"
)

var (
	ErrDuplicateID = errors.New("duplicate element id")
	ErrMissingID   = errors.New("element without id")
)

// elementDoc is the YAML form of an element:
//
//	id: n1
//	markers: [node]
//	position: {x: 0, y: 0}
//	children:
//	  - id: o1
//	    markers: [node-output]
//	    offset: {x: 80, y: 20}
type elementDoc struct {
	ID       string        `yaml:"id"`
	Markers  []Marker      `yaml:"markers,omitempty"`
	Position *geom.Point   `yaml:"position,omitempty"`
	Offset   *geom.Point   `yaml:"offset,omitempty"`
	Children []*elementDoc `yaml:"children,omitempty"`
}

// LoadYAML decodes a scene tree. Element IDs must be unique and non-empty.
// Unknown markers are kept; the engine ignores them.
func LoadYAML(r io.Reader) (*Element, error) {
	var doc elementDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	seen := make(map[string]bool)
	return build(&doc, seen)
}

// LoadYAMLFile is LoadYAML on a file.
func LoadYAMLFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	root, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func build(doc *elementDoc, seen map[string]bool) (*Element, error) {
	if doc.ID == "" {
		return nil, ErrMissingID
	}
	if seen[doc.ID] {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, doc.ID)
	}
	seen[doc.ID] = true

	el := NewElement(doc.ID, doc.Markers...)
	if doc.Position != nil {
		el.Position = *doc.Position
	}
	if doc.Offset != nil {
		el.Offset = *doc.Offset
	}
	for _, cd := range doc.Children {
		if cd == nil {
			continue
		}
		child, err := build(cd, seen)
		if err != nil {
			return nil, err
		}
		el.Append(child)
	}
	return el, nil
}
