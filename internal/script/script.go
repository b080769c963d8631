// Package script replays recorded pointer gestures and scene edits against an
// engine. Scripts are YAML:
//
//	steps:
//	  - press: a
//	  - move: {x: 60, y: 30}
//	  - hover: i1
//	  - release: true
//	  - unmark: {id: o1, marker: node-output}
//	  - remove: n2
package script

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/scene"
)

var (
	ErrEmptyStep      = errors.New("step has no action")
	ErrAmbiguousStep  = errors.New("step has more than one action")
	ErrUnknownElement = errors.New("unknown element")
)

// Target receives replayed input. *graphview.Engine satisfies it.
type Target interface {
	OnPress(el *scene.Element)
	OnMove(dx, dy float64)
	OnRelease()
	OnHoverEnter(el *scene.Element)
	OnHoverLeave(el *scene.Element)
	OnSubtreeRemoved(root *scene.Element)
	OnMarkerAdded(el *scene.Element, m scene.Marker)
	OnMarkerRemoved(el *scene.Element, m scene.Marker)
	Drain() int
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Press   string        `yaml:"press,omitempty"`
	Move    *geom.Point   `yaml:"move,omitempty"`
	Hover   string        `yaml:"hover,omitempty"`
	Leave   string        `yaml:"leave,omitempty"`
	Release bool          `yaml:"release,omitempty"`
	Remove  string        `yaml:"remove,omitempty"`
	Mark    *MarkerChange `yaml:"mark,omitempty"`
	Unmark  *MarkerChange `yaml:"unmark,omitempty"`
}

// MarkerChange names an element and a marker.
type MarkerChange struct {
	ID     string       `yaml:"id"`
	Marker scene.Marker `yaml:"marker"`
}

func (s Step) String() string {
	switch {
	case s.Press != "":
		return "press " + s.Press
	case s.Move != nil:
		return "move " + s.Move.String()
	case s.Hover != "":
		return "hover " + s.Hover
	case s.Leave != "":
		return "leave " + s.Leave
	case s.Release:
		return "release"
	case s.Remove != "":
		return "remove " + s.Remove
	case s.Mark != nil:
		return fmt.Sprintf("mark %s [%s]", s.Mark.ID, s.Mark.Marker)
	case s.Unmark != nil:
		return fmt.Sprintf("unmark %s [%s]", s.Unmark.ID, s.Unmark.Marker)
	}
	return "empty"
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Press != "", s.Move != nil, s.Hover != "", s.Leave != "",
		s.Release, s.Remove != "", s.Mark != nil, s.Unmark != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks that every step carries exactly one action.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		switch st.actions() {
		case 0:
			return fmt.Errorf("step %d: %w", i, ErrEmptyStep)
		case 1:
		default:
			return fmt.Errorf("step %d: %w", i, ErrAmbiguousStep)
		}
	}
	return nil
}

// Load decodes and validates a script.
func Load(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads the script at path.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Run replays s against t, resolving element ids under root. onStep, if
// non-nil, is called after each step is applied.
func (s *Script) Run(t Target, root *scene.Element, onStep func(i int, st Step)) error {
	find := func(i int, id string) (*scene.Element, error) {
		if el := root.Find(id); el != nil {
			return el, nil
		}
		return nil, fmt.Errorf("step %d: %w: %q", i, ErrUnknownElement, id)
	}

	for i, st := range s.Steps {
		var (
			el  *scene.Element
			err error
		)
		switch {
		case st.Press != "":
			if el, err = find(i, st.Press); err == nil {
				t.OnPress(el)
			}
		case st.Move != nil:
			t.OnMove(st.Move.X, st.Move.Y)
		case st.Hover != "":
			if el, err = find(i, st.Hover); err == nil {
				t.OnHoverEnter(el)
			}
		case st.Leave != "":
			if el, err = find(i, st.Leave); err == nil {
				t.OnHoverLeave(el)
			}
		case st.Release:
			t.OnRelease()
		case st.Remove != "":
			if el, err = find(i, st.Remove); err == nil {
				if p := el.Parent(); p != nil {
					p.Remove(el)
				}
				t.OnSubtreeRemoved(el)
				t.Drain()
			}
		case st.Mark != nil:
			if el, err = find(i, st.Mark.ID); err == nil && el.AddMarker(st.Mark.Marker) {
				t.OnMarkerAdded(el, st.Mark.Marker)
				t.Drain()
			}
		case st.Unmark != nil:
			if el, err = find(i, st.Unmark.ID); err == nil && el.RemoveMarker(st.Unmark.Marker) {
				t.OnMarkerRemoved(el, st.Unmark.Marker)
				t.Drain()
			}
		default:
			err = fmt.Errorf("step %d: %w", i, ErrEmptyStep)
		}
		if err != nil {
			return err
		}
		if onStep != nil {
			onStep(i, st)
		}
	}
	return nil
}
