// Package fsm is a small synchronous state machine: flat states, event-keyed
// transitions with guards and actions, entry/exit actions.
//
// Send runs to completion before returning. There is no queue and no
// goroutine; callers dispatch one event at a time.
package fsm

import (
	"errors"
	"fmt"
)

type StateID int
type EventID int

type Event struct {
	ID      EventID
	Payload any
}

type Action func(evt *Event, from StateID, to StateID) error
type Guard func(evt *Event, from StateID, to StateID) bool

var (
	ErrNoStates      = errors.New("no states provided")
	ErrNilState      = errors.New("nil state")
	ErrDuplicateID   = errors.New("duplicate state ID")
	ErrManyInitial   = errors.New("more than one initial state")
	ErrNotStarted    = errors.New("machine not started")
	ErrUnknownTarget = errors.New("transition target not registered")
)

type State struct {
	ID          StateID
	Name        string
	Transitions []*Transition
	EntryAction Action
	ExitAction  Action
	Initial     bool
}

type Transition struct {
	Event  EventID
	Source *State
	Target *State // nil --> internal transition
	Guard  Guard  // nil --> always enabled
	Action Action // nil --> do nothing
}

// Machine holds a set of states and the current one.
type Machine struct {
	states  map[StateID]*State
	initial *State
	current *State
}

func (s *State) OnEntry(action Action) *State {
	s.EntryAction = action
	return s
}

func (s *State) OnExit(action Action) *State {
	s.ExitAction = action
	return s
}

// On adds a transition for event e. A nil target makes it internal: only the
// action runs, no exit/entry.
func (s *State) On(e EventID, target *State, guard Guard, action Action) *State {
	s.Transitions = append(s.Transitions, &Transition{
		Event:  e,
		Source: s,
		Target: target,
		Guard:  guard,
		Action: action,
	})
	return s
}

func (s *State) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("state(%d)", s.ID)
}

func NewMachine(states ...*State) (*Machine, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	m := &Machine{states: map[StateID]*State{}}

	for _, s := range states {
		if s == nil {
			return nil, ErrNilState
		}
		if _, exists := m.states[s.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, s.ID)
		}
		m.states[s.ID] = s
		if s.Initial {
			if m.initial != nil {
				return nil, ErrManyInitial
			}
			m.initial = s
		}
	}
	if m.initial == nil {
		m.initial = states[0] // First state is assigned as initial.
	}

	for _, s := range states {
		for _, t := range s.Transitions {
			if t == nil {
				continue
			}
			if t.Source == nil {
				t.Source = s
			}
			if t.Target != nil && m.states[t.Target.ID] != t.Target {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, t.Target)
			}
		}
	}

	return m, nil
}

// Start enters the initial state.
func (m *Machine) Start() error {
	m.current = m.initial
	return m.current.enter(nil, m.current.ID, m.current.ID)
}

// Current returns the active state, nil before Start.
func (m *Machine) Current() *State {
	return m.current
}

// Is reports whether the active state is id.
func (m *Machine) Is(id StateID) bool {
	return m.current != nil && m.current.ID == id
}

// Send dispatches evt to the first enabled transition of the current state.
// It reports whether a transition fired; an event with no enabled transition
// is not an error.
func (m *Machine) Send(evt Event) (bool, error) {
	if m.current == nil {
		return false, ErrNotStarted
	}

	t := m.pickTransition(m.current, &evt)
	if t == nil {
		return false, nil
	}

	next, err := t.fire(&evt)
	m.current = next
	return true, err
}

// pickTransition grabs the first transition, in declaration order, whose
// event matches and whose guard passes.
func (m *Machine) pickTransition(s *State, evt *Event) *Transition {
	for _, t := range s.Transitions {
		if t == nil || t.Event != evt.ID {
			continue
		}
		if t.Guard != nil && !t.Guard(evt, s.ID, t.targetID()) {
			continue
		}
		return t
	}
	return nil
}

func (t *Transition) targetID() StateID {
	if t.Target == nil {
		return t.Source.ID
	}
	return t.Target.ID
}

func (s *State) enter(evt *Event, from, to StateID) error {
	if s.EntryAction != nil {
		return s.EntryAction(evt, from, to)
	}
	return nil
}

func (s *State) exit(evt *Event, from, to StateID) error {
	if s.ExitAction != nil {
		return s.ExitAction(evt, from, to)
	}
	return nil
}

// fire runs the transition and returns the resulting state.
func (t *Transition) fire(evt *Event) (*State, error) {
	from, to := t.Source.ID, t.targetID()

	if t.Target == nil {
		if t.Action != nil {
			return t.Source, t.Action(evt, from, to)
		}
		return t.Source, nil
	}

	if err := t.Source.exit(evt, from, to); err != nil {
		return t.Source, err
	}

	if t.Action != nil {
		if err := t.Action(evt, from, to); err != nil {
			// Rewind: re-enter the source state.
			if rerr := t.Source.enter(nil, from, to); rerr != nil {
				return t.Source, errors.Join(err, rerr)
			}
			return t.Source, err
		}
	}

	if err := t.Target.enter(evt, from, to); err != nil {
		return t.Source, err
	}
	return t.Target, nil
}
