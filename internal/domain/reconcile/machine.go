package reconcile

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a trigger is not permitted in the current state
var ErrInvalidTransition = errors.New("invalid state transition")

// StateMachine tracks the scanner state and validates transitions
type StateMachine interface {
	State() State
	CanFire(trigger Trigger) bool
	Fire(trigger Trigger) error
}

// StateMachineBuilder configures transitions and builds machines from them
type StateMachineBuilder interface {
	Configure(state State) StateConfiguration
	Build(initial State) StateMachine
}

// StateConfiguration configures the transitions out of one state
type StateConfiguration interface {
	Permit(trigger Trigger, to State) StateConfiguration
}

type stateConfig struct {
	transitions map[Trigger]State
}

type stateMachineBuilder struct {
	configurations map[State]*stateConfig
}

type stateMachine struct {
	current        State
	configurations map[State]*stateConfig
}

// NewBuilder creates an empty state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[State]*stateConfig),
	}
}

// Configure returns the configuration of a state, creating it on first use
func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	cfg, ok := b.configurations[state]
	if !ok {
		cfg = &stateConfig{transitions: make(map[Trigger]State)}
		b.configurations[state] = cfg
	}
	return cfg
}

// Build creates a machine that does not share configuration with the builder
func (b *stateMachineBuilder) Build(initial State) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initial))
	}

	configs := make(map[State]*stateConfig, len(b.configurations))
	for state, cfg := range b.configurations {
		transitions := make(map[Trigger]State, len(cfg.transitions))
		for trigger, to := range cfg.transitions {
			transitions[trigger] = to
		}
		configs[state] = &stateConfig{transitions: transitions}
	}

	return &stateMachine{
		current:        initial,
		configurations: configs,
	}
}

// Permit allows a trigger to move to the target state
func (c *stateConfig) Permit(trigger Trigger, to State) StateConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}
	c.transitions[trigger] = to
	return c
}

func (m *stateMachine) State() State {
	return m.current
}

func (m *stateMachine) CanFire(trigger Trigger) bool {
	cfg, ok := m.configurations[m.current]
	if !ok {
		return false
	}
	_, ok = cfg.transitions[trigger]
	return ok
}

func (m *stateMachine) Fire(trigger Trigger) error {
	cfg, ok := m.configurations[m.current]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from %s (no configuration)", ErrInvalidTransition, trigger, m.current)
	}
	to, ok := cfg.transitions[trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = to
	return nil
}

// scannerBuilder is the transition table of the report scanner.
// A header always hands control back to AwaitingItemHeader so the next
// name can claim it.
func scannerBuilder() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StateAwaitingItemHeader).
		Permit(TriggerHeader, StateConsumingGodownRows).
		Permit(TriggerContinuation, StateConsumingGodownRows).
		Permit(TriggerExhausted, StateDone)

	b.Configure(StateConsumingGodownRows).
		Permit(TriggerContinuation, StateConsumingGodownRows).
		Permit(TriggerHeader, StateAwaitingItemHeader).
		Permit(TriggerExhausted, StateDone)

	b.Configure(StateDone).
		Permit(TriggerExhausted, StateDone)

	return b
}
