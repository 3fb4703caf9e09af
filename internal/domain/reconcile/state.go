package reconcile

// State is a position of the report scanner
type State string

const (
	StateAwaitingItemHeader  State = "AWAITING_ITEM_HEADER"
	StateConsumingGodownRows State = "CONSUMING_GODOWN_ROWS"
	StateDone                State = "DONE"
)

var validStates = map[State]bool{
	StateAwaitingItemHeader:  true,
	StateConsumingGodownRows: true,
	StateDone:                true,
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known scanner state
func (s State) IsValid() bool {
	return validStates[s]
}

// IsTerminal returns true once no info block is left to read
func (s State) IsTerminal() bool {
	return s == StateDone
}

// Trigger is the kind of the next info block seen by the scanner
type Trigger string

const (
	TriggerHeader       Trigger = "HEADER"
	TriggerContinuation Trigger = "CONTINUATION"
	TriggerExhausted    Trigger = "EXHAUSTED"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
