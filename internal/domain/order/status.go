package order

import "fmt"

// Status is the lifecycle state of an order. The upstream API models
// assignment as a status value in its own right, so the enum carries it even
// though assignment is conceptually an attribute of an accepted order.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusAccepted  Status = "accepted"
	StatusAssigned  Status = "assigned"
	StatusCancelled Status = "cancelled"
	StatusDelivered Status = "delivered"
)

// Action is an operator intent against an order.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionCancel  Action = "cancel"
	ActionAssign  Action = "assign"
	ActionDeliver Action = "deliver"
)

// ErrInvalidTransition reports a lifecycle action that is not permitted from
// the order's current status.
type ErrInvalidTransition struct {
	From   Status
	Action Action
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s order in status %q", e.Action, e.From)
}

// transitions is the full lifecycle table. Statuses absent from the map are
// terminal.
var transitions = map[Status]map[Action]Status{
	StatusPlaced: {
		ActionAccept: StatusAccepted,
		ActionCancel: StatusCancelled,
	},
	StatusAccepted: {
		ActionAssign:  StatusAssigned,
		ActionDeliver: StatusDelivered,
	},
	StatusAssigned: {
		ActionDeliver: StatusDelivered,
	},
}

// CanTransition reports whether the action is permitted from the status.
func CanTransition(from Status, action Action) bool {
	_, ok := transitions[from][action]
	return ok
}

// Next returns the status resulting from applying the action. The server is
// the final authority on lifecycle enforcement; this table only lets callers
// refuse a dispatch that is certain to be rejected.
func Next(from Status, action Action) (Status, error) {
	next, ok := transitions[from][action]
	if !ok {
		return "", &ErrInvalidTransition{From: from, Action: action}
	}
	return next, nil
}

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
