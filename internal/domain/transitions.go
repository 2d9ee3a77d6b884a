package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStateTransition is returned when an action is not allowed from the booking's current status
	ErrInvalidStateTransition = errors.New("domain: invalid state transition")

	// ErrNotAuthorized is returned when the actor may not perform the action on the booking
	ErrNotAuthorized = errors.New("domain: actor is not allowed to perform this action")
)

// Role of the party performing an action
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleSystem   Role = "system"
)

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleVendor || r == RoleSystem
}

// Actor identifies who performs an operation
type Actor struct {
	UserID int64
	Role   Role
}

// SystemActor is used by scheduled jobs
func SystemActor() Actor {
	return Actor{Role: RoleSystem}
}

// Action is a booking lifecycle operation
type Action string

const (
	ActionRequest            Action = "request"
	ActionAccept             Action = "accept"
	ActionReject             Action = "reject"
	ActionProposeAlternative Action = "propose_alternative"
	ActionAcceptAlternative  Action = "accept_alternative"
	ActionExpireAlternative  Action = "expire_alternative"
	ActionStart              Action = "start"
	ActionComplete           Action = "complete"
	ActionCancel             Action = "cancel"
)

// Transition describes one row of the lifecycle table
type Transition struct {
	From  []BookingStatus
	To    BookingStatus
	Roles []Role
}

// transitions is the single source of truth for the booking lifecycle.
// ActionRequest has no From: it creates the booking.
var transitions = map[Action]Transition{
	ActionRequest: {
		To:    StatusPending,
		Roles: []Role{RoleCustomer},
	},
	ActionAccept: {
		From:  []BookingStatus{StatusPending},
		To:    StatusAccepted,
		Roles: []Role{RoleVendor},
	},
	ActionReject: {
		From:  []BookingStatus{StatusPending},
		To:    StatusRejected,
		Roles: []Role{RoleVendor},
	},
	ActionProposeAlternative: {
		From:  []BookingStatus{StatusPending},
		To:    StatusAlternativeProposed,
		Roles: []Role{RoleVendor},
	},
	ActionAcceptAlternative: {
		From:  []BookingStatus{StatusAlternativeProposed},
		To:    StatusAlternativeAccepted,
		Roles: []Role{RoleCustomer},
	},
	ActionExpireAlternative: {
		From:  []BookingStatus{StatusAlternativeProposed},
		To:    StatusAlternativeExpired,
		Roles: []Role{RoleSystem},
	},
	ActionStart: {
		From:  []BookingStatus{StatusAccepted, StatusAlternativeAccepted},
		To:    StatusInProgress,
		Roles: []Role{RoleVendor},
	},
	ActionComplete: {
		From:  []BookingStatus{StatusInProgress},
		To:    StatusCompleted,
		Roles: []Role{RoleVendor},
	},
	ActionCancel: {
		From: []BookingStatus{
			StatusPending,
			StatusAccepted,
			StatusAlternativeProposed,
			StatusAlternativeAccepted,
		},
		To:    StatusCancelled,
		Roles: []Role{RoleCustomer, RoleVendor},
	},
}

// LookupTransition returns the table row for the action
func LookupTransition(action Action) (Transition, bool) {
	t, ok := transitions[action]
	return t, ok
}

// Actions returns every action of the table
func Actions() []Action {
	actions := make([]Action, 0, len(transitions))
	for a := range transitions {
		actions = append(actions, a)
	}
	return actions
}

// allows reports whether the transition may start from status
func (t Transition) allows(status BookingStatus) bool {
	for _, from := range t.From {
		if from == status {
			return true
		}
	}
	return false
}

// permits reports whether the role may perform the transition
func (t Transition) permits(role Role) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// NextStatus resolves the target status of action from the current status.
// The error wraps ErrInvalidStateTransition and names both the status and the action.
func NextStatus(current BookingStatus, action Action) (BookingStatus, error) {
	t, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidStateTransition, action)
	}
	if !t.allows(current) {
		return "", fmt.Errorf("%w: cannot %s booking in status %s", ErrInvalidStateTransition, action, current)
	}
	return t.To, nil
}

// Authorize is the single authorization predicate for lifecycle actions.
// The actor's role must be listed for the action and the actor must own
// the booking through the field that matches the role.
func Authorize(action Action, actor Actor, b *Booking) error {
	t, ok := transitions[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrNotAuthorized, action)
	}
	if !t.permits(actor.Role) {
		return fmt.Errorf("%w: role %s cannot %s", ErrNotAuthorized, actor.Role, action)
	}

	switch actor.Role {
	case RoleCustomer:
		if b.CustomerID != actor.UserID {
			return fmt.Errorf("%w: user %d is not the customer of the booking", ErrNotAuthorized, actor.UserID)
		}
	case RoleVendor:
		if b.VendorID != actor.UserID {
			return fmt.Errorf("%w: user %d is not the vendor of the booking", ErrNotAuthorized, actor.UserID)
		}
	case RoleSystem:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrNotAuthorized, actor.Role)
	}

	return nil
}
