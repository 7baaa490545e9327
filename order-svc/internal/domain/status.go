package domain

import (
	"time"

	"tablebook/access"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusAccepted       Status = "accepted"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

type transitionRule struct {
	to    Status
	roles []access.Role
}

var (
	vendorOrAdmin = []access.Role{access.RoleVendor, access.RoleAdmin}
	adminOnly     = []access.Role{access.RoleAdmin}
)

// transitions is the whole order state machine. Ownership is checked
// separately by access.CanAccess; this table only answers which role may move
// an order from one status to another.
var transitions = map[Status][]transitionRule{
	StatusPending: {
		{to: StatusAccepted, roles: vendorOrAdmin},
		{to: StatusCancelled, roles: []access.Role{access.RoleVendor, access.RoleAdmin, access.RoleCustomer}},
	},
	StatusAccepted: {
		{to: StatusPreparing, roles: vendorOrAdmin},
		{to: StatusCancelled, roles: vendorOrAdmin},
	},
	StatusPreparing: {
		{to: StatusOutForDelivery, roles: vendorOrAdmin},
		{to: StatusCancelled, roles: adminOnly},
	},
	StatusOutForDelivery: {
		{to: StatusDelivered, roles: vendorOrAdmin},
		{to: StatusCancelled, roles: adminOnly},
	},
	StatusDelivered: {
		{to: StatusCompleted, roles: []access.Role{access.RoleCustomer, access.RoleAdmin}},
	},
}

func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	switch status {
	case StatusPending, StatusAccepted, StatusPreparing, StatusOutForDelivery,
		StatusDelivered, StatusCompleted, StatusCancelled:
		return status, true
	}
	return "", false
}

// Terminal reports whether no transition at all leaves the status.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func CanTransition(from, to Status, role access.Role) bool {
	for _, rule := range transitions[from] {
		if rule.to != to {
			continue
		}
		for _, allowed := range rule.roles {
			if allowed == role {
				return true
			}
		}
	}
	return false
}

// Transition applies a status change requested by actor. On error the order
// is left untouched.
func (o *Order) Transition(actor access.Actor, to Status, note string, at time.Time) (StatusEntry, error) {
	if err := access.Authorize(actor, o.CustomerID, o.VendorID); err != nil {
		return StatusEntry{}, err
	}
	if !CanTransition(o.Status, to, actor.Role) {
		return StatusEntry{}, ErrInvalidTransition
	}
	entry := StatusEntry{
		Status:    to,
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Note:      note,
		CreatedAt: at,
	}
	o.Status = to
	o.History = append(o.History, entry)
	return entry, nil
}
