// services/order_transitions.go
package services

import "github.com/Vishnukant2275/easyorderin/entity"

type tableEffect int

const (
	tableKeep tableEffect = iota
	tableRelease
	tableOccupy
)

type transitionRule struct {
	requiresPayment bool
	table           tableEffect
}

// transitions lists every allowed edge. Backward edges are manual corrections by staff.
var transitions = map[entity.OrderStatus]map[entity.OrderStatus]transitionRule{
	entity.OrderPending: {
		entity.OrderPreparing: {requiresPayment: true},
		entity.OrderCancelled: {table: tableRelease},
	},
	entity.OrderPreparing: {
		entity.OrderServed:    {table: tableRelease},
		entity.OrderPending:   {},
		entity.OrderCancelled: {table: tableRelease},
	},
	entity.OrderServed: {
		entity.OrderPreparing: {table: tableOccupy},
	},
}

// lookupTransition returns the rule for from -> to, or a TransitionError.
func lookupTransition(from, to entity.OrderStatus) (transitionRule, error) {
	rule, ok := transitions[from][to]
	if !ok {
		return transitionRule{}, &TransitionError{From: string(from), To: string(to)}
	}
	return rule, nil
}

// CanTransition reports whether staff may move an order from one status to another.
func CanTransition(from, to entity.OrderStatus) bool {
	_, err := lookupTransition(from, to)
	return err == nil
}
