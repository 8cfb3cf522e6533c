package model

import (
	"errors"
	"strings"
)

// Order status values.  Legacy rows written by the first client
// generation used lowercase spellings; NormalizeOrderStatus maps
// them onto the closed uppercase set at the gateway boundary.
const (
	OrderOpen      = "OPEN"
	OrderPaid      = "PAID"
	OrderCancelled = "CANCELLED"
)

// Order item fulfillment status values.
const (
	ItemPending       = "PENDING"
	ItemInPreparation = "IN_PREPARATION"
	ItemReady         = "READY"
	ItemServed        = "SERVED"
	ItemCancelled     = "CANCELLED"
)

// ErrUnknownStatus is returned when a stored or submitted status
// string is outside the closed enumeration even after legacy
// normalization.
var ErrUnknownStatus = errors.New("unknown status value")

// NormalizeOrderStatus maps a stored order status onto the closed
// uppercase enumeration.  Lowercase legacy synonyms ("open", "paid",
// "cancelled") are accepted; anything else is an error.
func NormalizeOrderStatus(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case OrderOpen:
		return OrderOpen, nil
	case OrderPaid:
		return OrderPaid, nil
	case OrderCancelled:
		return OrderCancelled, nil
	}
	return "", ErrUnknownStatus
}

// NormalizeItemStatus maps a stored order item status onto the
// closed uppercase enumeration, accepting lowercase legacy rows.
func NormalizeItemStatus(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case ItemPending:
		return ItemPending, nil
	case ItemInPreparation:
		return ItemInPreparation, nil
	case ItemReady:
		return ItemReady, nil
	case ItemServed:
		return ItemServed, nil
	case ItemCancelled:
		return ItemCancelled, nil
	}
	return "", ErrUnknownStatus
}

// CanTransitionOrder reports whether an order may move from one
// status to another.  OPEN is the only non-terminal state.
func CanTransitionOrder(from, to string) bool {
	if from != OrderOpen {
		return false
	}
	return to == OrderPaid || to == OrderCancelled
}

// CanTransitionItem reports whether an order item may move from one
// fulfillment status to another.  The forward chain is
// PENDING → IN_PREPARATION → READY → SERVED; CANCELLED is reachable
// from any non-terminal state.  SERVED and CANCELLED are terminal.
func CanTransitionItem(from, to string) bool {
	if from == ItemServed || from == ItemCancelled {
		return false
	}
	if to == ItemCancelled {
		return true
	}
	switch from {
	case ItemPending:
		return to == ItemInPreparation
	case ItemInPreparation:
		return to == ItemReady
	case ItemReady:
		return to == ItemServed
	}
	return false
}
