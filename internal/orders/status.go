package orders

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusInTransit  Status = "InTransit"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var ErrIllegalTransition = errors.New("illegal status transition")

var validNext = map[Status]map[Status]bool{
	StatusProcessing: {StatusInTransit: true, StatusDelivered: true, StatusCancelled: true},
	StatusInTransit:  {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

var labels = map[Status]string{
	StatusProcessing: "Procesando",
	StatusInTransit:  "En camino",
	StatusDelivered:  "Entregado",
	StatusCancelled:  "Cancelado",
}

// CanTransition allows staying in the same status so delivery-only edits pass.
func CanTransition(from, to Status) bool {
	if from == to {
		return from.Valid()
	}
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

// Label is the customer-facing name of the status.
func (s Status) Label() string { return labels[s] }

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}
