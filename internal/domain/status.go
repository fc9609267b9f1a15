package domain

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// next holds the single forward edge out of each non-terminal status.
var next = map[OrderStatus]OrderStatus{
	StatusPending:        StatusConfirmed,
	StatusConfirmed:      StatusPreparing,
	StatusPreparing:      StatusReady,
	StatusReady:          StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// cancellable holds the statuses from which the cancelled side-branch is
// reachable.
var cancellable = map[OrderStatus]bool{
	StatusPending:   true,
	StatusConfirmed: true,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether moving from one status to another follows an
// edge of the lifecycle graph. Statuses only move forward one step at a time;
// cancellation is allowed from pending or confirmed only.
func CanTransition(from, to OrderStatus) bool {
	if to == StatusCancelled {
		return cancellable[from]
	}
	return next[from] == to
}

func (s OrderStatus) Cancellable() bool {
	return cancellable[s]
}
