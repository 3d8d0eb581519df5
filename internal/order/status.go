package order

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPackaging OrderStatus = "packaging"
	StatusInTransit OrderStatus = "in transit"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// statusRank orders the fulfillment pipeline. Cancelled sits outside the
// pipeline and is reachable from any non-terminal state.
var statusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusPackaging: 1,
	StatusInTransit: 2,
	StatusDelivered: 3,
}

// ParseStatus validates a caller-supplied status value.
func ParseStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusPackaging, StatusInTransit, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to
// another. Transitions are monotonic: any strictly forward target in the
// pipeline is allowed (skipping intermediate states is permitted),
// backward moves never are, and cancellation is allowed from every
// non-terminal state.
func CanTransition(from, to OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}

	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
