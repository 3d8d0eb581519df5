package notify

// Event types pushed to connected clients.
const (
	EventNewOrder           = "newOrder"
	EventOrderStatusUpdated = "orderStatusUpdated"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher delivers events to a user's live subscriptions. Delivery is
// best-effort: implementations must never block or fail the caller.
type Publisher interface {
	Publish(userID uint, event Event)
}

// NopPublisher discards all events.
type NopPublisher struct{}

func (NopPublisher) Publish(userID uint, event Event) {}
