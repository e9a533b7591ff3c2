package orders

const EventOrderCreated = "OrderCreated"

// OrderCreatedEvent is the wire payload published on TopicOrderEvents.
// Downstream consumers (notifier among them) decode exactly this shape,
// so the field names are part of the contract.
type OrderCreatedEvent struct {
	OrderID  string    `json:"orderId"`
	Email    string    `json:"email"`
	Products []Product `json:"products"`
}
