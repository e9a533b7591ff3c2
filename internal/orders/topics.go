package orders

const TopicOrderEvents = "order-events"

// Partition key = order_id, so every event for one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
