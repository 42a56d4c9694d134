package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// Routing keys for catalog events.
const (
	ProductCreated      = "product.created"
	ProductUpdated      = "product.updated"
	ProductStockUpdated = "product.stock_updated"
	ProductDeleted      = "product.deleted"
)

// Event is the message body published for every catalog change.
type Event struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	Status     string    `json:"status,omitempty"`
	Stock      *int      `json:"stock,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// DecodeEvent parses a message body into an Event.
func DecodeEvent(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode catalog event: %w", err)
	}
	if event.Type == "" || event.ProductID == "" {
		return Event{}, fmt.Errorf("catalog event is missing type or productId")
	}
	return event, nil
}

// HandleCatalogMessage logs a catalog event delivered by the broker.
func HandleCatalogMessage(msg amqp.Delivery) error {
	event, err := DecodeEvent(msg.Body)
	if err != nil {
		return err
	}
	if event.Stock != nil {
		log.Printf("Catalog event %s for product %s (status %q, stock %d)", event.Type, event.ProductID, event.Status, *event.Stock)
		return nil
	}
	log.Printf("Catalog event %s for product %s", event.Type, event.ProductID)
	return nil
}
