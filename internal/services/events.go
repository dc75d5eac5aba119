package services

import (
	"encoding/json"
	"log"
)

// EventPublisher is the narrow surface the services need from the message
// broker. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publishEvent sends a domain event best-effort. A broker failure is logged
// and never fails the request that produced the event.
func publishEvent(pub EventPublisher, routingKey string, payload map[string]interface{}) {
	if pub == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := pub.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
