package models

import (
	"errors"
	"fmt"
)

// Destination holds the channel addresses a notification targets. Absent
// channels are omitted from the JSON body entirely.
type Destination struct {
	Email string `json:"email,omitempty"`
	SMS   string `json:"sms,omitempty"`
}

// Message holds the rendered content, keyed identically to Destination.
type Message struct {
	Email string `json:"email,omitempty"`
	SMS   string `json:"sms,omitempty"`
}

// NotificationPayload is the unit published on the outbound queue and consumed
// by the channel-delivery workers.
type NotificationPayload struct {
	Destination Destination `json:"destination"`
	Message     Message     `json:"message"`
	Subject     string      `json:"subject"`
}

var errOrphanDestination = errors.New("destination without rendered message")

// Validate checks the composer invariant: every present destination key must
// have non-empty rendered content under the same key.
func (n *NotificationPayload) Validate() error {
	if n.Destination.Email == "" && n.Destination.SMS == "" {
		return errors.New("notification has no destination")
	}
	if n.Destination.Email != "" && n.Message.Email == "" {
		return fmt.Errorf("%w: email", errOrphanDestination)
	}
	if n.Destination.SMS != "" && n.Message.SMS == "" {
		return fmt.Errorf("%w: sms", errOrphanDestination)
	}
	return nil
}
