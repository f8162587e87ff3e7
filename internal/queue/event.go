// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// AccountEventsQueue is the durable queue account events are published to.
const AccountEventsQueue = "account.events"

type AccountEventType string

const (
	EventSignedUp AccountEventType = "signed_up"
	EventLoggedIn AccountEventType = "logged_in"
	EventDeleted  AccountEventType = "deleted"
	EventPromoted AccountEventType = "promoted"
	EventDemoted  AccountEventType = "demoted"
)

// AccountEvent is published when an account is created, logs in, is deleted,
// or changes permission level. Actor is the admin who made a permission
// change and is empty for self-service events.
type AccountEvent struct {
	Type       AccountEventType `json:"type"`
	Username   string           `json:"username"`
	Actor      string           `json:"actor,omitempty"`
	OccurredAt string           `json:"occurred_at"`
}

// NewAccountEvent stamps an event with the current UTC time.
func NewAccountEvent(typ AccountEventType, username, actor string) AccountEvent {
	return AccountEvent{
		Type:       typ,
		Username:   username,
		Actor:      actor,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
