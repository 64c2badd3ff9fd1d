package domain

import "time"

// NotificationEvent names one kind of outbound email.
type NotificationEvent string

const (
	EventRequestSubmitted  NotificationEvent = "request_submitted"
	EventRequestConfirmed  NotificationEvent = "request_confirmed"
	EventRequestAssigned   NotificationEvent = "request_assigned"
	EventRequestInProgress NotificationEvent = "request_in_progress"
	EventRequestCompleted  NotificationEvent = "request_completed"
	EventWelcome           NotificationEvent = "welcome"
	EventManual            NotificationEvent = "manual"
)

// EventForStatus returns the notification sent when a request enters s.
func EventForStatus(s RequestStatus) (NotificationEvent, bool) {
	switch s {
	case StatusSubmitted:
		return EventRequestSubmitted, true
	case StatusConfirmed:
		return EventRequestConfirmed, true
	case StatusAssigned:
		return EventRequestAssigned, true
	case StatusInProgress:
		return EventRequestInProgress, true
	case StatusCompleted:
		return EventRequestCompleted, true
	}
	return "", false
}

// Notification is a single email to be handed to the dispatch function.
type Notification struct {
	Event     NotificationEvent `json:"event"`
	To        string            `json:"to"`
	Name      string            `json:"name,omitempty"`
	Language  string            `json:"language,omitempty"`
	Reference string            `json:"reference,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Message   string            `json:"message,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// AuditEntry is a row in the audit log.
type AuditEntry struct {
	Action    string            `bson:"action"`
	Actor     string            `bson:"actor,omitempty"`
	Reference string            `bson:"reference,omitempty"`
	Details   map[string]string `bson:"details,omitempty"`
	At        time.Time         `bson:"at"`
}
