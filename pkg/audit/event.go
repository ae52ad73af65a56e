// Package audit provides append-only JSON-lines audit logging for
// neewerctl command invocations.
package audit

import (
	"fmt"
	"time"
)

// Event represents a single auditable neewerctl invocation: a delivery
// engine run, a status query, or a discovery scan.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`

	// Device is the selector expression the event targeted, e.g. "ALL",
	// "group:studio", or a literal address.
	Device    string `json:"device"`
	Operation string `json:"operation"`

	// Addresses lists the fixture addresses the selector resolved to.
	Addresses []string `json:"addresses,omitempty"`

	// Results maps address to failure message. An address present with an
	// empty value succeeded.
	Results map[string]string `json:"results,omitempty"`

	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	ExecuteMode bool          `json:"execute_mode"` // true if the command actually executed
	DryRun      bool          `json:"dry_run"`
	Duration    time.Duration `json:"duration"`
	ClientIP    string        `json:"client_ip,omitempty"`
	SessionID   string        `json:"session_id,omitempty"`
}

// EventType categorizes audit events by lifecycle stage.
type EventType string

const (
	EventTypeConnect     EventType = "connect"
	EventTypeDisconnect  EventType = "disconnect"
	EventTypePreview     EventType = "preview"
	EventTypeExecute     EventType = "execute"
	EventTypeStatusQuery EventType = "status_query"
	EventTypeDiscover    EventType = "discover"
)

// Severity indicates the importance of an audit event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Filter defines criteria for querying audit events.
type Filter struct {
	Device    string
	User      string
	Operation string
	Address   string
	StartTime time.Time
	EndTime   time.Time

	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event for a command run by user against
// device (a selector expression), under operation (e.g. "cct", "scene",
// "discover", "status").
func NewEvent(user, device, operation string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Device:    device,
		Operation: operation,
	}
}

// WithAddresses records the fixture addresses the selector resolved to.
func (e *Event) WithAddresses(addresses []string) *Event {
	e.Addresses = addresses
	return e
}

// WithResults records per-address outcomes. An empty string for an address
// means that fixture succeeded.
func (e *Event) WithResults(results map[string]string) *Event {
	e.Results = results
	return e
}

// WithSuccess marks the event as successful.
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed and records err's message.
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the operation duration.
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

// WithExecuteMode marks whether the command executed (true) or only
// previewed its delivery plan (false, DryRun).
func (e *Event) WithExecuteMode(execute bool) *Event {
	e.ExecuteMode = execute
	e.DryRun = !execute
	return e
}

// WithClientIP records the originating client address, for serve sessions
// accepting remote connections.
func (e *Event) WithClientIP(ip string) *Event {
	e.ClientIP = ip
	return e
}

// WithSessionID associates the event with an interactive serve session.
func (e *Event) WithSessionID(id string) *Event {
	e.SessionID = id
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
