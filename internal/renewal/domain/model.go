package domain

import (
	"time"
)

// Trigger names what invoked a renewal run.
type Trigger string

const (
	TriggerStartup  Trigger = "startup"
	TriggerInterval Trigger = "interval"
	TriggerManual   Trigger = "manual"
)

func (t Trigger) Valid() bool {
	switch t {
	case TriggerStartup, TriggerInterval, TriggerManual:
		return true
	}
	return false
}

// Reason explains why a candidate subscription was not renewed.
type Reason string

const (
	ReasonNotDueYet       Reason = "not-due-yet"
	ReasonAlreadyInvoiced Reason = "already-invoiced-this-month"
	ReasonPastEndDate     Reason = "past-end-date"
	ReasonNoLines         Reason = "no-lines"
)

type Skipped struct {
	ID      string   `json:"id"`
	Reasons []Reason `json:"reasons"`
}

type Failed struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type Renewed struct {
	ID          string `json:"id"`
	InvoiceID   string `json:"invoice_id"`
	InvoiceNo   string `json:"invoice_no"`
	TotalAmount int64  `json:"total_amount"`
}

// Run is one append-only run log record.
type Run struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Trigger    Trigger   `json:"trigger"`
	DurationMs int64     `json:"duration_ms"`
	Scanned    int       `json:"scanned"`
	Renewed    int       `json:"renewed"`
	Renewals   []Renewed `json:"renewals"`
	Skipped    []Skipped `json:"skipped"`
	Failed     []Failed  `json:"failed"`
	Error      string    `json:"error,omitempty"`
}

// History is the readable tail of a run log, newest first.
type History struct {
	Runs        []Run `json:"runs"`
	Malformed   int   `json:"malformed"`
	Unavailable bool  `json:"unavailable,omitempty"`
}

// Evaluation is the due-date policy verdict for one subscription.
type Evaluation struct {
	SubscriptionID string     `json:"subscription_id"`
	SubscriptionNo string     `json:"subscription_no,omitempty"`
	Due            bool       `json:"due"`
	Reasons        []Reason   `json:"reasons"`
	AnchorDay      int        `json:"anchor_day"`
	TargetDate     time.Time  `json:"target_date"`
	LastIssueDate  *time.Time `json:"last_issue_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	LineCount      int        `json:"line_count"`
}

type Inspection struct {
	AsOf       time.Time    `json:"as_of"`
	Scanned    int          `json:"scanned"`
	Due        int          `json:"due"`
	Candidates []Evaluation `json:"candidates"`
}
