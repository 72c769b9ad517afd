package agent

import (
	"encoding/json"
	"fmt"
)

// Agent identifiers understood by the gateway. The caller picks the result
// decoder by which agent it invoked, never by sniffing the payload.
const (
	// InteractiveAgentID handles free-text chat instructions and returns
	// email previews plus deletion counts.
	InteractiveAgentID = "inbox-assistant"

	// PeriodicAgentID executes policy-driven cleanup runs and returns a
	// cleanup summary.
	PeriodicAgentID = "cleanup-scheduler"
)

// Envelope is the outer wrapper every gateway call returns.
type Envelope struct {
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Response InnerResponse `json:"response"`
}

// InnerResponse carries the agent's own status and untyped result payload.
type InnerResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// StatusSuccess is the inner status value indicating the agent completed
// the instruction.
const StatusSuccess = "success"

// OK reports whether the envelope represents a fully successful agent call.
func (e *Envelope) OK() bool {
	return e != nil && e.Success && e.Response.Status == StatusSuccess
}

// ErrorMessage returns the most specific error text the envelope carries,
// preferring the agent's inner message over the outer error field.
func (e *Envelope) ErrorMessage() string {
	if e == nil {
		return ""
	}
	if e.Response.Message != "" {
		return e.Response.Message
	}
	return e.Error
}

// EmailPreview is a read-only email summary supplied by the interactive
// agent. The client never derives these fields locally.
type EmailPreview struct {
	ID       string `json:"id"`
	Sender   string `json:"sender"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
	Category string `json:"category,omitempty"`
}

// Criteria describes what the interactive agent matched on.
type Criteria struct {
	Sender    string   `json:"sender,omitempty"`
	DateRange string   `json:"date_range"`
	Category  string   `json:"category"`
	Keywords  []string `json:"keywords"`
}

// InteractiveResult is the typed payload returned by the interactive agent.
type InteractiveResult struct {
	Action               string         `json:"action"`
	EmailsFound          int            `json:"emails_found"`
	EmailsDeleted        int            `json:"emails_deleted"`
	CriteriaIdentified   Criteria       `json:"criteria_identified"`
	EmailPreview         []EmailPreview `json:"email_preview"`
	ConfirmationRequired bool           `json:"confirmation_required"`
	Message              string         `json:"message"`
}

// CleanupSummary aggregates a periodic cleanup run.
type CleanupSummary struct {
	TotalEmailsProcessed int     `json:"total_emails_processed"`
	TotalEmailsDeleted   int     `json:"total_emails_deleted"`
	RulesExecuted        int     `json:"rules_executed"`
	ExecutionTimeSeconds float64 `json:"execution_time_seconds"`
}

// RuleResult reports the outcome of a single cleanup rule.
type RuleResult struct {
	Rule          string `json:"rule"`
	EmailsMatched int    `json:"emails_matched"`
	EmailsDeleted int    `json:"emails_deleted"`
}

// PeriodicResult is the typed payload returned by the periodic agent.
type PeriodicResult struct {
	CleanupSummary   CleanupSummary `json:"cleanup_summary"`
	RulesResults     []RuleResult   `json:"rules_results"`
	NextScheduledRun string         `json:"next_scheduled_run"`
	Errors           []string       `json:"errors"`
}

// DecodeInteractiveResult parses the envelope payload as an interactive
// agent result.
func DecodeInteractiveResult(env *Envelope) (*InteractiveResult, error) {
	if env == nil || len(env.Response.Result) == 0 {
		return nil, fmt.Errorf("agent response has no result payload")
	}
	var result InteractiveResult
	if err := json.Unmarshal(env.Response.Result, &result); err != nil {
		return nil, fmt.Errorf("decode interactive result: %w", err)
	}
	return &result, nil
}

// DecodePeriodicResult parses the envelope payload as a periodic agent
// result.
func DecodePeriodicResult(env *Envelope) (*PeriodicResult, error) {
	if env == nil || len(env.Response.Result) == 0 {
		return nil, fmt.Errorf("agent response has no result payload")
	}
	var result PeriodicResult
	if err := json.Unmarshal(env.Response.Result, &result); err != nil {
		return nil, fmt.Errorf("decode periodic result: %w", err)
	}
	return &result, nil
}
