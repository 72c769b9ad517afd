package services

import (
	"context"
	"time"

	"github.com/dcortes/mailsweep/internal/agent"
)

// ChatService orchestrates the interactive chat session: one outbound agent
// call at a time, demultiplexed into transcript, preview batch, selection
// and activity log updates
type ChatService interface {
	Submit(ctx context.Context, utterance string) error
	DeleteSelected(ctx context.Context) error
	Messages() []ChatMessage
	Previews() []agent.EmailPreview
	ToggleSelection(id string)
	SelectAllOrNone()
	SelectedIDs() []string
	InFlight() bool
	LastError() string
	ClearError()
}

// CleanupService runs the periodic cleanup agent, either for real or as a
// dry run
type CleanupService interface {
	RunNow(ctx context.Context) (*agent.PeriodicResult, error)
	TestRun(ctx context.Context) (*agent.PeriodicResult, error)
	InFlight() bool
	LastError() string
	ClearError()
}

// ActivityService keeps the bounded, newest-first log of cleanup outcomes
type ActivityService interface {
	Record(ctx context.Context, action string, emailsDeleted int, status ActivityStatus)
	Entries() []ActivityLogEntry
}

// SettingsService owns the user's cleanup policy with load-with-defaults
// and explicit save semantics
type SettingsService interface {
	Load(ctx context.Context) CleanupSettings
	Save(ctx context.Context, draft CleanupSettings) error
	Current() CleanupSettings
	SavedRecently(now time.Time) bool
}

// StatePersister abstracts durable persistence of settings and the activity
// log. Implementations absorb storage failures: reads degrade to the zero
// result, writes are dropped silently
type StatePersister interface {
	LoadSettings(ctx context.Context) (CleanupSettings, bool)
	SaveSettings(ctx context.Context, settings CleanupSettings)
	LoadActivityLog(ctx context.Context) []ActivityLogEntry
	SaveActivityLog(ctx context.Context, entries []ActivityLogEntry)
}

// Data structures

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single transcript entry. The transcript is append-only
// and lives only for the session
type ChatMessage struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// ActivityStatus marks an activity entry as a success or an error outcome
type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusError   ActivityStatus = "error"
)

// ActivityLogEntry records one terminal cleanup outcome. Entries are
// immutable once created
type ActivityLogEntry struct {
	ID            string         `json:"id"`
	Timestamp     string         `json:"timestamp"`
	Action        string         `json:"action"`
	EmailsDeleted int            `json:"emails_deleted"`
	Status        ActivityStatus `json:"status"`
}

// maxActivityEntries bounds the activity log; older entries are dropped
const maxActivityEntries = 50

// Frequency is the cleanup schedule cadence
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyDisabled Frequency = "disabled"
)

// CleanupSettings is the user's cleanup policy. A loaded record is always
// complete and valid; unreadable storage falls back to the default record
type CleanupSettings struct {
	Promotional         bool      `json:"promotional"`
	OldEmails           bool      `json:"old_emails"`
	AgeThresholdDays    int       `json:"age_threshold_days"`
	ScheduleEnabled     bool      `json:"schedule_enabled"`
	Frequency           Frequency `json:"frequency"`
	ScheduleTime        string    `json:"schedule_time"`
	RequireConfirmation bool      `json:"require_confirmation"`
	MaxEmailsPerRun     int       `json:"max_emails_per_run"`
}

// DefaultCleanupSettings returns the fixed default policy used when nothing
// valid is persisted
func DefaultCleanupSettings() CleanupSettings {
	return CleanupSettings{
		Promotional:         true,
		OldEmails:           false,
		AgeThresholdDays:    30,
		ScheduleEnabled:     false,
		Frequency:           FrequencyWeekly,
		ScheduleTime:        "09:00",
		RequireConfirmation: true,
		MaxEmailsPerRun:     100,
	}
}
