package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dcortes/mailsweep/internal/agent"
)

// CleanupServiceImpl implements CleanupService. It shares the chat
// orchestrator's call/response/record shape but targets the periodic agent,
// never touches the transcript or selection, and carries its own in-flight
// gate and error slot.
//
// RunNow and TestRun deliberately keep separate bodies: what each records
// in the activity log on success and on failure differs, and the asymmetry
// is a business rule, not an accident
type CleanupServiceImpl struct {
	gateway  agent.Gateway
	settings SettingsService
	activity ActivityService
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight bool
	lastErr  string
}

// NewCleanupService creates a periodic cleanup runner
func NewCleanupService(gateway agent.Gateway, settings SettingsService, activity ActivityService, logger *zap.Logger) *CleanupServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupServiceImpl{
		gateway:  gateway,
		settings: settings,
		activity: activity,
		logger:   logger,
	}
}

// buildInstruction serializes the current cleanup policy into an agent
// instruction, with an explicit dry-run qualifier when asked
func buildInstruction(s CleanupSettings, dryRun bool) string {
	var policies []string
	if s.Promotional {
		policies = append(policies, "promotional emails")
	}
	if s.OldEmails {
		policies = append(policies, fmt.Sprintf("emails older than %d days", s.AgeThresholdDays))
	}
	if len(policies) == 0 {
		policies = append(policies, "no categories (nothing enabled)")
	}

	var b strings.Builder
	b.WriteString("Run the configured inbox cleanup. Clean up: ")
	b.WriteString(strings.Join(policies, "; "))
	b.WriteString(fmt.Sprintf(". Delete at most %d emails in this run.", s.MaxEmailsPerRun))
	if dryRun {
		b.WriteString(" This is a dry run: report what would be deleted but do not delete anything.")
	}
	return b.String()
}

// acquireGate claims the in-flight gate and clears the error slot, or
// rejects when a run is already outstanding
func (s *CleanupServiceImpl) acquireGate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrRequestInFlight
	}
	s.inFlight = true
	s.lastErr = ""
	return nil
}

// RunNow executes a real cleanup run. Success records the deleted count;
// an agent-level failure records a zero-count error entry. Transport
// failures only set the error slot
func (s *CleanupServiceImpl) RunNow(ctx context.Context) (*agent.PeriodicResult, error) {
	if err := s.acquireGate(); err != nil {
		return nil, err
	}

	instruction := buildInstruction(s.settings.Current(), false)
	env, err := s.gateway.Call(ctx, instruction, agent.PeriodicAgentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.inFlight = false }()

	if err != nil {
		s.logger.Warn("cleanup run call failed", zap.Error(err))
		s.lastErr = transportErrorMessage
		return nil, err
	}
	if !env.OK() {
		msg := env.ErrorMessage()
		if msg == "" {
			msg = transportErrorMessage
		}
		s.lastErr = msg
		if s.activity != nil {
			s.activity.Record(ctx, fmt.Sprintf("Cleanup run failed: %s", msg), 0, ActivityStatusError)
		}
		return nil, fmt.Errorf("%w: %s", ErrAgentFailure, msg)
	}

	result, err := agent.DecodePeriodicResult(env)
	if err != nil {
		s.logger.Warn("unreadable cleanup run result", zap.Error(err))
		s.lastErr = transportErrorMessage
		return nil, err
	}

	if s.activity != nil {
		action := fmt.Sprintf("Scheduled cleanup run (%d rules)", result.CleanupSummary.RulesExecuted)
		s.activity.Record(ctx, action, result.CleanupSummary.TotalEmailsDeleted, ActivityStatusSuccess)
	}
	return result, nil
}

// TestRun executes a dry run. Success records a zero-count entry whose
// label carries how many emails would be affected; failures of any kind
// never write an activity entry
func (s *CleanupServiceImpl) TestRun(ctx context.Context) (*agent.PeriodicResult, error) {
	if err := s.acquireGate(); err != nil {
		return nil, err
	}

	instruction := buildInstruction(s.settings.Current(), true)
	env, err := s.gateway.Call(ctx, instruction, agent.PeriodicAgentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.inFlight = false }()

	if err != nil {
		s.logger.Warn("test run call failed", zap.Error(err))
		s.lastErr = transportErrorMessage
		return nil, err
	}
	if !env.OK() {
		msg := env.ErrorMessage()
		if msg == "" {
			msg = transportErrorMessage
		}
		s.lastErr = msg
		return nil, fmt.Errorf("%w: %s", ErrAgentFailure, msg)
	}

	result, err := agent.DecodePeriodicResult(env)
	if err != nil {
		s.logger.Warn("unreadable test run result", zap.Error(err))
		s.lastErr = transportErrorMessage
		return nil, err
	}

	if s.activity != nil {
		// A dry run never reports as a deletion, whatever the agent claims
		// it would have removed
		action := fmt.Sprintf("Test run: %d emails would be affected", result.CleanupSummary.TotalEmailsProcessed)
		s.activity.Record(ctx, action, 0, ActivityStatusSuccess)
	}
	return result, nil
}

// InFlight reports whether a periodic run is outstanding
func (s *CleanupServiceImpl) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// LastError returns the current error slot, empty when clear
func (s *CleanupServiceImpl) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError empties the error slot
func (s *CleanupServiceImpl) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}
