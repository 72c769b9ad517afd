package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityServiceImpl implements ActivityService
type ActivityServiceImpl struct {
	mu        sync.Mutex
	entries   []ActivityLogEntry
	persister StatePersister
	logger    *zap.Logger
	now       func() time.Time
}

// NewActivityService creates an activity recorder seeded from the persisted
// log
func NewActivityService(ctx context.Context, persister StatePersister, logger *zap.Logger) *ActivityServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ActivityServiceImpl{
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
	if persister != nil {
		s.entries = persister.LoadActivityLog(ctx)
		if len(s.entries) > maxActivityEntries {
			s.entries = s.entries[:maxActivityEntries]
		}
	}
	return s
}

// Record prepends a new outcome entry, truncates the log to its cap and
// persists the whole list. Recording never fails the action that triggered
// it: persistence problems are absorbed by the persister
func (s *ActivityServiceImpl) Record(ctx context.Context, action string, emailsDeleted int, status ActivityStatus) {
	if emailsDeleted < 0 {
		emailsDeleted = 0
	}
	entry := ActivityLogEntry{
		ID:            uuid.NewString(),
		Timestamp:     s.now().UTC().Format(time.RFC3339),
		Action:        action,
		EmailsDeleted: emailsDeleted,
		Status:        status,
	}

	s.mu.Lock()
	s.entries = append([]ActivityLogEntry{entry}, s.entries...)
	if len(s.entries) > maxActivityEntries {
		s.entries = s.entries[:maxActivityEntries]
	}
	snapshot := append([]ActivityLogEntry(nil), s.entries...)
	s.mu.Unlock()

	if s.persister != nil {
		s.persister.SaveActivityLog(ctx, snapshot)
	}
	s.logger.Debug("recorded activity",
		zap.String("action", action),
		zap.Int("emails_deleted", emailsDeleted),
		zap.String("status", string(status)))
}

// Entries returns a copy of the log, newest first
func (s *ActivityServiceImpl) Entries() []ActivityLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ActivityLogEntry(nil), s.entries...)
}
