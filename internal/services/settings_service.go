package services

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"
)

// savedSignalWindow is how long the transient "saved" confirmation stays
// visible after a successful save
const savedSignalWindow = 3 * time.Second

var scheduleTimeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate checks that every field holds one of its allowed values
func (s CleanupSettings) Validate() error {
	switch s.AgeThresholdDays {
	case 7, 14, 30, 60, 90:
	default:
		return fmt.Errorf("%w: %d days", ErrInvalidAgeThreshold, s.AgeThresholdDays)
	}
	switch s.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyDisabled:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, s.Frequency)
	}
	if !scheduleTimeRe.MatchString(s.ScheduleTime) {
		return fmt.Errorf("%w: %q", ErrInvalidScheduleTime, s.ScheduleTime)
	}
	switch s.MaxEmailsPerRun {
	case 50, 100, 200, 500:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMaxPerRun, s.MaxEmailsPerRun)
	}
	return nil
}

// SettingsServiceImpl implements SettingsService
type SettingsServiceImpl struct {
	mu          sync.Mutex
	current     CleanupSettings
	loaded      bool
	lastSavedAt time.Time
	persister   StatePersister
	logger      *zap.Logger
	now         func() time.Time
}

// NewSettingsService creates a settings store backed by the given persister
func NewSettingsService(persister StatePersister, logger *zap.Logger) *SettingsServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsServiceImpl{
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
}

// Load returns the persisted settings, falling back to the default record
// when nothing valid is stored. The result is always complete
func (s *SettingsServiceImpl) Load(ctx context.Context) CleanupSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := DefaultCleanupSettings()
	if s.persister != nil {
		if stored, ok := s.persister.LoadSettings(ctx); ok {
			if err := stored.Validate(); err != nil {
				s.logger.Warn("persisted settings invalid, using defaults", zap.Error(err))
			} else {
				settings = stored
			}
		}
	}
	s.current = settings
	s.loaded = true
	return settings
}

// Save validates and persists exactly the given draft with no merging.
// Storage write failures are absorbed by the persister and never surface
func (s *SettingsServiceImpl) Save(ctx context.Context, draft CleanupSettings) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = draft
	s.loaded = true
	s.lastSavedAt = s.now()
	s.mu.Unlock()

	if s.persister != nil {
		s.persister.SaveSettings(ctx, draft)
	}
	return nil
}

// Current returns the in-memory settings, loading defaults first if nothing
// has been loaded yet
func (s *SettingsServiceImpl) Current() CleanupSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.current = DefaultCleanupSettings()
		s.loaded = true
	}
	return s.current
}

// SavedRecently reports whether the transient saved confirmation should
// still be shown at the given instant
func (s *SettingsServiceImpl) SavedRecently(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSavedAt.IsZero() {
		return false
	}
	return now.Sub(s.lastSavedAt) < savedSignalWindow
}
