package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CleanupSettings)
		wantErr error
	}{
		{"defaults are valid", func(s *CleanupSettings) {}, nil},
		{"age 7 ok", func(s *CleanupSettings) { s.AgeThresholdDays = 7 }, nil},
		{"age 90 ok", func(s *CleanupSettings) { s.AgeThresholdDays = 90 }, nil},
		{"age 31 rejected", func(s *CleanupSettings) { s.AgeThresholdDays = 31 }, ErrInvalidAgeThreshold},
		{"age zero rejected", func(s *CleanupSettings) { s.AgeThresholdDays = 0 }, ErrInvalidAgeThreshold},
		{"frequency daily ok", func(s *CleanupSettings) { s.Frequency = FrequencyDaily }, nil},
		{"frequency disabled ok", func(s *CleanupSettings) { s.Frequency = FrequencyDisabled }, nil},
		{"frequency monthly rejected", func(s *CleanupSettings) { s.Frequency = "monthly" }, ErrInvalidFrequency},
		{"time midnight ok", func(s *CleanupSettings) { s.ScheduleTime = "00:00" }, nil},
		{"time 23:59 ok", func(s *CleanupSettings) { s.ScheduleTime = "23:59" }, nil},
		{"time 24:00 rejected", func(s *CleanupSettings) { s.ScheduleTime = "24:00" }, ErrInvalidScheduleTime},
		{"time 9:00 rejected", func(s *CleanupSettings) { s.ScheduleTime = "9:00" }, ErrInvalidScheduleTime},
		{"max 500 ok", func(s *CleanupSettings) { s.MaxEmailsPerRun = 500 }, nil},
		{"max 150 rejected", func(s *CleanupSettings) { s.MaxEmailsPerRun = 150 }, ErrInvalidMaxPerRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultCleanupSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestSettingsService_LoadDefaultsWhenNothingPersisted(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(&fakePersister{}, nil)

	settings := svc.Load(ctx)

	assert.Equal(t, DefaultCleanupSettings(), settings)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	persister := &fakePersister{}
	svc := NewSettingsService(persister, nil)

	draft := DefaultCleanupSettings()
	draft.OldEmails = true
	draft.AgeThresholdDays = 60
	draft.Frequency = FrequencyDaily
	draft.ScheduleTime = "22:30"
	draft.MaxEmailsPerRun = 500

	require.NoError(t, svc.Save(ctx, draft))

	reloaded := NewSettingsService(persister, nil)
	assert.Equal(t, draft, reloaded.Load(ctx), "load(save(s)) == s")
}

func TestSettingsService_SaveRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	persister := &fakePersister{}
	svc := NewSettingsService(persister, nil)

	draft := DefaultCleanupSettings()
	draft.AgeThresholdDays = 45

	err := svc.Save(ctx, draft)

	assert.ErrorIs(t, err, ErrInvalidAgeThreshold)
	assert.Equal(t, 0, persister.saveSetting, "invalid drafts never reach storage")
	assert.False(t, svc.SavedRecently(time.Now()))
}

func TestSettingsService_InvalidPersistedRecordFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	bad := DefaultCleanupSettings()
	bad.MaxEmailsPerRun = 9999
	svc := NewSettingsService(&fakePersister{settings: &bad}, nil)

	assert.Equal(t, DefaultCleanupSettings(), svc.Load(ctx))
}

func TestSettingsService_SavedRecentlyWindow(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(&fakePersister{}, nil)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	assert.False(t, svc.SavedRecently(base))

	require.NoError(t, svc.Save(ctx, DefaultCleanupSettings()))

	assert.True(t, svc.SavedRecently(base))
	assert.True(t, svc.SavedRecently(base.Add(2*time.Second)))
	assert.False(t, svc.SavedRecently(base.Add(4*time.Second)), "signal auto-clears")
}

func TestSettingsService_CurrentWithoutLoadReturnsDefaults(t *testing.T) {
	svc := NewSettingsService(&fakePersister{}, nil)
	assert.Equal(t, DefaultCleanupSettings(), svc.Current())
}
