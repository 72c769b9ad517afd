package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcortes/mailsweep/internal/services"
)

func TestApplySetting_ValidEdits(t *testing.T) {
	draft := services.DefaultCleanupSettings()

	require.NoError(t, applySetting(&draft, "promotional", "false"))
	assert.False(t, draft.Promotional)

	require.NoError(t, applySetting(&draft, "old_emails", "true"))
	assert.True(t, draft.OldEmails)

	require.NoError(t, applySetting(&draft, "age", "90"))
	assert.Equal(t, 90, draft.AgeThresholdDays)

	require.NoError(t, applySetting(&draft, "frequency", "daily"))
	assert.Equal(t, services.FrequencyDaily, draft.Frequency)

	require.NoError(t, applySetting(&draft, "time", "18:30"))
	assert.Equal(t, "18:30", draft.ScheduleTime)

	require.NoError(t, applySetting(&draft, "max", "500"))
	assert.Equal(t, 500, draft.MaxEmailsPerRun)
}

func TestApplySetting_InvalidValueLeavesDraftUntouched(t *testing.T) {
	draft := services.DefaultCleanupSettings()
	before := draft

	assert.Error(t, applySetting(&draft, "age", "45"))
	assert.Error(t, applySetting(&draft, "frequency", "hourly"))
	assert.Error(t, applySetting(&draft, "time", "25:99"))
	assert.Error(t, applySetting(&draft, "max", "3"))
	assert.Error(t, applySetting(&draft, "promotional", "maybe"))

	assert.Equal(t, before, draft, "failed edits never leak into the draft")
}

func TestApplySetting_UnknownField(t *testing.T) {
	draft := services.DefaultCleanupSettings()
	assert.Error(t, applySetting(&draft, "color", "blue"))
}
