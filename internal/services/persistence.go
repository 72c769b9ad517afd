package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/dcortes/mailsweep/internal/store"
)

// Persisted state keys in the durable store
const (
	settingsStateKey    = "cleanup_settings"
	activityLogStateKey = "activity_log"
)

// StorePersister implements StatePersister on the SQLite state store.
// Storage failures never propagate: reads degrade to the zero result and
// writes are dropped, with a warn log either way
type StorePersister struct {
	store  *store.Store
	logger *zap.Logger
}

// NewStorePersister creates a persister backed by the given store
func NewStorePersister(st *store.Store, logger *zap.Logger) *StorePersister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorePersister{store: st, logger: logger}
}

// LoadSettings returns the persisted cleanup settings, with ok=false when
// the store is absent, unreadable or holds corrupt data
func (p *StorePersister) LoadSettings(ctx context.Context) (CleanupSettings, bool) {
	raw, found, err := p.store.Get(ctx, settingsStateKey)
	if err != nil {
		p.logger.Warn("failed to read settings, using defaults", zap.Error(err))
		return CleanupSettings{}, false
	}
	if !found {
		return CleanupSettings{}, false
	}
	var s CleanupSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		p.logger.Warn("corrupt settings record, using defaults", zap.Error(err))
		return CleanupSettings{}, false
	}
	return s, true
}

// SaveSettings persists the settings record as a whole blob
func (p *StorePersister) SaveSettings(ctx context.Context, settings CleanupSettings) {
	data, err := json.Marshal(settings)
	if err != nil {
		p.logger.Warn("failed to encode settings", zap.Error(err))
		return
	}
	if err := p.store.Set(ctx, settingsStateKey, string(data)); err != nil {
		p.logger.Warn("failed to persist settings", zap.Error(err))
	}
}

// LoadActivityLog returns the persisted activity log, or an empty list when
// the store is absent, unreadable or holds corrupt data
func (p *StorePersister) LoadActivityLog(ctx context.Context) []ActivityLogEntry {
	raw, found, err := p.store.Get(ctx, activityLogStateKey)
	if err != nil {
		p.logger.Warn("failed to read activity log", zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	var entries []ActivityLogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		p.logger.Warn("corrupt activity log, starting empty", zap.Error(err))
		return nil
	}
	return entries
}

// SaveActivityLog persists the full activity log as a whole blob
func (p *StorePersister) SaveActivityLog(ctx context.Context, entries []ActivityLogEntry) {
	if entries == nil {
		entries = []ActivityLogEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		p.logger.Warn("failed to encode activity log", zap.Error(err))
		return
	}
	if err := p.store.Set(ctx, activityLogStateKey, string(data)); err != nil {
		p.logger.Warn("failed to persist activity log", zap.Error(err))
	}
}
