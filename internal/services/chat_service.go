package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dcortes/mailsweep/internal/agent"
)

// ChatServiceImpl implements ChatService. It owns the session transcript,
// the current preview batch and its selection, and a single in-flight gate:
// a second call while one is outstanding is rejected, never queued
type ChatServiceImpl struct {
	gateway  agent.Gateway
	activity ActivityService
	logger   *zap.Logger

	mu        sync.Mutex
	messages  []ChatMessage
	previews  []agent.EmailPreview
	selection *SelectionTracker
	inFlight  bool
	lastErr   string
	now       func() time.Time
}

// NewChatService creates a chat orchestrator
func NewChatService(gateway agent.Gateway, activity ActivityService, logger *zap.Logger) *ChatServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatServiceImpl{
		gateway:   gateway,
		activity:  activity,
		logger:    logger,
		selection: NewSelectionTracker(),
		now:       time.Now,
	}
}

// Submit sends one user utterance to the interactive agent and folds the
// response into transcript, preview batch, selection and activity log. The
// user message is appended optimistically and is not rolled back on failure
func (s *ChatServiceImpl) Submit(ctx context.Context, utterance string) error {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.inFlight = true
	s.lastErr = ""
	s.appendMessageLocked(RoleUser, text)
	s.mu.Unlock()

	env, err := s.gateway.Call(ctx, text, agent.InteractiveAgentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.inFlight = false }()

	if err != nil {
		s.logger.Warn("interactive agent call failed", zap.Error(err))
		s.lastErr = transportErrorMessage
		s.appendMessageLocked(RoleAssistant, transportErrorMessage)
		return err
	}
	if !env.OK() {
		msg := env.ErrorMessage()
		if msg == "" {
			msg = transportErrorMessage
		}
		s.lastErr = msg
		s.appendMessageLocked(RoleAssistant, msg)
		return fmt.Errorf("%w: %s", ErrAgentFailure, msg)
	}

	result, err := agent.DecodeInteractiveResult(env)
	if err != nil {
		s.logger.Warn("unreadable interactive agent result", zap.Error(err))
		s.lastErr = transportErrorMessage
		s.appendMessageLocked(RoleAssistant, transportErrorMessage)
		return err
	}

	reply := result.Message
	if reply == "" {
		reply = "Done."
	}
	s.appendMessageLocked(RoleAssistant, reply)

	if len(result.EmailPreview) > 0 {
		s.replacePreviewsLocked(result.EmailPreview)
	} else {
		s.replacePreviewsLocked(nil)
	}

	if result.EmailsDeleted > 0 && s.activity != nil {
		category := result.CriteriaIdentified.Category
		if category == "" {
			category = "emails"
		}
		s.activity.Record(ctx, fmt.Sprintf("Deleted %s", category), result.EmailsDeleted, ActivityStatusSuccess)
	}
	return nil
}

// DeleteSelected asks the interactive agent to delete the currently
// selected previews. A no-op when nothing is selected. On failure the
// previews, selection and activity log are left untouched
func (s *ChatServiceImpl) DeleteSelected(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	ids := s.selection.Selected()
	if len(ids) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.lastErr = ""
	s.mu.Unlock()

	instruction := fmt.Sprintf("Delete the following emails by id: %s", strings.Join(ids, ", "))
	env, err := s.gateway.Call(ctx, instruction, agent.InteractiveAgentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.inFlight = false }()

	if err != nil {
		s.logger.Warn("delete selected call failed", zap.Error(err))
		s.lastErr = transportErrorMessage
		return err
	}
	if !env.OK() {
		msg := env.ErrorMessage()
		if msg == "" {
			msg = transportErrorMessage
		}
		s.lastErr = msg
		return fmt.Errorf("%w: %s", ErrAgentFailure, msg)
	}

	result, err := agent.DecodeInteractiveResult(env)
	if err != nil {
		s.logger.Warn("unreadable delete result", zap.Error(err))
		s.lastErr = transportErrorMessage
		return err
	}

	// The user-selected count and the agent-reported deletion count can
	// legitimately differ; the entry keeps both
	if s.activity != nil {
		action := fmt.Sprintf("Deleted %d selected emails", len(ids))
		s.activity.Record(ctx, action, result.EmailsDeleted, ActivityStatusSuccess)
	}

	deleted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		deleted[id] = struct{}{}
	}
	remaining := make([]agent.EmailPreview, 0, len(s.previews))
	for _, p := range s.previews {
		if _, ok := deleted[p.ID]; !ok {
			remaining = append(remaining, p)
		}
	}
	s.replacePreviewsLocked(remaining)

	confirmation := result.Message
	if confirmation == "" {
		confirmation = fmt.Sprintf("Deleted %d emails.", result.EmailsDeleted)
	}
	s.appendMessageLocked(RoleAssistant, confirmation)
	return nil
}

// Messages returns a copy of the transcript in append order
func (s *ChatServiceImpl) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage(nil), s.messages...)
}

// Previews returns a copy of the current preview batch
func (s *ChatServiceImpl) Previews() []agent.EmailPreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]agent.EmailPreview(nil), s.previews...)
}

// ToggleSelection flips selection of a preview id
func (s *ChatServiceImpl) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Toggle(id)
}

// SelectAllOrNone toggles between selecting the whole batch and nothing
func (s *ChatServiceImpl) SelectAllOrNone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SelectAllOrNone()
}

// SelectedIDs returns the selected preview ids in batch order
func (s *ChatServiceImpl) SelectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Selected()
}

// InFlight reports whether a chat request is outstanding
func (s *ChatServiceImpl) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// LastError returns the current error slot, empty when clear
func (s *ChatServiceImpl) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError empties the error slot
func (s *ChatServiceImpl) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func (s *ChatServiceImpl) appendMessageLocked(role Role, content string) {
	s.messages = append(s.messages, ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
}

func (s *ChatServiceImpl) replacePreviewsLocked(previews []agent.EmailPreview) {
	s.previews = append([]agent.EmailPreview(nil), previews...)
	ids := make([]string, 0, len(previews))
	for _, p := range previews {
		ids = append(ids, p.ID)
	}
	s.selection.SetBatch(ids)
}
