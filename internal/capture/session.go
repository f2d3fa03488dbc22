// session.go — Per-attach capture state.
// A Session is created on attach and flushed on detach. It replaces any
// process-wide buffer or tab id: two sessions never share entries.
package capture

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-console/netlog/internal/buffers"
	"github.com/dev-console/netlog/internal/types"
)

// Session holds the entries captured from one tab between attach and detach.
type Session struct {
	ID        string
	TabID     string
	StartedAt time.Time

	ctx        context.Context
	cancel     context.CancelFunc
	log        *buffers.AppendLog[types.LogEntry]
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewSession starts a session on tabID. Follow-up commands run through cmd
// under a context derived from parent and cancelled by Detach.
func NewSession(parent context.Context, tabID string, cmd Commander, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:        uuid.NewString(),
		TabID:     tabID,
		StartedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		log:       buffers.NewAppendLog[types.LogEntry](),
	}
	s.logger = logger.With(zap.String("session_id", s.ID), zap.String("tab_id", tabID))
	s.dispatcher = NewDispatcher(cmd, s.record, s.logger)
	return s
}

// Handle feeds one protocol event to the dispatcher. It has the signature
// expected by Tab.Listen.
func (s *Session) Handle(ev any) {
	if err := s.dispatcher.Dispatch(s.ctx, ev); err != nil {
		s.logger.Error("unhandled event failure", zap.Error(err))
	}
}

// Entries returns a copy of everything captured so far.
func (s *Session) Entries() []types.LogEntry {
	return s.log.ReadAll()
}

// Len returns the number of captured entries.
func (s *Session) Len() int {
	return s.log.Len()
}

// Detach ends the session: pending follow-ups are cancelled and the entry log
// is sealed. The returned slice is the buffer at the moment of detach.
// Calling Detach again returns the same entries.
func (s *Session) Detach(reason string) []types.LogEntry {
	s.cancel()
	entries := s.log.Seal()
	s.logger.Info("capture session detached",
		zap.String("reason", reason),
		zap.Int("entries", len(entries)),
		zap.Duration("elapsed", time.Since(s.StartedAt)),
	)
	return entries
}

// Wait blocks until in-flight follow-up commands have returned.
func (s *Session) Wait() {
	s.dispatcher.Wait()
}

func (s *Session) record(entry types.LogEntry) {
	if !s.log.Append(entry) {
		s.logger.Debug("entry dropped after detach",
			zap.String("type", string(entry.Type)),
			zap.String("url", entry.URL),
		)
		return
	}
	s.logger.Debug("captured",
		zap.String("type", string(entry.Type)),
		zap.String("url", entry.URL),
		zap.ByteString("body", entry.Body),
	)
}
