package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/config"
	"github.com/smallbiznis/recouvro/internal/observability/metrics"
	"github.com/smallbiznis/recouvro/internal/oracle"
)

const systemInstruction = `You are the friendly and professional AI Assistant for "Cash-flow AI", a SaaS platform for freelancers and small businesses.

Your goal is to help users understand and use the application.

Application Features to explain if asked:
1. Dashboard: Provides a real-time financial overview.
2. Recovery (Recouvrement): Users upload invoice files (PDF/Image) or text. AI analyzes them and generates reminders.
3. Bureaucracy Killer (Admin Tools): Generate administrative letters.
4. Compliance: We are a software provider, not a bank.

Tone: Professional, helpful, concise.`

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Clock   clock.Clock
	Oracle  oracle.Generator
	Metrics *metrics.Metrics `optional:"true"`
}

// Service holds assistant chat sessions in memory.
type Service struct {
	model   string
	log     *zap.Logger
	clock   clock.Clock
	oracle  oracle.Generator
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(p Params) *Service {
	return &Service{
		model:    p.Config.Oracle.ChatModel,
		log:      p.Log.Named("assistant.service"),
		clock:    p.Clock,
		oracle:   p.Oracle,
		metrics:  p.Metrics,
		sessions: make(map[string]*Session),
	}
}

// NewSession opens an empty conversation.
func (s *Service) NewSession(ctx context.Context) Session {
	now := s.clock.Now()
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.Debug("assistant.session_created", zap.String("session_id", session.ID))
	return *session
}

// Get returns a snapshot of a session.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// SendMessage appends a user turn, asks the oracle with the full history
// and records the model's reply.
func (s *Service) SendMessage(ctx context.Context, id, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Message{}, ErrSessionNotFound
	}
	history := historyTurns(session.Messages)
	s.mu.Unlock()

	start := time.Now()
	reply, err := s.oracle.GenerateText(ctx, oracle.Request{
		Model:             s.model,
		SystemInstruction: systemInstruction,
		History:           history,
		Parts:             []oracle.Part{{Text: text}},
	})
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordOracleRequest("assistant", "error", elapsed)
		s.log.Warn("assistant.oracle_error",
			zap.String("session_id", id),
			zap.Error(err),
			zap.Int64("elapsed_ms", elapsed.Milliseconds()),
		)
		return Message{}, err
	}
	s.metrics.RecordOracleRequest("assistant", "ok", elapsed)

	now := s.clock.Now()
	answer := Message{Role: RoleModel, Text: strings.TrimSpace(reply), CreatedAt: now}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok = s.sessions[id]
	if !ok {
		return Message{}, ErrSessionNotFound
	}
	session.Messages = append(session.Messages,
		Message{Role: RoleUser, Text: text, CreatedAt: now},
		answer,
	)
	session.UpdatedAt = now
	return answer, nil
}

func historyTurns(messages []Message) []oracle.Turn {
	turns := make([]oracle.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, oracle.Turn{
			Role:  m.Role,
			Parts: []oracle.Part{{Text: m.Text}},
		})
	}
	return turns
}

func snapshot(session *Session) Session {
	out := *session
	out.Messages = make([]Message, len(session.Messages))
	copy(out.Messages, session.Messages)
	return out
}
