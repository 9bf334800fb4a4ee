package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/practice-engine/internal/answers"
	"github.com/SAP-F-2025/practice-engine/internal/archive"
	"github.com/SAP-F-2025/practice-engine/internal/catalog"
	"github.com/SAP-F-2025/practice-engine/internal/events"
	"github.com/SAP-F-2025/practice-engine/internal/ledger"
	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/session"
	"github.com/SAP-F-2025/practice-engine/internal/timer"
)

// PracticeService runs exercise sessions against the catalog and records
// their results in the progress ledger.
type PracticeService interface {
	ListExercises(ctx context.Context, exerciseType models.ExerciseType) []*models.ExerciseDefinition
	GetExercise(ctx context.Context, exerciseID string) (*models.ExerciseDefinition, error)

	CreateSession(ctx context.Context, req *CreateSessionRequest) (*session.Snapshot, error)
	StartSession(ctx context.Context, sessionID string) (*session.Snapshot, error)
	GetSession(ctx context.Context, sessionID string) (*session.Snapshot, error)
	ApplyEvent(ctx context.Context, sessionID string, event answers.Event) (*session.Snapshot, error)
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
	CloseSession(ctx context.Context, sessionID string) error
	SweepSessions(ctx context.Context) int

	Progress(ctx context.Context) *ProgressSummary
	ResetProgress(ctx context.Context)
	ExportProgress(ctx context.Context) ([]byte, error)
}

type CreateSessionRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	// AutoStart starts the countdown right away.
	AutoStart bool `json:"auto_start"`
}

type SubmitResult struct {
	Score    models.Score          `json:"score"`
	Message  string                `json:"message"`
	Progress models.ProgressRecord `json:"progress"`
	Session  session.Snapshot      `json:"session"`
}

type ProgressSummary struct {
	Records        []models.ProgressRecord     `json:"records"`
	Attempted      int                         `json:"attempted"`
	TotalExercises int                         `json:"total_exercises"`
	AverageBest    float64                     `json:"average_best"`
	ByType         map[models.ExerciseType]int `json:"attempted_by_type"`
	CatalogByType  map[models.ExerciseType]int `json:"exercises_by_type"`
}

// Session retention defaults. A submitted or expired session is dropped once
// nobody has looked at it for FinishedSessionRetention; any session, even a
// running one, is dropped after IdleSessionTimeout without access.
const (
	FinishedSessionRetention = 10 * time.Minute
	IdleSessionTimeout       = 2 * time.Hour
)

type PracticeOption func(*practiceService)

// WithPolicies sets the per-variant submission rules.
func WithPolicies(p session.Policies) PracticeOption {
	return func(s *practiceService) { s.policies = p }
}

// WithClock drives every session countdown from clock.
func WithClock(clock timer.Clock) PracticeOption {
	return func(s *practiceService) { s.clock = clock }
}

// WithArchive stores summarize and essay texts.
func WithArchive(a archive.Archive) PracticeOption {
	return func(s *practiceService) { s.archive = a }
}

// WithSessionRetention overrides how long finished and idle sessions are kept.
func WithSessionRetention(finished, idle time.Duration) PracticeOption {
	return func(s *practiceService) {
		s.finishedRetention = finished
		s.idleTimeout = idle
	}
}

// WithPublisher publishes session notifications as events.
func WithPublisher(p events.EventPublisher) PracticeOption {
	return func(s *practiceService) { s.publisher = p }
}

type practiceService struct {
	catalog   *catalog.Catalog
	ledger    *ledger.Ledger
	archive   archive.Archive
	publisher events.EventPublisher
	notifier  session.Notifier
	policies  session.Policies
	clock     timer.Clock
	logger    *ServiceLogger

	finishedRetention time.Duration
	idleTimeout       time.Duration
	now               func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	ctrl       *session.Controller
	lastAccess time.Time
}

func NewPracticeService(cat *catalog.Catalog, led *ledger.Ledger, logger *slog.Logger, opts ...PracticeOption) PracticeService {
	s := &practiceService{
		catalog:  cat,
		ledger:   led,
		clock:    timer.RealClock(),
		logger:   NewServiceLogger(logger, LogConfig{Service: "practice", Component: "sessions"}),
		sessions: make(map[string]*sessionEntry),

		finishedRetention: FinishedSessionRetention,
		idleTimeout:       IdleSessionTimeout,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher != nil {
		s.notifier = events.NewSessionNotifier(s.publisher, s.logger.Logger())
	}
	return s
}

func (s *practiceService) ListExercises(_ context.Context, exerciseType models.ExerciseType) []*models.ExerciseDefinition {
	if exerciseType == "" {
		return s.catalog.List()
	}
	return s.catalog.ListByType(exerciseType)
}

func (s *practiceService) GetExercise(_ context.Context, exerciseID string) (*models.ExerciseDefinition, error) {
	return s.catalog.Get(exerciseID)
}

func (s *practiceService) CreateSession(ctx context.Context, req *CreateSessionRequest) (snap *session.Snapshot, err error) {
	op := s.logger.WithOperation(ctx, "create_session")
	defer func() { op.LogResult(err) }()

	def, err := s.catalog.Get(req.ExerciseID)
	if err != nil {
		return nil, err
	}
	s.SweepSessions(ctx)

	id := uuid.NewString()
	op.Session(id, def.ID)

	opts := []session.Option{
		session.WithClock(s.clock),
		session.WithPolicy(s.policies.For(def.Type)),
		session.WithRecorder(s.ledger),
		session.WithLogger(s.logger.Logger()),
	}
	if s.archive != nil {
		opts = append(opts, session.WithArchive(s.archive))
	}
	if s.notifier != nil {
		opts = append(opts, session.WithNotifier(s.notifier))
	}

	ctrl, err := session.New(id, def, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.mu.Lock()
	s.sessions[id] = &sessionEntry{ctrl: ctrl, lastAccess: s.now()}
	s.mu.Unlock()

	var out session.Snapshot
	if req.AutoStart {
		out = ctrl.Start(ctx)
	} else {
		out = ctrl.Snapshot()
	}
	return &out, nil
}

func (s *practiceService) StartSession(ctx context.Context, sessionID string) (*session.Snapshot, error) {
	ctrl, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	snap := ctrl.Start(ctx)
	return &snap, nil
}

func (s *practiceService) GetSession(_ context.Context, sessionID string) (*session.Snapshot, error) {
	ctrl, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	snap := ctrl.Snapshot()
	return &snap, nil
}

func (s *practiceService) ApplyEvent(ctx context.Context, sessionID string, event answers.Event) (*session.Snapshot, error) {
	ctrl, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if event.Kind == answers.EventMove && event.Move == nil {
		return nil, fmt.Errorf("%w: move event without move", ErrBadRequest)
	}

	snap, err := ctrl.Apply(ctx, event)
	if err != nil {
		s.logger.Debug(ctx, "Answer event refused", "session_id", sessionID, "kind", event.Kind, "error", err)
		return nil, err
	}
	return &snap, nil
}

func (s *practiceService) Submit(ctx context.Context, sessionID string) (result *SubmitResult, err error) {
	op := s.logger.WithOperation(ctx, "submit")
	defer func() { op.LogResult(err) }()

	ctrl, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	def := ctrl.Definition()
	op.Session(sessionID, def.ID)

	score, err := ctrl.Submit(ctx)
	if err != nil {
		return nil, err
	}

	record, _ := s.ledger.Get(def.ID)
	return &SubmitResult{
		Score:    score,
		Message:  session.SubmittedMessage(def.Type, score),
		Progress: record,
		Session:  ctrl.Snapshot(),
	}, nil
}

// CloseSession stops the session's countdown and forgets it.
func (s *practiceService) CloseSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	entry.ctrl.Close()
	return nil
}

// SweepSessions drops finished sessions past their retention and sessions
// idle past the idle timeout, stopping their countdowns. It returns how many
// were dropped.
func (s *practiceService) SweepSessions(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	var evicted []*session.Controller
	for id, entry := range s.sessions {
		idle := now.Sub(entry.lastAccess)
		state := entry.ctrl.State()
		finished := state == session.StateSubmitted || state == session.StateExpired
		if (finished && idle >= s.finishedRetention) || idle >= s.idleTimeout {
			delete(s.sessions, id)
			evicted = append(evicted, entry.ctrl)
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	for _, ctrl := range evicted {
		ctrl.Close()
	}
	if len(evicted) > 0 {
		s.logger.Logger().InfoContext(ctx, "Swept stale sessions", "evicted", len(evicted), "remaining", remaining)
	}
	return len(evicted)
}

func (s *practiceService) Progress(_ context.Context) *ProgressSummary {
	records := s.ledger.All()
	summary := &ProgressSummary{
		Records:        records,
		Attempted:      len(records),
		TotalExercises: s.catalog.Len(),
		ByType:         make(map[models.ExerciseType]int),
		CatalogByType:  s.catalog.Counts(),
	}

	total := 0.0
	for _, r := range records {
		total += r.BestScore
		if def, err := s.catalog.Get(r.ExerciseID); err == nil {
			summary.ByType[def.Type]++
		}
	}
	if len(records) > 0 {
		summary.AverageBest = total / float64(len(records))
	}
	return summary
}

func (s *practiceService) ResetProgress(ctx context.Context) {
	op := s.logger.WithOperation(ctx, "reset_progress")
	s.ledger.Reset(ctx)
	op.LogResult(nil)
}

// session looks up a live session and marks it as accessed.
func (s *practiceService) session(id string) (*session.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	entry.lastAccess = s.now()
	return entry.ctrl, nil
}
