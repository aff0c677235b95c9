package service

import (
	"aiinterviewer/internal/cache"
	"aiinterviewer/internal/credits"
	"aiinterviewer/internal/interview"
	"aiinterviewer/internal/model"
	"aiinterviewer/internal/repository"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// InterviewService owns one interview machine and one credit store per
// gateway login. A login only ever has a single current interview; a new
// setup after COMPLETED or ABANDONED starts over with a fresh machine.
type InterviewService struct {
	api         *APIClient
	tokens      cache.TokenStore
	snapshots   cache.SnapshotCache
	creditCache cache.CreditCache
	reports     repository.ReportRepo
	broadcaster Broadcaster
	opts        interview.Options
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*ownerSession
}

type ownerSession struct {
	client  *APIClient
	credits *credits.Store
	machine *interview.Machine
	unsub   func()
}

// NewInterviewService creates the gateway interview service. snapshots,
// creditCache and reports may be nil.
func NewInterviewService(
	api *APIClient,
	tokens cache.TokenStore,
	snapshots cache.SnapshotCache,
	creditCache cache.CreditCache,
	reports repository.ReportRepo,
	opts interview.Options,
) *InterviewService {
	return &InterviewService{
		api:         api,
		tokens:      tokens,
		snapshots:   snapshots,
		creditCache: creditCache,
		reports:     reports,
		opts:        opts,
		logger:      slog.Default().With("component", "interview_service"),
		sessions:    make(map[string]*ownerSession),
	}
}

// SetBroadcaster wires the websocket hub after construction
func (s *InterviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *InterviewService) broadcast(owner, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToOwner(owner, msgType, payload)
	}
}

// session returns the login's session, creating it on first use
func (s *InterviewService) session(owner string) *ownerSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[owner]; ok {
		return sess
	}

	client := s.api.WithCredentials(StoredCredentials{Store: s.tokens, Key: owner})
	client.OnUnauthorized(func() {
		go s.Expire(context.Background(), owner)
	})

	store := credits.NewStore(client)
	if s.creditCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if cached, err := s.creditCache.Get(ctx, owner); err == nil && cached != nil {
			store.Prime(*cached)
		}
		cancel()
	}
	store.OnUpdate(func(balance model.CreditBalance) {
		if s.creditCache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := s.creditCache.Set(ctx, owner, &balance); err != nil {
				s.logger.Warn("Failed to cache credit balance", "owner", owner, "error", err)
			}
		}
		s.broadcast(owner, MsgCredits, balance)
	})

	sess := &ownerSession{client: client, credits: store}
	s.attachMachineLocked(owner, sess)
	s.sessions[owner] = sess
	return sess
}

func (s *InterviewService) attachMachineLocked(owner string, sess *ownerSession) {
	nav := interview.NavigatorFunc(func(path string) {
		s.broadcast(owner, MsgNavigate, map[string]string{"to": path})
	})
	m := interview.New(sess.client, sess.credits, nav, s.opts)
	feed := &machineFeed{}
	sess.machine = m
	sess.unsub = m.Subscribe(func(snap interview.Snapshot) {
		s.onSnapshot(owner, snap, feed)
	})
}

// machineFeed serializes one machine's snapshots on their way to the
// websocket and the cache. Versions restart with every machine.
type machineFeed struct {
	mu       sync.Mutex
	version  uint64
	archived atomic.Bool
}

func (s *InterviewService) onSnapshot(owner string, snap interview.Snapshot, feed *machineFeed) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feed.mu.Lock()
	if snap.Version <= feed.version {
		feed.mu.Unlock()
		s.logger.Debug("Dropping stale snapshot", "owner", owner, "version", snap.Version, "published", feed.version)
		return
	}
	feed.version = snap.Version
	s.broadcast(owner, MsgSnapshot, snap)
	if s.snapshots != nil {
		if err := s.snapshots.Set(ctx, owner, &snap); err != nil {
			s.logger.Warn("Failed to cache snapshot", "owner", owner, "error", err)
		}
	}
	feed.mu.Unlock()

	if snap.State != interview.StateCompleted || snap.Report == nil || s.reports == nil {
		return
	}
	if !feed.archived.CompareAndSwap(false, true) {
		return
	}
	record := &model.ReportRecord{
		Owner:      owner,
		SessionID:  snap.Report.SessionID,
		Profile:    snap.Profile,
		Report:     *snap.Report,
		ArchivedAt: time.Now(),
	}
	if err := s.reports.Save(ctx, record); err != nil {
		feed.archived.Store(false)
		s.logger.Error("Failed to archive report", "owner", owner, "sessionId", record.SessionID, "error", err)
		return
	}
	s.logger.Info("Report archived", "owner", owner, "sessionId", record.SessionID)
}

// Snapshot returns the login's current interview state. Without a live
// machine the last cached snapshot is used when it is terminal, so a
// finished report survives a gateway restart.
func (s *InterviewService) Snapshot(ctx context.Context, owner string) interview.Snapshot {
	s.mu.Lock()
	sess, ok := s.sessions[owner]
	s.mu.Unlock()
	if ok {
		return sess.machine.Snapshot()
	}
	if s.snapshots != nil {
		if cached, err := s.snapshots.Get(ctx, owner); err == nil && cached != nil && cached.State.Terminal() {
			return *cached
		}
	}
	return interview.Snapshot{State: interview.StateSetup}
}

// BeginSetup starts a new interview for owner
func (s *InterviewService) BeginSetup(ctx context.Context, owner string, req model.ProfileRequest) (interview.Snapshot, error) {
	sess := s.session(owner)

	s.mu.Lock()
	if sess.machine.State().Terminal() {
		old, unsub := sess.machine, sess.unsub
		s.attachMachineLocked(owner, sess)
		unsub()
		old.Close()
	}
	m := sess.machine
	s.mu.Unlock()

	err := m.Dispatch(ctx, interview.BeginSetup{Profile: req})
	return m.Snapshot(), err
}

// SubmitAnswer answers the current question of owner's interview
func (s *InterviewService) SubmitAnswer(ctx context.Context, owner, answer string) (interview.Snapshot, error) {
	m := s.session(owner).machine
	err := m.Dispatch(ctx, interview.SubmitAnswer{Answer: answer})
	return m.Snapshot(), err
}

// Abandon leaves owner's live interview
func (s *InterviewService) Abandon(ctx context.Context, owner string) (interview.Snapshot, error) {
	m := s.session(owner).machine
	err := m.Dispatch(ctx, interview.Abandon{})
	return m.Snapshot(), err
}

// DismissError clears the current notice of owner's interview
func (s *InterviewService) DismissError(ctx context.Context, owner string) interview.Snapshot {
	m := s.session(owner).machine
	_ = m.Dispatch(ctx, interview.DismissError{})
	return m.Snapshot()
}

// Report returns the report of owner's completed interview, or nil
func (s *InterviewService) Report(ctx context.Context, owner string) *model.Report {
	return s.Snapshot(ctx, owner).Report
}

// Credits returns the cached balance, loading it on first use
func (s *InterviewService) Credits(ctx context.Context, owner string) (model.CreditBalance, error) {
	store := s.session(owner).credits
	if store.Loaded() {
		return store.Get(), nil
	}
	if err := store.Refresh(ctx); err != nil {
		return store.Get(), err
	}
	return store.Get(), nil
}

// RefreshCredits reloads the balance from the backend
func (s *InterviewService) RefreshCredits(ctx context.Context, owner string) (model.CreditBalance, error) {
	store := s.session(owner).credits
	err := store.Refresh(ctx)
	return store.Get(), err
}

// CreditHistory lists owner's credit transactions
func (s *InterviewService) CreditHistory(ctx context.Context, owner string) ([]model.CreditTransaction, error) {
	return s.session(owner).client.CreditHistory(ctx)
}

// Resumes lists owner's uploaded resumes
func (s *InterviewService) Resumes(ctx context.Context, owner string) ([]model.ResumeSummary, error) {
	return s.session(owner).client.ListResumes(ctx)
}

// InterviewHistory lists owner's past interviews as the backend knows them
func (s *InterviewService) InterviewHistory(ctx context.Context, owner string) ([]model.InterviewHistoryItem, error) {
	return s.session(owner).client.InterviewHistory(ctx)
}

// ArchivedReports lists reports archived by this gateway, newest first
func (s *InterviewService) ArchivedReports(ctx context.Context, owner string, limit int) ([]*model.ReportRecord, error) {
	if s.reports == nil {
		return nil, nil
	}
	return s.reports.ListByOwner(ctx, owner, limit)
}

// ArchivedReport returns one archived report, or nil
func (s *InterviewService) ArchivedReport(ctx context.Context, owner string, sessionID int64) (*model.ReportRecord, error) {
	if s.reports == nil {
		return nil, nil
	}
	return s.reports.GetBySession(ctx, owner, sessionID)
}

// Expire drops everything held for owner after the backend rejected its
// token. Connected clients are told to log in again.
func (s *InterviewService) Expire(ctx context.Context, owner string) {
	s.forget(ctx, owner)
	if err := s.tokens.Delete(ctx, owner); err != nil {
		s.logger.Warn("Failed to delete token", "owner", owner, "error", err)
	}
	s.logger.Info("Login expired", "owner", owner)
	s.broadcast(owner, MsgSessionExpired, map[string]string{"message": ErrUnauthorized.Error()})
}

// Logout drops owner's interview and closes its websocket connections
func (s *InterviewService) Logout(ctx context.Context, owner string) {
	s.forget(ctx, owner)
	if s.broadcaster != nil {
		s.broadcaster.DisconnectOwner(owner)
	}
}

func (s *InterviewService) forget(ctx context.Context, owner string) {
	s.mu.Lock()
	sess, ok := s.sessions[owner]
	delete(s.sessions, owner)
	s.mu.Unlock()

	// the machine is left to finish any in-flight call on its own
	if ok {
		sess.unsub()
	}
	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, owner); err != nil {
			s.logger.Warn("Failed to delete snapshot", "owner", owner, "error", err)
		}
	}
}

// Shutdown stops every machine and waits for pending credit refreshes
func (s *InterviewService) Shutdown() {
	s.mu.Lock()
	sessions := make([]*ownerSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.machine.Close()
		sess.machine.Wait()
	}
}
