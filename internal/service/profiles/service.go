package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fiascohq/fiasco/backend/internal/analysis/aggregate"
	"github.com/fiascohq/fiasco/backend/internal/model/profile"
	"github.com/fiascohq/fiasco/backend/internal/model/session"
	"github.com/fiascohq/fiasco/backend/internal/service/analyzer"
	"github.com/fiascohq/fiasco/backend/internal/store"
)

var (
	// ErrNoValidURLs rejects a submission with no non-blank URLs. Nothing
	// is analyzed or stored when it fires.
	ErrNoValidURLs = errors.New("no valid profile urls provided")

	// ErrNotFound reports an unknown session id on a read path. Expected
	// for first-time visitors; callers treat it as "no data yet".
	ErrNotFound = errors.New("profile session not found")
)

// View is what the facade hands back after every operation: the merged
// session plus aggregates computed fresh from its results.
type View struct {
	SessionID   string                      `json:"session_id"`
	URLs        []string                    `json:"urls"`
	Results     map[string]profile.Analysis `json:"results"`
	LastUpdated time.Time                   `json:"last_updated"`
	Aggregates  aggregate.Summary           `json:"aggregates"`
}

// Service orchestrates submissions: resolve the session id, fan out over
// the analyzer, merge into the store, aggregate on the way out. It owns no
// state of its own; both collaborators are injected.
type Service struct {
	store    store.Store
	analyzer analyzer.Analyzer
}

// NewService wires the facade to its store and analyzer.
func NewService(st store.Store, an analyzer.Analyzer) *Service {
	return &Service{store: st, analyzer: an}
}

// Submit analyzes the given URLs and merges the results into the caller's
// session, creating one when sessionID is empty. An unknown supplied id is
// kept: the merge creates the session under it, so a stale client token
// simply repopulates.
func (s *Service) Submit(ctx context.Context, urls []string, sessionID string) (View, error) {
	return s.SubmitStream(ctx, urls, sessionID, nil)
}

// SubmitStream is Submit with a per-URL progress callback, invoked
// serially as each analysis completes. A nil callback is allowed.
func (s *Service) SubmitStream(ctx context.Context, urls []string, sessionID string, onResult func(url string, a profile.Analysis)) (View, error) {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return View{}, ErrNoValidURLs
	}

	id := sessionID
	if id == "" {
		created, err := s.store.GetOrCreate(ctx, "")
		if err != nil {
			return View{}, fmt.Errorf("create session: %w", err)
		}
		id = created
	} else if _, err := s.store.GetOrCreate(ctx, id); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
		return View{}, fmt.Errorf("resolve session: %w", err)
	}

	results := s.analyzeAll(ctx, cleaned, onResult)

	merged, err := s.store.Merge(ctx, id, cleaned, results)
	if err != nil {
		return View{}, fmt.Errorf("merge session: %w", err)
	}
	return viewOf(merged), nil
}

// Load returns the stored session and its aggregates.
func (s *Service) Load(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return View{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return View{}, fmt.Errorf("load session: %w", err)
	}
	return viewOf(sess), nil
}

// Refresh re-analyzes every URL already in the session. A session without
// URLs refreshes to its current (empty) view rather than erroring.
func (s *Service) Refresh(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return View{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return View{}, fmt.Errorf("load session: %w", err)
	}

	if len(sess.URLs) == 0 {
		return viewOf(sess), nil
	}
	return s.Submit(ctx, sess.URLs, sessionID)
}

// Clear drops the session. Clearing an unknown id succeeds.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// analyzeAll fans one goroutine out per URL and collects every analysis
// before returning, so the subsequent merge is atomic from a reader's
// perspective. Duplicate URLs are each analyzed; the occurrence later in
// the submission wins the results slot.
func (s *Service) analyzeAll(ctx context.Context, urls []string, onResult func(url string, a profile.Analysis)) map[string]profile.Analysis {
	type outcome struct {
		index    int
		analysis profile.Analysis
	}

	outcomes := make(chan outcome, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(index int, profileURL string) {
			defer wg.Done()
			outcomes <- outcome{index: index, analysis: s.analyzer.Analyze(ctx, profileURL)}
		}(i, u)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	collected := make([]profile.Analysis, len(urls))
	for o := range outcomes {
		collected[o.index] = o.analysis
		if onResult != nil {
			onResult(urls[o.index], o.analysis)
		}
	}

	results := make(map[string]profile.Analysis, len(urls))
	for i, u := range urls {
		results[u] = collected[i]
	}
	return results
}

func viewOf(sess session.Session) View {
	return View{
		SessionID:   sess.ID,
		URLs:        sess.URLs,
		Results:     sess.Results,
		LastUpdated: sess.LastUpdated,
		Aggregates:  aggregate.Summarize(sess.Results),
	}
}
