package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/domain"
	"github.com/deskwise/helpdesk-service/internal/repository"
	apperrors "github.com/deskwise/helpdesk-service/pkg/util/errorutil"
)

// minQueryLen is the shortest query that hits the database. Anything
// shorter resolves to an empty result set without a query.
const minQueryLen = 2

// SearchService runs ranked full-text search over tickets and their visible
// comment content, scoped to the requester's workspace.
type SearchService struct {
	repo       repository.SearchRepository
	visibility *VisibilityFilter
	logger     *zap.Logger
	debounce   time.Duration
	maxResults int
}

// SearchDependencies bundles collaborators for the search service.
type SearchDependencies struct {
	SearchRepo repository.SearchRepository
	Visibility *VisibilityFilter
	Logger     *zap.Logger
	Debounce   time.Duration
	MaxResults int
}

// NewSearchService constructs the service.
func NewSearchService(deps SearchDependencies) *SearchService {
	debounce := deps.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	maxResults := deps.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	return &SearchService{
		repo:       deps.SearchRepo,
		visibility: deps.Visibility,
		logger:     deps.Logger,
		debounce:   debounce,
		maxResults: maxResults,
	}
}

// Search executes one query immediately. Queries under two characters
// return an empty result set without touching the index.
func (s *SearchService) Search(ctx context.Context, actor *domain.User, query string) ([]domain.SearchResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authenticated member required")
	}
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return []domain.SearchResult{}, nil
	}

	includeNotes := s.visibility.IncludeNotes(actor.Role)
	results, err := s.repo.SearchTickets(ctx, actor.WorkspaceID, query, includeNotes, s.maxResults)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !includeNotes {
		// The query already excludes note matches; drop any that slip
		// through so a note can never surface in an end user's results.
		filtered := results[:0]
		for _, r := range results {
			if r.MatchedCommentType != nil && *r.MatchedCommentType == domain.CommentTypeNote {
				continue
			}
			filtered = append(filtered, r)
		}
		results = filtered
	}
	return results, nil
}

// SearchSession debounces a stream of query revisions from one client.
// Each SetQuery resets the timer; only the query that survives the quiet
// period executes, and a newer execution supersedes any still in flight so
// stale results never reach the caller.
type SearchSession struct {
	service *SearchService
	actor   *domain.User

	queries chan string
	results chan SessionResult
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// SessionResult carries one completed search back to the session owner.
type SessionResult struct {
	Query   string
	Results []domain.SearchResult
	Err     error

	generation uint64
}

// OpenSession starts a debounced search session for the actor. Close must
// be called when the client goes away.
func (s *SearchService) OpenSession(ctx context.Context, actor *domain.User) (*SearchSession, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authenticated member required")
	}
	session := &SearchSession{
		service: s,
		actor:   actor,
		queries: make(chan string, 8),
		results: make(chan SessionResult, 4),
		done:    make(chan struct{}),
	}
	session.wg.Add(1)
	go session.run(ctx)
	return session, nil
}

// SetQuery replaces the pending query. Safe to call at typing speed.
func (s *SearchSession) SetQuery(query string) {
	select {
	case <-s.done:
	case s.queries <- query:
	}
}

// Results yields completed searches, newest last. Closed by Close.
func (s *SearchSession) Results() <-chan SessionResult {
	return s.results
}

// Close stops the session. Idempotent.
func (s *SearchSession) Close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *SearchSession) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.results)

	timer := time.NewTimer(s.service.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var (
		pending    string
		hasPending bool
		cancelPrev context.CancelFunc
	)
	defer func() {
		if cancelPrev != nil {
			cancelPrev()
		}
	}()

	completions := make(chan SessionResult, 1)
	var generation, delivered uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case q := <-s.queries:
			pending = q
			hasPending = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.service.debounce)
		case <-timer.C:
			if !hasPending {
				continue
			}
			hasPending = false
			if cancelPrev != nil {
				cancelPrev()
			}
			queryCtx, cancel := context.WithCancel(ctx)
			cancelPrev = cancel
			generation++
			go s.execute(queryCtx, pending, generation, completions)
		case done := <-completions:
			gen := done.generation
			if gen <= delivered {
				continue
			}
			delivered = gen
			select {
			case s.results <- done:
			case <-s.done:
				return
			case <-ctx.Done():
				return
			default:
				// The owner is not draining; shed the oldest result so
				// the newest always fits.
				select {
				case <-s.results:
				default:
				}
				select {
				case s.results <- done:
				default:
				}
			}
		}
	}
}

func (s *SearchSession) execute(ctx context.Context, query string, generation uint64, completions chan<- SessionResult) {
	results, err := s.service.Search(ctx, s.actor, query)
	if ctx.Err() != nil {
		// Superseded or session gone; the result would be stale.
		return
	}
	if err != nil && s.service.logger != nil {
		s.service.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
	}
	select {
	case completions <- SessionResult{Query: query, Results: results, Err: err, generation: generation}:
	case <-ctx.Done():
	}
}
