package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/deskwise/helpdesk-service/internal/domain"
)

func newSearchFixture(debounce time.Duration) (*SearchService, *MockSearchRepository) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(SearchDependencies{
		SearchRepo: repo,
		Visibility: NewVisibilityFilter(),
		Logger:     zap.NewNop(),
		Debounce:   debounce,
		MaxResults: 20,
	})
	return svc, repo
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("short query short-circuits without hitting the index", func(t *testing.T) {
		svc, repo := newSearchFixture(0)

		for _, q := range []string{"", "a", " a ", "\t"} {
			results, err := svc.Search(ctx, agentUser(), q)
			assert.NoError(t, err)
			assert.Empty(t, results)
		}
		repo.AssertNotCalled(t, "SearchTickets", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("two characters is enough", func(t *testing.T) {
		svc, repo := newSearchFixture(0)
		repo.On("SearchTickets", ctx, "ws-1", "vp", true, 20).Return([]domain.SearchResult{}, nil)

		_, err := svc.Search(ctx, agentUser(), "vp")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("staff searches include notes", func(t *testing.T) {
		svc, repo := newSearchFixture(0)
		hits := []domain.SearchResult{{Ticket: domain.Ticket{ID: "t-1"}, Rank: 0.9}}
		repo.On("SearchTickets", ctx, "ws-1", "printer", true, 20).Return(hits, nil)

		results, err := svc.Search(ctx, agentUser(), "printer")
		assert.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("end user searches exclude notes", func(t *testing.T) {
		svc, repo := newSearchFixture(0)
		noteType := domain.CommentTypeNote
		replyType := domain.CommentTypeReply
		hits := []domain.SearchResult{
			{Ticket: domain.Ticket{ID: "t-1"}, Rank: 0.9, MatchedCommentType: &replyType},
			{Ticket: domain.Ticket{ID: "t-2"}, Rank: 0.8, MatchedCommentType: &noteType},
		}
		repo.On("SearchTickets", ctx, "ws-1", "printer", false, 20).Return(hits, nil)

		results, err := svc.Search(ctx, endUser(), "printer")
		assert.NoError(t, err)
		// A note match can never surface for an end user even if the
		// query returned one.
		assert.Len(t, results, 1)
		assert.Equal(t, "t-1", results[0].Ticket.ID)
	})
}

func TestSearchSession_DebouncesRapidTyping(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSearchFixture(30 * time.Millisecond)

	// Only the final revision should execute.
	repo.On("SearchTickets", mock.Anything, "ws-1", "printer", true, 20).
		Return([]domain.SearchResult{{Ticket: domain.Ticket{ID: "t-1"}}}, nil)

	session, err := svc.OpenSession(ctx, agentUser())
	assert.NoError(t, err)
	defer session.Close()

	for _, q := range []string{"p", "pr", "pri", "printer"} {
		session.SetQuery(q)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case result := <-session.Results():
		assert.NoError(t, result.Err)
		assert.Equal(t, "printer", result.Query)
		assert.Len(t, result.Results, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced result")
	}

	repo.AssertNumberOfCalls(t, "SearchTickets", 1)
}

func TestSearchSession_NewQuerySupersedesInFlight(t *testing.T) {
	ctx := context.Background()
	svc, repo := newSearchFixture(10 * time.Millisecond)

	slow := make(chan struct{})
	repo.On("SearchTickets", mock.Anything, "ws-1", "first", true, 20).
		Run(func(mock.Arguments) { <-slow }).
		Return([]domain.SearchResult{{Ticket: domain.Ticket{ID: "stale"}}}, nil)
	repo.On("SearchTickets", mock.Anything, "ws-1", "second", true, 20).
		Return([]domain.SearchResult{{Ticket: domain.Ticket{ID: "fresh"}}}, nil)

	session, err := svc.OpenSession(ctx, agentUser())
	assert.NoError(t, err)
	defer session.Close()

	session.SetQuery("first")
	time.Sleep(30 * time.Millisecond)
	session.SetQuery("second")
	time.Sleep(30 * time.Millisecond)
	close(slow)

	select {
	case result := <-session.Results():
		// The superseded query must never deliver its stale results.
		assert.Equal(t, "second", result.Query)
		assert.Equal(t, "fresh", result.Results[0].Ticket.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for superseding result")
	}
}

func TestSearchSession_CloseIsIdempotent(t *testing.T) {
	svc, _ := newSearchFixture(10 * time.Millisecond)

	session, err := svc.OpenSession(context.Background(), agentUser())
	assert.NoError(t, err)

	session.Close()
	session.Close()
}
