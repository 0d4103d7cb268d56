package dto

import (
	"github.com/deskwise/helpdesk-service/internal/domain"
)

// SearchResultResponse is one ranked hit. When the hit came from a comment
// the matched snippet rides along.
type SearchResultResponse struct {
	Ticket           TicketResponse `json:"ticket"`
	Rank             float32        `json:"rank"`
	MatchedCommentID *string        `json:"matched_comment_id,omitempty"`
	MatchedComment   *string        `json:"matched_comment,omitempty"`
}

// SearchResponse wraps the ranked result list.
type SearchResponse struct {
	Query   string                 `json:"query"`
	Results []SearchResultResponse `json:"results"`
}

// NewSearchResponse maps ranked results.
func NewSearchResponse(query string, results []domain.SearchResult) SearchResponse {
	out := make([]SearchResultResponse, 0, len(results))
	for i := range results {
		r := &results[i]
		out = append(out, SearchResultResponse{
			Ticket:           NewTicketResponse(&r.Ticket),
			Rank:             r.Rank,
			MatchedCommentID: r.MatchedCommentID,
			MatchedComment:   r.MatchedCommentContent,
		})
	}
	return SearchResponse{Query: query, Results: out}
}
