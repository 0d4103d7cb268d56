package domain

// SearchResult is one ranked hit against ticket and comment content. When
// the match came from a comment, the matched comment fields are populated
// alongside the owning ticket.
type SearchResult struct {
	Ticket                Ticket
	Rank                  float32
	MatchedCommentID      *string
	MatchedCommentContent *string
	MatchedCommentType    *CommentType
}
