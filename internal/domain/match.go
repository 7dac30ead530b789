package domain

// MatchResult is one scored, ranked candidate. Transient per request; the
// engine never persists it.
type MatchResult struct {
	Listing    ListingSummary `json:"listing"`
	MatchScore int            `json:"match_score"`
	IsPriority bool           `json:"is_priority"`
}

// Pagination describes the page window of a match response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// MatchPage is one page of ranked matches. An empty page is a valid,
// non-error response.
type MatchPage struct {
	Data       []MatchResult `json:"data"`
	Pagination Pagination    `json:"pagination"`
}
