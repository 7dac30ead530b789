package matching

import "github.com/asterhomes/preference-matching/internal/domain"

// Paginate slices the ranked results into the requested page window. Pages
// are 1-based; an out-of-range page yields an empty data slice with the
// pagination header intact, never an error.
func Paginate(results []domain.MatchResult, page, limit int) domain.MatchPage {
	total := len(results)
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	end := start + limit
	data := []domain.MatchResult{}
	if start >= 0 && start < total {
		if end > total {
			end = total
		}
		data = results[start:end]
	}

	return domain.MatchPage{
		Data: data,
		Pagination: domain.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}
