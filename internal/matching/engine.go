package matching

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/asterhomes/preference-matching/internal/domain"
	"github.com/asterhomes/preference-matching/internal/logging"
	"github.com/asterhomes/preference-matching/internal/metrics"
)

// PreferenceSource resolves a stored preference by id. Implementations return
// *domain.NotFoundError for unknown ids.
type PreferenceSource interface {
	GetPreference(ctx context.Context, id string) (domain.Preference, error)
}

// ListingSource executes a hard-filter predicate against the listing store
// and returns the complete eligible set, unscored and unsorted. Fetch is
// all-or-nothing: on error no partial result is returned.
type ListingSource interface {
	FetchListings(ctx context.Context, p Predicate) ([]domain.Listing, error)
}

// Engine runs the matching pipeline: normalize, filter, fetch, score, rank,
// prioritize, paginate. It is stateless per invocation and safe for
// concurrent use.
type Engine struct {
	prefs    PreferenceSource
	listings ListingSource
	log      zerolog.Logger

	defaultLimit int
}

func NewEngine(prefs PreferenceSource, listings ListingSource, defaultLimit int) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &Engine{
		prefs:        prefs,
		listings:     listings,
		log:          logging.With().Str("component", "matching").Logger(),
		defaultLimit: defaultLimit,
	}
}

// MatchPreference resolves the preference, fetches eligible listings, and
// returns one ranked, prioritized page. Errors carry the taxonomy the caller
// maps to transport codes: NotFoundError, ValidationError, FetchError.
func (e *Engine) MatchPreference(ctx context.Context, preferenceID string, page, limit int) (domain.MatchPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = e.defaultLimit
	}

	pref, err := e.prefs.GetPreference(ctx, preferenceID)
	if err != nil {
		return domain.MatchPage{}, err
	}

	criteria, err := Normalize(pref)
	if err != nil {
		return domain.MatchPage{}, err
	}

	candidates, err := e.listings.FetchListings(ctx, BuildPredicate(criteria))
	if err != nil {
		return domain.MatchPage{}, &domain.FetchError{Err: err}
	}
	metrics.ObserveCandidates(len(candidates))

	scored, err := scoreAll(ctx, candidates, criteria)
	if err != nil {
		return domain.MatchPage{}, err
	}

	scored = Threshold(scored)
	Rank(scored)
	results := Prioritize(scored)

	e.log.Debug().
		Str("preference_id", preferenceID).
		Int("candidates", len(candidates)).
		Int("matches", len(results)).
		Msg("preference matched")

	return Paginate(results, page, limit), nil
}

// scoreAll scores every candidate in fetch order. Scoring is pure per
// listing, so a caller abort just stops the loop; there is nothing to roll
// back.
func scoreAll(ctx context.Context, candidates []domain.Listing, c Criteria) ([]ScoredListing, error) {
	scored := make([]ScoredListing, 0, len(candidates))
	for _, l := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, breakdown := Score(l, c)
		scored = append(scored, ScoredListing{Listing: l, Score: score, Breakdown: breakdown})
	}
	return scored, nil
}
