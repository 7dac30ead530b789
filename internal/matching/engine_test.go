package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asterhomes/preference-matching/internal/domain"
)

// fakePrefs and fakeListings stand in for the store at the engine's external
// boundaries.
type fakePrefs map[string]domain.Preference

func (f fakePrefs) GetPreference(_ context.Context, id string) (domain.Preference, error) {
	p, ok := f[id]
	if !ok {
		return domain.Preference{}, &domain.NotFoundError{Resource: "preference", ID: id}
	}
	return p, nil
}

type fakeListings struct {
	listings []domain.Listing
	err      error
}

func (f *fakeListings) FetchListings(_ context.Context, p Predicate) ([]domain.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Listing
	for _, l := range f.listings {
		if p.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func buyPreference(id string) domain.Preference {
	return domain.Preference{
		ID:   id,
		Mode: domain.ModeBuy,
		Location: domain.LocationCriteria{
			State: "Lagos",
		},
		Budget: domain.BudgetRange{Min: 50_000_000, Max: 80_000_000},
		Property: &domain.PropertyDetails{
			MinBedrooms: 3,
		},
	}
}

func saleListing(id, state, lga string, price float64, bedrooms int) domain.Listing {
	return domain.Listing{
		ID:         id,
		BriefType:  domain.BriefOutrightSales,
		Location:   domain.ListingLocation{State: state, LGA: lga},
		Price:      price,
		Bedrooms:   bedrooms,
		Bathrooms:  2,
		IsApproved: true,
	}
}

func TestMatchPreferenceStateFilterAndRanking(t *testing.T) {
	t.Parallel()

	prefs := fakePrefs{"pref-1": buyPreference("pref-1")}
	listings := &fakeListings{listings: []domain.Listing{
		saleListing("L1", "Lagos", "Ikeja", 65_000_000, 3),
		saleListing("L2", "Lagos", "Lekki", 60_000_000, 4),
		saleListing("L3", "Ogun", "Abeokuta South", 60_000_000, 3),
	}}

	engine := NewEngine(prefs, listings, 20)
	page, err := engine.MatchPreference(context.Background(), "pref-1", 1, 10)
	require.NoError(t, err)

	// L3 fails the state hard filter and never appears, no matter its soft
	// quality.
	require.Len(t, page.Data, 2)
	for _, m := range page.Data {
		assert.NotEqual(t, "L3", m.Listing.ID)
		assert.GreaterOrEqual(t, m.MatchScore, BaseScore)
		assert.LessOrEqual(t, m.MatchScore, BaseScore+MaxBonus)
	}

	// No LGA constraint was given: both earn the full location bonus, tie on
	// score, and keep fetch order.
	assert.Equal(t, "L1", page.Data[0].Listing.ID)
	assert.Equal(t, "L2", page.Data[1].Listing.ID)
	assert.GreaterOrEqual(t, page.Data[0].MatchScore, page.Data[1].MatchScore)
	assert.Equal(t, 2, page.Pagination.Total)
}

func TestMatchPreferenceEmptyCatalog(t *testing.T) {
	t.Parallel()

	prefs := fakePrefs{"pref-1": buyPreference("pref-1")}
	engine := NewEngine(prefs, &fakeListings{}, 20)

	page, err := engine.MatchPreference(context.Background(), "pref-1", 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Pagination.Total)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}

func TestMatchPreferenceNotFound(t *testing.T) {
	t.Parallel()

	engine := NewEngine(fakePrefs{}, &fakeListings{}, 20)
	_, err := engine.MatchPreference(context.Background(), "missing", 1, 10)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestMatchPreferenceValidationError(t *testing.T) {
	t.Parallel()

	incoherent := domain.Preference{ID: "pref-bad", Mode: domain.ModeBuy} // no detail bag
	engine := NewEngine(fakePrefs{"pref-bad": incoherent}, &fakeListings{}, 20)

	_, err := engine.MatchPreference(context.Background(), "pref-bad", 1, 10)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestMatchPreferenceFetchError(t *testing.T) {
	t.Parallel()

	prefs := fakePrefs{"pref-1": buyPreference("pref-1")}
	engine := NewEngine(prefs, &fakeListings{err: errors.New("store down")}, 20)

	_, err := engine.MatchPreference(context.Background(), "pref-1", 1, 10)
	require.Error(t, err)
	assert.True(t, domain.IsFetch(err))
}

func TestMatchPreferenceIdempotent(t *testing.T) {
	t.Parallel()

	prefs := fakePrefs{"pref-1": buyPreference("pref-1")}
	listings := &fakeListings{listings: []domain.Listing{
		saleListing("L1", "Lagos", "Ikeja", 65_000_000, 3),
		saleListing("L2", "Lagos", "Lekki", 60_000_000, 4),
		saleListing("L4", "Lagos", "Surulere", 55_000_000, 5),
	}}
	engine := NewEngine(prefs, listings, 20)

	first, err := engine.MatchPreference(context.Background(), "pref-1", 1, 10)
	require.NoError(t, err)
	second, err := engine.MatchPreference(context.Background(), "pref-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMatchPreferenceCancelledContext(t *testing.T) {
	t.Parallel()

	prefs := fakePrefs{"pref-1": buyPreference("pref-1")}
	listings := &fakeListings{listings: []domain.Listing{
		saleListing("L1", "Lagos", "Ikeja", 65_000_000, 3),
	}}
	engine := NewEngine(prefs, listings, 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.MatchPreference(ctx, "pref-1", 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// candidateSamples reads the global candidates histogram off the default
// registry.
func candidateSamples(t *testing.T) (count uint64, sum float64) {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "matching_candidates" {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		return h.GetSampleCount(), h.GetSampleSum()
	}
	return 0, 0
}

// Not parallel: it asserts deltas on process-global metrics.
func TestMatchPreferenceObservesCandidateCount(t *testing.T) {
	countBefore, sumBefore := candidateSamples(t)

	prefs := fakePrefs{"pref-1": buyPreference("pref-1")}
	listings := &fakeListings{listings: []domain.Listing{
		saleListing("L1", "Lagos", "Ikeja", 65_000_000, 3),
		saleListing("L2", "Lagos", "Lekki", 60_000_000, 4),
		saleListing("L3", "Ogun", "Abeokuta South", 60_000_000, 3),
	}}
	engine := NewEngine(prefs, listings, 20)

	_, err := engine.MatchPreference(context.Background(), "pref-1", 1, 10)
	require.NoError(t, err)

	countAfter, sumAfter := candidateSamples(t)
	assert.Equal(t, countBefore+1, countAfter)
	// The histogram sees the hard-filter survivors (2), not the page total.
	assert.InDelta(t, 2, sumAfter-sumBefore, 0.001)
}

func TestMatchPreferencePriorityShare(t *testing.T) {
	t.Parallel()

	var all []domain.Listing
	for i := 0; i < 10; i++ {
		l := saleListing(string(rune('A'+i)), "Lagos", "Ikeja", 55_000_000+float64(i)*1_000_000, 3+i%3)
		all = append(all, l)
	}
	prefs := fakePrefs{"pref-1": buyPreference("pref-1")}
	engine := NewEngine(prefs, &fakeListings{listings: all}, 20)

	page, err := engine.MatchPreference(context.Background(), "pref-1", 1, 100)
	require.NoError(t, err)
	require.Equal(t, 10, page.Pagination.Total)

	flagged := 0
	for i, m := range page.Data {
		if m.IsPriority {
			flagged++
		}
		if i > 0 {
			assert.GreaterOrEqual(t, page.Data[i-1].MatchScore, m.MatchScore)
		}
	}
	assert.Equal(t, PriorityCutoff(10), flagged)
}
