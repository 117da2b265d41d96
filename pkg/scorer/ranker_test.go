package scorer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/arnavshah/vendor-match-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func sampleVendors() []models.VendorCandidate {
	far := heritageVenue()
	far.Name = "Capital Grand"
	far.Location = "Delhi"

	pricey := heritageVenue()
	pricey.Name = "Sea Link Ballroom"
	pricey.Price = "₹20-25 lakh"

	small := heritageVenue()
	small.Name = "Courtyard Cafe"
	small.Capacity = "50-100"

	return []models.VendorCandidate{far, pricey, heritageVenue(), small}
}

func names(ranked []models.ScoredVendor) []string {
	out := make([]string, len(ranked))
	for i, v := range ranked {
		out[i] = v.Name
	}
	return out
}

func TestRankSortsDescending(t *testing.T) {
	s := newTestScorer(t)

	ranked, err := s.Rank(mumbaiRequirements(), sampleVendors())
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	assert.Equal(t, "Royal Heritage Palace", ranked[0].Name)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].OverallScore, ranked[i].OverallScore)
	}
}

func TestRankIsStableForTies(t *testing.T) {
	s := newTestScorer(t)

	var vendors []models.VendorCandidate
	for i := 0; i < 5; i++ {
		v := heritageVenue()
		v.Name = fmt.Sprintf("Twin %d", i)
		vendors = append(vendors, v)
	}

	ranked, err := s.Rank(mumbaiRequirements(), vendors)
	require.NoError(t, err)
	assert.Equal(t, []string{"Twin 0", "Twin 1", "Twin 2", "Twin 3", "Twin 4"}, names(ranked))

	reversed := make([]models.VendorCandidate, len(vendors))
	for i, v := range vendors {
		reversed[len(vendors)-1-i] = v
	}
	ranked, err = s.Rank(mumbaiRequirements(), reversed)
	require.NoError(t, err)
	assert.Equal(t, []string{"Twin 4", "Twin 3", "Twin 2", "Twin 1", "Twin 0"}, names(ranked))
}

func TestRankRepeatable(t *testing.T) {
	s := newTestScorer(t)
	first, err := s.Rank(mumbaiRequirements(), sampleVendors())
	require.NoError(t, err)
	second, err := s.Rank(mumbaiRequirements(), sampleVendors())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRankEmpty(t *testing.T) {
	s := newTestScorer(t)
	ranked, err := s.Rank(mumbaiRequirements(), nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankRejectsInvalidGuestCount(t *testing.T) {
	s := newTestScorer(t)
	req := mumbaiRequirements()
	req.GuestCount = 0

	_, err := s.Rank(req, sampleVendors())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "guest_count", inputErr.Field)

	_, err = s.Score(req, heritageVenue())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRankConcurrentMatchesRank(t *testing.T) {
	s := newTestScorer(t, WithLogger(zaptest.NewLogger(t)))

	var vendors []models.VendorCandidate
	for i := 0; i < 40; i++ {
		v := sampleVendors()[i%4]
		v.Name = fmt.Sprintf("%s #%d", v.Name, i)
		vendors = append(vendors, v)
	}

	want, err := s.Rank(mumbaiRequirements(), vendors)
	require.NoError(t, err)

	for _, limit := range []int{0, 1, 4, 64} {
		got, err := s.RankConcurrent(context.Background(), mumbaiRequirements(), vendors, limit)
		require.NoError(t, err)
		assert.Equal(t, want, got, "limit %d", limit)
	}
}

func TestRankConcurrentCancelled(t *testing.T) {
	s := newTestScorer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.RankConcurrent(ctx, mumbaiRequirements(), sampleVendors(), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
