package scorer

import (
	"context"
	"sort"

	"github.com/arnavshah/vendor-match-api/pkg/models"
	"golang.org/x/sync/errgroup"
)

// Rank scores every vendor and sorts them by overall score, best first.
// Vendors with equal scores keep their input order.
func (s *Scorer) Rank(req models.WeddingRequirements, vendors []models.VendorCandidate) ([]models.ScoredVendor, error) {
	if err := validateRequirements(req); err != nil {
		return nil, err
	}

	p := newRequirementProfile(req)
	ranked := make([]models.ScoredVendor, len(vendors))
	for i, v := range vendors {
		ranked[i] = models.ScoredVendor{VendorCandidate: v, ScoreResult: s.score(p, v)}
	}
	sortByScore(ranked)
	return ranked, nil
}

// RankConcurrent produces the same result as Rank, scoring vendors on up to
// limit goroutines. The sort runs once every score is in.
func (s *Scorer) RankConcurrent(ctx context.Context, req models.WeddingRequirements, vendors []models.VendorCandidate, limit int) ([]models.ScoredVendor, error) {
	if err := validateRequirements(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := newRequirementProfile(req)
	ranked := make([]models.ScoredVendor, len(vendors))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range vendors {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ranked[i] = models.ScoredVendor{VendorCandidate: vendors[i], ScoreResult: s.score(p, vendors[i])}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortByScore(ranked)
	return ranked, nil
}

func sortByScore(ranked []models.ScoredVendor) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})
}
