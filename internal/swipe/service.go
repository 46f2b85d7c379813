package swipe

import (
	"context"

	"github.com/sokolgood/duga-backend/internal/location"
	"github.com/sokolgood/duga-backend/internal/shared/geo"
)

const defaultRadiusKm = 5.0

// Service composes the swipe ledger and the location catalog into the
// candidate feed and the swipe-recording flow.
type Service struct {
	ledger    *Ledger
	locations *location.Service
	radiusKm  float64
}

func NewService(ledger *Ledger, locations *location.Service, radiusKm float64) *Service {
	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}
	return &Service{ledger: ledger, locations: locations, radiusKm: radiusKm}
}

// GetCandidates returns locations the user has not swiped on yet. A location
// counts as seen as soon as any swipe row exists for it, whatever the action.
// Interests narrow the feed to locations sharing at least one tag. With
// coordinates the feed is ranked nearest first within the configured radius;
// without them the order is randomized and distances are nil.
func (s *Service) GetCandidates(ctx context.Context, userID string, interests []string, coords *geo.Point, limit int) ([]location.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	excludeIDs, err := s.ledger.ListSwipedLocationIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.locations.FindFiltered(ctx, excludeIDs, interests, coords, s.radiusKm)
	if err != nil {
		return nil, err
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// CreateSwipe appends a swipe after checking the location exists. Returns
// location.ErrNotFound without recording anything when it does not.
func (s *Service) CreateSwipe(ctx context.Context, userID, locationID string, action Action) error {
	if _, err := s.locations.Get(ctx, locationID); err != nil {
		return err
	}
	_, err := s.ledger.RecordSwipe(ctx, userID, locationID, action)
	return err
}

func (s *Service) History(ctx context.Context, userID string, limit, offset int, actionFilter Action) ([]HistoryItem, error) {
	return s.ledger.ListSwipes(ctx, userID, limit, offset, actionFilter)
}
