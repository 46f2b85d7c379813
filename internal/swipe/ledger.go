package swipe

import (
	"context"
	"fmt"

	"github.com/sokolgood/duga-backend/internal/db"

	"github.com/google/uuid"
)

// Ledger is the append-only log of swipe records. Rows are never updated;
// repeated swipes on the same location by the same user all get their own row.
type Ledger struct {
	db db.Querier
}

func NewLedger(db db.Querier) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) RecordSwipe(ctx context.Context, userID, locationID string, action Action) (Swipe, error) {
	s := Swipe{
		ID:         uuid.NewString(),
		UserID:     userID,
		LocationID: locationID,
		Action:     action,
	}
	row := l.db.QueryRow(ctx, `
		INSERT INTO swipes (id, user_id, location_id, action)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, s.ID, s.UserID, s.LocationID, string(s.Action))
	if err := row.Scan(&s.CreatedAt); err != nil {
		return Swipe{}, err
	}
	return s, nil
}

// ListSwipes returns the user's swipes newest first, each carrying its
// location row, optionally restricted to a single action.
func (l *Ledger) ListSwipes(ctx context.Context, userID string, limit, offset int, actionFilter Action) ([]HistoryItem, error) {
	query := `
		SELECT s.id, s.user_id, s.location_id, s.action, s.created_at,
		       l.id, l.name, l.latitude, l.longitude, l.categories, l.tags,
		       COALESCE(l.instagram_url,''), COALESCE(l.maps_url,''), COALESCE(l.working_hours,''),
		       COALESCE(l.address,''), COALESCE(l.description,''), COALESCE(l.rating,0),
		       COALESCE((SELECT photo_url FROM photos p WHERE p.location_id = l.id ORDER BY p.ord LIMIT 1), ''),
		       l.created_at
		FROM swipes s
		JOIN locations l ON l.id = s.location_id
		WHERE s.user_id=$1`
	args := []any{userID}
	if actionFilter != "" {
		args = append(args, string(actionFilter))
		query += fmt.Sprintf(" AND s.action=$%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY s.created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []HistoryItem
	for rows.Next() {
		var item HistoryItem
		loc := &item.Location
		if err := rows.Scan(&item.ID, &item.UserID, &item.LocationID, &item.Action, &item.CreatedAt,
			&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Categories, &loc.Tags,
			&loc.InstagramURL, &loc.MapsURL, &loc.WorkingHours,
			&loc.Address, &loc.Description, &loc.Rating, &loc.ImageURL, &loc.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListSwipedLocationIDs returns the distinct set of location ids the user has
// ever swiped on, regardless of action. This is the exclusion input for the
// candidate feed.
func (l *Ledger) ListSwipedLocationIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := l.db.Query(ctx, `SELECT DISTINCT location_id FROM swipes WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
