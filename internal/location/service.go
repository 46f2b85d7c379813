package location

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sokolgood/duga-backend/internal/db"
	"github.com/sokolgood/duga-backend/internal/shared/geo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("location not found")

const locationFields = `id, name, latitude, longitude, categories, tags,
	COALESCE(instagram_url,''), COALESCE(maps_url,''), COALESCE(working_hours,''),
	COALESCE(address,''), COALESCE(description,''), COALESCE(rating,0),
	COALESCE((SELECT photo_url FROM photos p WHERE p.location_id = locations.id ORDER BY p.ord LIMIT 1), ''),
	created_at`

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, input Location, photoURLs []string) (Location, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO locations (id, name, latitude, longitude, categories, tags, instagram_url, maps_url, working_hours, address, description, rating)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at
	`, input.ID, input.Name, input.Latitude, input.Longitude, input.Categories, input.Tags,
		input.InstagramURL, input.MapsURL, input.WorkingHours, input.Address, input.Description, input.Rating)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Location{}, err
	}

	for i, url := range photoURLs {
		_, err := s.db.Exec(ctx, `
			INSERT INTO photos (id, location_id, photo_url, ord)
			VALUES ($1,$2,$3,$4)
		`, uuid.NewString(), input.ID, url, i)
		if err != nil {
			return Location{}, err
		}
	}
	if len(photoURLs) > 0 {
		input.ImageURL = photoURLs[0]
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, id string) (Location, error) {
	row := s.db.QueryRow(ctx, `SELECT `+locationFields+` FROM locations WHERE id=$1`, id)
	loc, err := scanLocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	if err != nil {
		return Location{}, err
	}
	return loc, nil
}

func (s *Service) List(ctx context.Context, limit, offset int, category string) ([]Location, error) {
	query := `SELECT ` + locationFields + ` FROM locations`
	args := []any{}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" WHERE $%d = ANY(categories)", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (s *Service) Update(ctx context.Context, id string, patch Location) (Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return Location{}, err
	}
	if patch.Name != "" {
		loc.Name = patch.Name
	}
	if patch.Categories != nil {
		loc.Categories = patch.Categories
	}
	if patch.Tags != nil {
		loc.Tags = patch.Tags
	}
	if patch.InstagramURL != "" {
		loc.InstagramURL = patch.InstagramURL
	}
	if patch.MapsURL != "" {
		loc.MapsURL = patch.MapsURL
	}
	if patch.WorkingHours != "" {
		loc.WorkingHours = patch.WorkingHours
	}
	if patch.Address != "" {
		loc.Address = patch.Address
	}
	if patch.Description != "" {
		loc.Description = patch.Description
	}
	if patch.Rating != 0 {
		loc.Rating = patch.Rating
	}

	_, err = s.db.Exec(ctx, `
		UPDATE locations
		SET name=$2, categories=$3, tags=$4, instagram_url=$5, maps_url=$6,
		    working_hours=$7, address=$8, description=$9, rating=$10
		WHERE id=$1
	`, loc.ID, loc.Name, loc.Categories, loc.Tags, loc.InstagramURL, loc.MapsURL,
		loc.WorkingHours, loc.Address, loc.Description, loc.Rating)
	if err != nil {
		return Location{}, err
	}
	return loc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM locations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) GetByIDs(ctx context.Context, ids []string) ([]Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `SELECT `+locationFields+` FROM locations WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// FindFiltered returns candidate locations outside the exclusion set,
// optionally restricted to locations sharing at least one of the given tags.
// Without coordinates the store shuffles the result (ORDER BY random()) and
// every distance is nil. With coordinates each qualifying row gets a
// great-circle distance from the caller's position; rows farther than
// radiusKm are dropped and the rest are sorted nearest first.
func (s *Service) FindFiltered(ctx context.Context, excludeIDs, tags []string, coords *geo.Point, radiusKm float64) ([]Candidate, error) {
	if excludeIDs == nil {
		excludeIDs = []string{}
	}

	query := `SELECT ` + locationFields + ` FROM locations WHERE NOT (id = ANY($1))`
	args := []any{excludeIDs}
	if len(tags) > 0 {
		args = append(args, tags)
		query += fmt.Sprintf(" AND tags && $%d", len(args))
	}
	if coords == nil {
		query += " ORDER BY random()"
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{Location: loc})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if coords == nil {
		return candidates, nil
	}

	within := candidates[:0]
	for _, c := range candidates {
		d := geo.HaversineKm(coords.Lat, coords.Lng, c.Latitude, c.Longitude)
		if d > radiusKm {
			continue
		}
		c.DistanceKm = &d
		within = append(within, c)
	}
	sort.SliceStable(within, func(i, j int) bool {
		return *within[i].DistanceKm < *within[j].DistanceKm
	})
	return within, nil
}

func scanLocation(row pgx.Row) (Location, error) {
	var loc Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Categories, &loc.Tags,
		&loc.InstagramURL, &loc.MapsURL, &loc.WorkingHours, &loc.Address, &loc.Description,
		&loc.Rating, &loc.ImageURL, &loc.CreatedAt)
	return loc, err
}
