package swipe

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sokolgood/duga-backend/internal/location"
	"github.com/sokolgood/duga-backend/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

type coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type candidateResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Tags         []string    `json:"tags"`
	Address      string      `json:"address,omitempty"`
	Rating       float64     `json:"rating"`
	WorkingHours string      `json:"working_hours,omitempty"`
	ImageURL     string      `json:"image_url,omitempty"`
	DistanceKm   *float64    `json:"distance_km"`
	Coordinates  coordinates `json:"coordinates"`
}

type historyResponse struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	LocationID string            `json:"location_id"`
	Action     Action            `json:"action"`
	CreatedAt  time.Time         `json:"created_at"`
	Location   candidateResponse `json:"location"`
}

type actionRequest struct {
	LocationID string `json:"location_id"`
	Action     string `json:"action"`
}

const defaultFeedLimit = 50

// RegisterRoutes mounts the swipe endpoints. feedLimit caps the candidates
// page size; requests asking for more are rejected.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler, feedLimit int) {
	if feedLimit <= 0 {
		feedLimit = defaultFeedLimit
	}
	defaultLimit := 10
	if feedLimit < defaultLimit {
		defaultLimit = feedLimit
	}

	r.Get("/candidates", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "user not resolved")
		}

		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
		if err != nil || limit < 1 || limit > feedLimit {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", feedLimit))
		}

		coords, err := coordsFromQuery(c.Query("start_lat"), c.Query("start_lng"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var interests []string
		for _, tag := range strings.Split(c.Query("interests"), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				interests = append(interests, tag)
			}
		}

		candidates, err := svc.GetCandidates(c.Context(), userID, interests, coords, limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		resp := make([]candidateResponse, 0, len(candidates))
		for _, cand := range candidates {
			resp = append(resp, toCandidateResponse(cand))
		}
		return c.JSON(resp)
	})

	r.Post("/action", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "user not resolved")
		}

		var req actionRequest
		if err := c.BodyParser(&req); err != nil || req.LocationID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "location_id and action required")
		}
		action, ok := ParseAction(req.Action)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "action must be like, dislike or hide")
		}

		if err := svc.CreateSwipe(c.Context(), userID, req.LocationID, action); err != nil {
			if errors.Is(err, location.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "location not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/history", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "user not resolved")
		}

		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil || limit < 1 || limit > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "offset must not be negative")
		}

		var filter Action
		if raw := c.Query("filter"); raw != "" {
			parsed, ok := ParseAction(raw)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "filter must be like, dislike or hide")
			}
			filter = parsed
		}

		items, err := svc.History(c.Context(), userID, limit, offset, filter)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		resp := make([]historyResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, historyResponse{
				ID:         item.ID,
				UserID:     item.UserID,
				LocationID: item.LocationID,
				Action:     item.Action,
				CreatedAt:  item.CreatedAt,
				Location:   toCandidateResponse(location.Candidate{Location: item.Location}),
			})
		}
		return c.JSON(resp)
	})
}

func coordsFromQuery(latRaw, lngRaw string) (*geo.Point, error) {
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, errors.New("start_lat and start_lng must be supplied together")
	}
	// ParseFloat accepts "NaN" and "Inf"; NaN slips past range comparisons
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return nil, errors.New("start_lat must be between -90 and 90")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		return nil, errors.New("start_lng must be between -180 and 180")
	}
	return &geo.Point{Lat: lat, Lng: lng}, nil
}

func toCandidateResponse(cand location.Candidate) candidateResponse {
	resp := candidateResponse{
		ID:           cand.ID,
		Name:         cand.Name,
		Description:  cand.Description,
		Tags:         cand.Tags,
		Address:      cand.Address,
		Rating:       cand.Rating,
		WorkingHours: cand.WorkingHours,
		ImageURL:     cand.ImageURL,
		Coordinates:  coordinates{Lat: cand.Latitude, Lng: cand.Longitude},
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if cand.DistanceKm != nil {
		rounded := math.Round(*cand.DistanceKm*10) / 10
		resp.DistanceKm = &rounded
	}
	return resp
}
