package swipe

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

var historyColumns = []string{
	"id", "user_id", "location_id", "action", "created_at",
	"l_id", "l_name", "l_latitude", "l_longitude", "l_categories", "l_tags",
	"l_instagram_url", "l_maps_url", "l_working_hours", "l_address", "l_description",
	"l_rating", "l_image_url", "l_created_at",
}

func historyRow(rows *pgxmock.Rows, swipeID string, action Action, createdAt time.Time, locID, locName string) *pgxmock.Rows {
	return rows.AddRow(swipeID, "user-1", locID, action, createdAt,
		locID, locName, 55.7558, 37.6173, []string{"cafe"}, []string{"cozy"},
		"", "", "", "", "", 0.0, "", createdAt)
}

func TestRecordSwipe(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO swipes`).
		WithArgs(pgxmock.AnyArg(), "user-1", "loc-1", "like").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	ledger := NewLedger(mock)
	s, err := ledger.RecordSwipe(context.Background(), "user-1", "loc-1", ActionLike)
	if err != nil {
		t.Fatalf("record swipe: %v", err)
	}
	if s.ID == "" || s.Action != ActionLike || !s.CreatedAt.Equal(createdAt) {
		t.Fatalf("unexpected swipe %+v", s)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordSwipeRepeatedAllowed(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	// same (user, location) twice: the log keeps both rows
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`INSERT INTO swipes`).
			WithArgs(pgxmock.AnyArg(), "user-1", "loc-1", "hide").
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	}

	ledger := NewLedger(mock)
	first, err := ledger.RecordSwipe(context.Background(), "user-1", "loc-1", ActionHide)
	if err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	second, err := ledger.RecordSwipe(context.Background(), "user-1", "loc-1", ActionHide)
	if err != nil {
		t.Fatalf("second swipe: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct swipe ids")
	}
}

func TestListSwipes(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows(historyColumns)
	historyRow(rows, "sw-3", ActionLike, now, "loc-3", "Third")
	historyRow(rows, "sw-2", ActionDislike, now.Add(-time.Minute), "loc-2", "Second")
	historyRow(rows, "sw-1", ActionLike, now.Add(-2*time.Minute), "loc-1", "First")
	mock.ExpectQuery(`WHERE s\.user_id=\$1 ORDER BY s\.created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("user-1", 20, 0).
		WillReturnRows(rows)

	ledger := NewLedger(mock)
	items, err := ledger.ListSwipes(context.Background(), "user-1", 20, 0, "")
	if err != nil {
		t.Fatalf("list swipes: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatalf("expected newest-first order")
		}
	}
	if items[0].Location.Name != "Third" {
		t.Fatalf("expected eager-loaded location, got %+v", items[0].Location)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListSwipesWithActionFilter(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows(historyColumns)
	historyRow(rows, "sw-3", ActionLike, now, "loc-3", "Third")
	historyRow(rows, "sw-1", ActionLike, now.Add(-2*time.Minute), "loc-1", "First")
	mock.ExpectQuery(`WHERE s\.user_id=\$1 AND s\.action=\$2 ORDER BY s\.created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("user-1", "like", 20, 0).
		WillReturnRows(rows)

	ledger := NewLedger(mock)
	items, err := ledger.ListSwipes(context.Background(), "user-1", 20, 0, ActionLike)
	if err != nil {
		t.Fatalf("list swipes: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 liked rows, got %d", len(items))
	}
	for _, item := range items {
		if item.Action != ActionLike {
			t.Fatalf("expected only like rows")
		}
	}
}

func TestListSwipesEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`WHERE s\.user_id=\$1 ORDER BY s\.created_at DESC`).
		WithArgs("user-1", 20, 0).
		WillReturnRows(pgxmock.NewRows(historyColumns))

	ledger := NewLedger(mock)
	items, err := ledger.ListSwipes(context.Background(), "user-1", 20, 0, "")
	if err != nil {
		t.Fatalf("expected no error for empty history, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty history")
	}
}

func TestListSwipedLocationIDs(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT DISTINCT location_id FROM swipes WHERE user_id=\$1`).
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{"location_id"}).AddRow("loc-1").AddRow("loc-2"))
	}

	ledger := NewLedger(mock)
	ids, err := ledger.ListSwipedLocationIDs(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list swiped ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct ids, got %v", ids)
	}

	// repeated call without intervening writes yields the identical set
	again, err := ledger.ListSwipedLocationIDs(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(again) != len(ids) || again[0] != ids[0] || again[1] != ids[1] {
		t.Fatalf("expected identical sets, got %v and %v", ids, again)
	}
}

func TestListSwipedLocationIDsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT DISTINCT location_id FROM swipes WHERE user_id=\$1`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"location_id"}))

	ledger := NewLedger(mock)
	ids, err := ledger.ListSwipedLocationIDs(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty set")
	}
}

func TestParseAction(t *testing.T) {
	for _, valid := range []string{"like", "dislike", "hide"} {
		if _, ok := ParseAction(valid); !ok {
			t.Fatalf("expected %q to parse", valid)
		}
	}
	if _, ok := ParseAction("favorite"); ok {
		t.Fatalf("expected unknown action to fail")
	}
	if _, ok := ParseAction(""); ok {
		t.Fatalf("expected empty action to fail")
	}
}
