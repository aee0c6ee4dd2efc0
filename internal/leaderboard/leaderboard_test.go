package leaderboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tenfreethrows/freethrows/internal/game"
)

func TestQueryNormalize(t *testing.T) {
	cases := []struct {
		in   Query
		want Query
	}{
		{Query{}, Query{View: ViewLeaderboard, Page: 1, Limit: DefaultLimit}},
		{Query{View: ViewWithMissing, Search: "  amara ", Page: 3, Limit: 10}, Query{View: ViewWithMissing, Search: "amara", Page: 3, Limit: 10}},
		{Query{Page: -2, Limit: 1000}, Query{View: ViewLeaderboard, Page: 1, Limit: MaxLimit}},
	}
	for _, c := range cases {
		got, err := c.in.Normalize()
		if err != nil {
			t.Fatalf("Normalize(%+v): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestQueryRejectsUnknownView(t *testing.T) {
	for _, view := range []string{"users", "leaderboard; DROP TABLE users", "LEADERBOARD"} {
		if _, err := (Query{View: view}).Normalize(); !errors.Is(err, ErrInvalidView) {
			t.Errorf("view %q: err = %v, want ErrInvalidView", view, err)
		}
	}
}

func TestQueryOffsetAndCacheKey(t *testing.T) {
	q, _ := Query{Search: "Ama", Page: 3, Limit: 20}.Normalize()
	if q.offset() != 40 {
		t.Errorf("offset = %d, want 40", q.offset())
	}
	if got := q.cacheKey(); got != "freethrows:leaderboard:leaderboard:ama:3:20" {
		t.Errorf("cache key = %q", got)
	}
}

func TestPageValidatesBeforeQuerying(t *testing.T) {
	repo := NewRepository(nil, nil, 0, nil)
	if _, err := repo.Page(context.Background(), Query{View: "nope"}); !errors.Is(err, ErrInvalidView) {
		t.Errorf("err = %v, want ErrInvalidView", err)
	}
}

func TestRecordRoundValidatesInput(t *testing.T) {
	repo := NewRepository(nil, nil, 0, nil)
	ctx := context.Background()

	if _, err := repo.RecordRound(ctx, "  ", game.RoundResult{Date: "2025-09-10"}); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("blank username: err = %v", err)
	}
	if _, err := repo.RecordRound(ctx, "amara", game.RoundResult{Date: "10/09/2025"}); err == nil {
		t.Errorf("bad date accepted")
	}
	if _, err := repo.FindUsers(ctx, ""); !errors.Is(err, ErrInvalidUsername) {
		t.Errorf("empty search: err = %v", err)
	}
}

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  amara ", "amara", true},
		{"j.doe_99-x", "j.doe_99-x", true},
		{"", "", false},
		{"two words", "", false},
		{"emoji🏀", "", false},
		{strings.Repeat("a", 33), "", false},
	}
	for _, c := range cases {
		got, err := NormalizeUsername(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("NormalizeUsername(%q) = %q, %v; want %q", c.in, got, err, c.want)
		}
		if !c.ok && !errors.Is(err, ErrInvalidUsername) {
			t.Errorf("NormalizeUsername(%q) err = %v, want ErrInvalidUsername", c.in, err)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"amara":   "amara",
		"100%":    `100\%`,
		"j_doe":   `j\_doe`,
		`back\sl`: `back\\sl`,
		"%_":      `\%\_`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
