// Package leaderboard reads the ranking views and records completed rounds.
package leaderboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/models"
)

var (
	ErrInvalidView     = errors.New("invalid leaderboard view")
	ErrInvalidUsername = errors.New("invalid username")
)

const (
	ViewLeaderboard = "leaderboard"
	ViewWithMissing = "leaderboard_with_missing"

	DefaultLimit = 25
	MaxLimit     = 100

	cachePrefix = "freethrows:leaderboard:"
	dateLayout  = "2006-01-02"

	maxUsernameLen = 32
)

// NormalizeUsername trims name and checks it is 1-32 letters, digits,
// '_', '-' or '.'.
func NormalizeUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxUsernameLen {
		return "", ErrInvalidUsername
	}
	for _, r := range name {
		ok := r == '_' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return "", ErrInvalidUsername
		}
	}
	return name, nil
}

// Query selects a page of a leaderboard view.
type Query struct {
	View   string
	Search string
	Page   int
	Limit  int
}

// Normalize validates the view name and clamps paging. The view name ends
// up in SQL text, so only the known views pass.
func (q Query) Normalize() (Query, error) {
	if q.View == "" {
		q.View = ViewLeaderboard
	}
	if q.View != ViewLeaderboard && q.View != ViewWithMissing {
		return q, fmt.Errorf("%w: %q", ErrInvalidView, q.View)
	}
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	q.Limit = min(q.Limit, MaxLimit)
	return q, nil
}

func (q Query) offset() int { return (q.Page - 1) * q.Limit }

func (q Query) cacheKey() string {
	return fmt.Sprintf("%s%s:%s:%d:%d", cachePrefix, q.View, strings.ToLower(q.Search), q.Page, q.Limit)
}

// Result is one page of rankings.
type Result struct {
	LastUpdatedAt *time.Time                `json:"last_updated_at"`
	Data          []models.LeaderboardEntry `json:"data"`
}

type Repository struct {
	db  *sqlx.DB
	rdb *redis.Client
	ttl time.Duration
	log *log.Logger
}

// NewRepository builds a repository. rdb may be nil to disable caching.
func NewRepository(db *sqlx.DB, rdb *redis.Client, ttl time.Duration, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.Default()
	}
	return &Repository{db: db, rdb: rdb, ttl: ttl, log: logger}
}

// Page returns the requested page, served from the cache when fresh.
func (r *Repository) Page(ctx context.Context, q Query) (Result, error) {
	q, err := q.Normalize()
	if err != nil {
		return Result{}, err
	}

	if res, ok := r.cached(ctx, q); ok {
		return res, nil
	}

	var res Result
	query := fmt.Sprintf(`
		SELECT user_id, username, days_played, total_score, best_score, average_score, missing_days, last_played
		FROM %s
		WHERE ($1 = '' OR username ILIKE '%%' || $1 || '%%' ESCAPE '\')
		ORDER BY total_score DESC, average_score DESC, username
		LIMIT $2 OFFSET $3
	`, q.View)
	if err := r.db.SelectContext(ctx, &res.Data, query, escapeLike(q.Search), q.Limit, q.offset()); err != nil {
		return Result{}, fmt.Errorf("select %s: %w", q.View, err)
	}
	if res.Data == nil {
		res.Data = []models.LeaderboardEntry{}
	}

	var last sql.NullTime
	if err := r.db.GetContext(ctx, &last, `SELECT MAX(updated_at) FROM free_throw_rounds`); err != nil {
		return Result{}, fmt.Errorf("last update: %w", err)
	}
	if last.Valid {
		res.LastUpdatedAt = &last.Time
	}

	r.store(ctx, q, res)
	return res, nil
}

func (r *Repository) cached(ctx context.Context, q Query) (Result, bool) {
	if r.rdb == nil || r.ttl <= 0 {
		return Result{}, false
	}
	raw, err := r.rdb.Get(ctx, q.cacheKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("leaderboard cache read", "err", err)
		}
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, false
	}
	return res, true
}

func (r *Repository) store(ctx context.Context, q Query, res Result) {
	if r.rdb == nil || r.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, q.cacheKey(), raw, r.ttl).Err(); err != nil {
		r.log.Warn("leaderboard cache write", "err", err)
	}
}

// Invalidate drops every cached page.
func (r *Repository) Invalidate(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	iter := r.rdb.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("leaderboard cache scan", "err", err)
		return
	}
	if len(keys) > 0 {
		if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
			r.log.Warn("leaderboard cache invalidate", "keys", len(keys), "err", err)
		}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using '\' as the
// escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FindUsers returns users whose name contains username, case-insensitively.
func (r *Repository) FindUsers(ctx context.Context, username string) ([]models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, username, created_at FROM users
		WHERE username ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY username
		LIMIT 50
	`, escapeLike(username))
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	return users, nil
}

// RecordRound stores a completed round for username, creating the user on
// first sight. A second round on the same day keeps the higher score.
func (r *Repository) RecordRound(ctx context.Context, username string, res game.RoundResult) (int, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return 0, err
	}
	if res.Score < 0 || res.BestStreak < 0 || res.DaysInARow < 0 {
		return 0, fmt.Errorf("negative counters in round result")
	}
	playedOn, err := time.Parse(dateLayout, res.Date)
	if err != nil {
		return 0, fmt.Errorf("bad round date %q: %w", res.Date, err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var userID int
	err = tx.GetContext(ctx, &userID, `
		INSERT INTO users (username) VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username)
	if err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}

	var roundID int
	err = tx.GetContext(ctx, &roundID, `
		INSERT INTO free_throw_rounds (user_id, played_on, score, best_streak, days_in_a_row)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, played_on) DO UPDATE SET
			score = GREATEST(free_throw_rounds.score, EXCLUDED.score),
			best_streak = GREATEST(free_throw_rounds.best_streak, EXCLUDED.best_streak),
			days_in_a_row = EXCLUDED.days_in_a_row,
			updated_at = NOW()
		RETURNING id
	`, userID, playedOn, res.Score, res.BestStreak, res.DaysInARow)
	if err != nil {
		return 0, fmt.Errorf("upsert round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	r.Invalidate(ctx)
	return roundID, nil
}

// DeleteRound removes a round. It reports false when no such round exists.
func (r *Repository) DeleteRound(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM free_throw_rounds WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete round: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		r.Invalidate(ctx)
	}
	return n > 0, nil
}
