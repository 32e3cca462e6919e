package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hos-trip-planner/internal/platform/obs"
	"hos-trip-planner/internal/ports"
)

// SQLRouteCache stores computed routes as JSON documents keyed by waypoints.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect Dialect
	// Entries older than TTL are treated as misses. Zero keeps them forever.
	TTL time.Duration

	now func() time.Time
}

func NewSQLRouteCache(db *sql.DB, dialect Dialect, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, Dialect: dialect, TTL: ttl, now: time.Now}
}

// Get returns the route stored under key and whether it was found.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	q := fmt.Sprintf(`
	SELECT payload, created_at
	FROM route_cache
	WHERE route_key = %s;
	`, s.Dialect.ph(1))

	var payload string
	var created int64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache %q: %w", key, err)
	}

	if s.TTL > 0 && s.clock().Sub(time.Unix(created, 0)) > s.TTL {
		return ports.RouteResult{}, false, nil
	}

	var r ports.RouteResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache %q: decode payload: %w", key, err)
	}

	return r, true, nil
}

// Put stores route under key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route ports.RouteResult) (err error) {
	defer obs.Time(ctx, "route.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: empty key")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache %q: encode payload: %w", key, err)
	}

	d := s.Dialect
	q := fmt.Sprintf(`
	INSERT INTO route_cache (route_key, payload, created_at)
	VALUES (%s, %s, %s)
	ON CONFLICT (route_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`, d.ph(1), d.ph(2), d.ph(3))

	if _, err := s.DB.ExecContext(ctx, q, key, string(payload), s.clock().Unix()); err != nil {
		return fmt.Errorf("insert route cache %q: %w", key, err)
	}

	return nil
}

func (s *SQLRouteCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
