package db

import (
	"context"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4/pgxpool"
)

const maxRecentRenders = 500

// RecentRenders returns the newest render log rows, optionally limited to one
// chart kind.
func RecentRenders(ctx context.Context, db *pgxpool.Pool, kind string, limit int) ([]*RenderRecord, error) {
	limit = min(max(limit, 1), maxRecentRenders)
	ret := []*RenderRecord{}
	var err error
	if kind == "" {
		err = pgxscan.Select(ctx, db, &ret, `SELECT * FROM renders ORDER BY rendered_at DESC, id DESC LIMIT $1`, limit)
	} else {
		err = pgxscan.Select(ctx, db, &ret, `SELECT * FROM renders WHERE kind = $1 ORDER BY rendered_at DESC, id DESC LIMIT $2`, kind, limit)
	}
	return ret, err
}

// RenderStats counts renders per kind since the given number of hours ago.
func RenderStats(ctx context.Context, db *pgxpool.Pool, hours int) (map[string]int, error) {
	rows := []struct {
		Kind  string `db:"kind"`
		Count int    `db:"count"`
	}{}
	err := pgxscan.Select(ctx, db, &rows, `SELECT kind, count(*) AS count FROM renders WHERE rendered_at > now() - make_interval(hours => $1) GROUP BY kind`, hours)
	if err != nil {
		return nil, err
	}
	ret := map[string]int{}
	for _, r := range rows {
		ret[r.Kind] = r.Count
	}
	return ret, nil
}
