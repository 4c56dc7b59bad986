package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/jackc/pgx/v4/pgxpool"
)

var schema = heredoc.Doc(`
	CREATE TABLE IF NOT EXISTS renders (
		id          bigserial PRIMARY KEY,
		kind        text NOT NULL,
		chart_id    text NOT NULL DEFAULT '',
		width       integer NOT NULL,
		height      integer NOT NULL,
		series      integer NOT NULL,
		points      integer NOT NULL,
		duration_ms double precision NOT NULL,
		rendered_at timestamptz NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS renders_rendered_at_idx ON renders (rendered_at DESC);
`)

func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}

// RenderRecord is one row of the render log. ChartID is empty for renders
// that were not stored.
type RenderRecord struct {
	ID         int64     `db:"id" json:"id"`
	Kind       string    `db:"kind" json:"type"`
	ChartID    string    `db:"chart_id" json:"chartId,omitempty"`
	Width      int       `db:"width" json:"width"`
	Height     int       `db:"height" json:"height"`
	Series     int       `db:"series" json:"series"`
	Points     int       `db:"points" json:"points"`
	DurationMs float64   `db:"duration_ms" json:"durationMs"`
	RenderedAt time.Time `db:"rendered_at" json:"renderedAt"`
}

func LogRender(ctx context.Context, db *pgxpool.Pool, r RenderRecord) error {
	tag, err := db.Exec(ctx, `INSERT INTO renders (kind, chart_id, width, height, series, points, duration_ms) values ($1, $2, $3, $4, $5, $6, $7)`,
		r.Kind, r.ChartID, r.Width, r.Height, r.Series, r.Points, r.DurationMs)
	if err != nil {
		return err
	}
	if !tag.Insert() {
		return errors.New("returned tag is not insert")
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("returned affected rows on insert is not 1 (%d)", tag.RowsAffected())
	}
	return nil
}
