package db

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

func TestSchemaColumns(t *testing.T) {
	for _, col := range []string{"kind", "chart_id", "width", "height", "series", "points", "duration_ms", "rendered_at"} {
		if !strings.Contains(schema, "\n\t"+col+" ") && !strings.Contains(schema, "\n"+col+" ") {
			t.Errorf("schema lacks column %s:\n%s", col, schema)
		}
	}
	if strings.HasPrefix(schema, "\t") {
		t.Error("schema indentation was not stripped")
	}
}

// Runs against a live database when TEST_DB holds a connection string.
func TestRenderLog(t *testing.T) {
	dsn := os.Getenv("TEST_DB")
	if dsn == "" {
		t.Skip("TEST_DB not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()
	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatal(err)
	}
	rec := RenderRecord{Kind: "line", ChartID: "test", Width: 800, Height: 400, Series: 2, Points: 10, DurationMs: 1.5}
	if err := LogRender(ctx, pool, rec); err != nil {
		t.Fatal(err)
	}
	rows, err := RecentRenders(ctx, pool, "line", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Kind != "line" || rows[0].Width != 800 {
		t.Errorf("RecentRenders = %+v", rows)
	}
	stats, err := RenderStats(ctx, pool, 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats["line"] < 1 {
		t.Errorf("RenderStats = %v", stats)
	}
}
