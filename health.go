package main

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/warzone2100/chartsvg/db"
)

func APIgetHealth(_ http.ResponseWriter, r *http.Request) (int, any) {
	var (
		vm       *mem.VirtualMemoryStat
		avg      *load.AvgStat
		stored   int
		rendered map[string]int
	)
	err := RequestMultiple(func() error {
		var err error
		vm, err = mem.VirtualMemoryWithContext(r.Context())
		return err
	}, func() error {
		var err error
		avg, err = load.AvgWithContext(r.Context())
		return err
	}, func() error {
		l, err := chartStore.List("")
		stored = len(l)
		return err
	}, func() error {
		if dbpool == nil {
			return nil
		}
		var err error
		rendered, err = db.RenderStats(r.Context(), dbpool, 24)
		return err
	})
	ret := map[string]any{
		"status":  "ok",
		"version": GitTag,
		"commit":  CommitHash,
		"built":   BuildTime,
		"go":      runtime.Version(),
		"uptime":  time.Since(startedAt).Round(time.Second).String(),
		"stored":  stored,
		"feed":    0,
	}
	if renderFeed != nil {
		ret["feed"] = renderFeed.ClientCount()
	}
	if rendered != nil {
		ret["rendersLastDay"] = rendered
	}
	if vm != nil {
		ret["memory"] = map[string]any{
			"total":       ByteCountIEC(vm.Total),
			"available":   ByteCountIEC(vm.Available),
			"usedPercent": vm.UsedPercent,
		}
	}
	if avg != nil {
		ret["load"] = []float64{avg.Load1, avg.Load5, avg.Load15}
	}
	if err != nil {
		ret["status"] = "degraded"
		ret["error"] = err.Error()
	}
	return 200, ret
}
