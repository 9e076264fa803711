package health

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"carbex-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Goroutines    int    `json:"goroutines"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int    `json:"totalRequests"`
	FailedCount     int    `json:"failedCount"`
	SuccessRate     string `json:"successRate"`
	AvgResponseTime string `json:"avgResponseTime"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// CollectHealth gathers dependency status and traffic counters from Redis.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	result := CollectResult{
		Status:       "ok",
		Dependencies: make(map[string]DepStatus),
	}

	dbStatus := "disconnected"
	var dbPingMs *int64
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbPingMs = &ms
			dbStatus = "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPingMs}

	redisStatus := "disconnected"
	var redisPingMs *int64
	traffic := TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	var startMs int64

	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPingMs = &ms
			redisStatus = "connected"

			total, _ := rdb.Get(ctx, middleware.KeyReqTotal).Int()
			failed, _ := rdb.Get(ctx, middleware.KeyReqErrors).Int()
			resTime, _ := rdb.Get(ctx, middleware.KeyResTime).Float64()
			resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Int()
			startStr, _ := rdb.Get(ctx, middleware.KeyStartTime).Result()
			startMs, _ = strconv.ParseInt(startStr, 10, 64)

			traffic.TotalRequests = total
			traffic.FailedCount = failed
			if total > 0 {
				traffic.SuccessRate = strconv.FormatFloat(float64(total-failed)/float64(total)*100, 'f', 1, 64)
			}
			if resCount > 0 {
				traffic.AvgResponseTime = strconv.FormatFloat(resTime/float64(resCount), 'f', 1, 64)
			}
		} else {
			redisStatus = "error"
			result.Status = "degraded"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}
	if dbStatus != "connected" {
		result.Status = "degraded"
	}

	uptime := int64(0)
	if startMs > 0 {
		uptime = (time.Now().UnixMilli() - startMs) / 1000
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS,
		GoVersion:     runtime.Version(),
	}
	result.Traffic = traffic
	return result
}

// MarkStart records the boot time counter if absent.
func MarkStart(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	rdb.SetNX(ctx, middleware.KeyStartTime, time.Now().UnixMilli(), 0)
}
