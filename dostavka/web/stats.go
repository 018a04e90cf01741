package web

import (
	"context"
	"time"

	"log/slog"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
	"github.com/whitewenty/dostavka/dostavka/economy/ledger"
)

const (
	statsCacheSize   = 8
	statsCacheExpiry = 5 * time.Second
	statsCacheKey    = "stats"
	topUsersLimit    = 10
)

type Stats struct {
	System    SystemStats    `json:"system"`
	Bot       BotStats       `json:"bot"`
	TopUsers  []ledger.Entry `json:"top_users"`
	BotStatus bool           `json:"bot_status"`
}

type SystemStats struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	Disk   float64 `json:"disk"`
	Uptime int64   `json:"uptime"`
}

type BotStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalDeliveries int64 `json:"total_deliveries"`
	TotalEarnings   int64 `json:"total_earnings"`
	ActiveBuffs     int64 `json:"active_buffs"`
}

type cachedStats struct {
	stats     Stats
	timestamp time.Time
}

// StatsService assembles the dashboard payload. Results are cached
// briefly so a busy dashboard does not hammer the database.
type StatsService struct {
	repo          repositories.UserRepository
	ledger        *ledger.Ledger
	botConfigured bool
	cache         *lru.Cache
	now           func() time.Time
}

func NewStatsService(repo repositories.UserRepository, l *ledger.Ledger, botConfigured bool) *StatsService {
	cache, _ := lru.New(statsCacheSize)
	return &StatsService{
		repo:          repo,
		ledger:        l,
		botConfigured: botConfigured,
		cache:         cache,
		now:           time.Now,
	}
}

// Snapshot never fails: any internal error degrades to the zeroed shape
// so the dashboard keeps rendering.
func (s *StatsService) Snapshot(ctx context.Context) Stats {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		entry := cached.(cachedStats)
		if s.now().Sub(entry.timestamp) < statsCacheExpiry {
			return entry.stats
		}
	}

	stats := s.build(ctx)
	s.cache.Add(statsCacheKey, cachedStats{stats: stats, timestamp: s.now()})
	return stats
}

func (s *StatsService) build(ctx context.Context) Stats {
	stats := Stats{
		TopUsers:  []ledger.Entry{},
		BotStatus: s.botConfigured,
	}
	stats.System = s.systemStats(ctx)

	users, deliveries, earnings, err := s.repo.AggregateTotals(ctx)
	if err != nil {
		slog.Error("Failed to aggregate stats",
			slog.String("type", "web"),
			slog.Any("error", err))
		return stats
	}
	stats.Bot = BotStats{
		TotalUsers:      users,
		TotalDeliveries: deliveries,
		TotalEarnings:   earnings,
		ActiveBuffs:     s.countActiveBuffs(ctx),
	}

	top, err := s.ledger.TopN(ctx, topUsersLimit)
	if err != nil {
		slog.Error("Failed to load top users",
			slog.String("type", "web"),
			slog.Any("error", err))
		return stats
	}
	stats.TopUsers = top

	return stats
}

// countActiveBuffs is a read-only count; the lazy expiry sweep stays with
// the ledger's mutation paths.
func (s *StatsService) countActiveBuffs(ctx context.Context) int64 {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return 0
	}

	now := s.now()
	var count int64
	for _, user := range users {
		for _, buff := range user.ActiveBuffs {
			if !buff.Expired(now) {
				count++
			}
		}
	}
	return count
}

func (s *StatsService) systemStats(ctx context.Context) SystemStats {
	var sys SystemStats

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		sys.CPU = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		sys.Memory = vm.UsedPercent
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		sys.Disk = du.UsedPercent
	}
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		sys.Uptime = int64(uptime)
	}
	return sys
}
