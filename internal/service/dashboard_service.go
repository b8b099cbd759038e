package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/firstcentralng/bulkrep/internal/domain"
	"github.com/firstcentralng/bulkrep/internal/logger"
)

const (
	dashboardCacheTTL = 5 * time.Minute
	topListLimit      = 10
)

// DashboardStats is the slice of the dashboard repository the service needs.
type DashboardStats interface {
	TotalSubscribers(ctx context.Context, start, end time.Time, subscriber string) (int, error)
	TotalUsageEntries(ctx context.Context, start, end time.Time, subscriber string) (int, error)
	TopSubscribers(ctx context.Context, start, end time.Time, subscriber string, limit int) ([]domain.NameCount, error)
	TopProducts(ctx context.Context, start, end time.Time, subscriber string, limit int) ([]domain.NameCount, error)
	DailyUsageTrend(ctx context.Context, start, end time.Time, subscriber string) ([]domain.DateCount, error)
	NewSubscribersTrend(ctx context.Context, start, end time.Time) ([]domain.DateCount, error)
	RetentionRate(ctx context.Context, start, end time.Time) (float64, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, start, end time.Time, subscriberFilter string) (*domain.DashboardData, error)
}

type dashboardService struct {
	stats DashboardStats
	cache *redis.Client
}

// NewDashboardService returns the analytics service. cache may be nil, in
// which case every request hits the database.
func NewDashboardService(stats DashboardStats, cache *redis.Client) DashboardService {
	return &dashboardService{stats: stats, cache: cache}
}

func (s *dashboardService) GetDashboard(ctx context.Context, start, end time.Time, subscriberFilter string) (*domain.DashboardData, error) {
	key := dashboardCacheKey(start, end, subscriberFilter)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	data, err := s.build(ctx, start, end, subscriberFilter)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, data)
	return data, nil
}

func (s *dashboardService) build(ctx context.Context, start, end time.Time, subscriber string) (*domain.DashboardData, error) {
	data := &domain.DashboardData{TopSubscriber: "N/A"}

	var err error
	if data.TotalSubscribers, err = s.stats.TotalSubscribers(ctx, start, end, subscriber); err != nil {
		return nil, fmt.Errorf("total subscribers: %w", err)
	}
	if data.TotalUsageEntries, err = s.stats.TotalUsageEntries(ctx, start, end, subscriber); err != nil {
		return nil, fmt.Errorf("total usage entries: %w", err)
	}
	if data.TopSubscribers, err = s.stats.TopSubscribers(ctx, start, end, subscriber, topListLimit); err != nil {
		return nil, fmt.Errorf("top subscribers: %w", err)
	}
	if len(data.TopSubscribers) > 0 {
		data.TopSubscriber = data.TopSubscribers[0].Name
	}
	if data.TopProducts, err = s.stats.TopProducts(ctx, start, end, subscriber, topListLimit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	if data.UsageTrends, err = s.stats.DailyUsageTrend(ctx, start, end, subscriber); err != nil {
		return nil, fmt.Errorf("usage trends: %w", err)
	}
	if data.NewSubscribers, err = s.stats.NewSubscribersTrend(ctx, start, end); err != nil {
		return nil, fmt.Errorf("new subscribers: %w", err)
	}
	if data.RetentionRate, err = s.stats.RetentionRate(ctx, start, end); err != nil {
		return nil, fmt.Errorf("retention rate: %w", err)
	}
	return data, nil
}

func dashboardCacheKey(start, end time.Time, subscriber string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s|%s|%s", start.Format("2006-01-02"), end.Format("2006-01-02"), subscriber)))
	return fmt.Sprintf("bulkrep:dashboard:%x", sum)
}

func (s *dashboardService) fromCache(ctx context.Context, key string) *domain.DashboardData {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WarnLog(ctx, "dashboard cache read failed: %v", err)
		}
		return nil
	}
	var data domain.DashboardData
	if err := json.Unmarshal(raw, &data); err != nil {
		logger.WarnLog(ctx, "dashboard cache entry invalid, rebuilding: %v", err)
		return nil
	}
	return &data
}

func (s *dashboardService) toCache(ctx context.Context, key string, data *domain.DashboardData) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, dashboardCacheTTL).Err(); err != nil {
		logger.WarnLog(ctx, "dashboard cache write failed: %v", err)
	}
}
