package service

import (
	"context"
	"time"

	"github.com/user/feelreel/internal/logging"
	"github.com/user/feelreel/internal/metrics"
	"github.com/user/feelreel/internal/repository"
)

// StatsService 定时刷新目录统计指标
type StatsService struct {
	repos    *repository.Repositories
	interval time.Duration
}

// NewStatsService 创建统计服务
func NewStatsService(repos *repository.Repositories, interval time.Duration) *StatsService {
	return &StatsService{repos: repos, interval: interval}
}

// Start 启动定时任务，ctx 取消后退出
func (s *StatsService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()

		// 启动时先运行一次
		s.Refresh(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Refresh(ctx)
			}
		}
	}()
}

// Refresh 刷新电影数与评价数
func (s *StatsService) Refresh(ctx context.Context) {
	movies, reviews, err := s.repos.Movie.Counts(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("[StatsService] 统计失败")
		return
	}

	metrics.CatalogMovies.Set(float64(movies))
	metrics.CatalogReviews.Set(float64(reviews))
	logging.Debug().Int64("movies", movies).Int64("reviews", reviews).Msg("[StatsService] 已刷新统计")
}
