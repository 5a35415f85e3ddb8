package service

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/feelreel/internal/logging"
	"github.com/user/feelreel/internal/metrics"
	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/repository"
)

var (
	// ErrEmotionNotFound 情绪不存在
	ErrEmotionNotFound = repository.ErrEmotionNotFound
	// ErrMovieNotFound 电影不存在
	ErrMovieNotFound = errors.New("movie not found")
)

const emotionsCacheKey = "emotions"

// CatalogService 情绪与电影的只读查询
// 读取时数据库故障按“无数据”处理，不作为单独的错误暴露给调用方
type CatalogService struct {
	repos *repository.Repositories
	cache *cache.Cache
}

// NewCatalogService 创建查询服务
func NewCatalogService(repos *repository.Repositories, c *cache.Cache) *CatalogService {
	return &CatalogService{repos: repos, cache: c}
}

// Emotions 所有情绪（参考数据不变，缓存结果）
func (s *CatalogService) Emotions(ctx context.Context) []model.Emotion {
	if cached, ok := s.cache.Get(emotionsCacheKey); ok {
		metrics.RecordCache(emotionsCacheKey, true)
		return cached.([]model.Emotion)
	}
	metrics.RecordCache(emotionsCacheKey, false)

	emotions, err := s.repos.Emotion.List(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("[CatalogService] 读取情绪失败")
		return []model.Emotion{}
	}
	if emotions == nil {
		emotions = []model.Emotion{}
	}
	if len(emotions) > 0 {
		s.cache.Set(emotionsCacheKey, emotions, 30*time.Minute)
	}
	return emotions
}

// ListMoviesForEmotion 按情绪列出电影，最多 repository.MaxListSize 条
func (s *CatalogService) ListMoviesForEmotion(ctx context.Context, emotion string, order model.Order) ([]model.MovieMatch, error) {
	if !order.Valid() {
		return nil, model.ErrInvalidOrder
	}

	movies, err := s.repos.Movie.ListByEmotion(ctx, emotion, order, repository.MaxListSize)
	if errors.Is(err, repository.ErrEmotionNotFound) {
		return nil, ErrEmotionNotFound
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("emotion", emotion).
			Str("order", order.String()).
			Msg("[CatalogService] 查询电影列表失败，返回空列表")
		return []model.MovieMatch{}, nil
	}
	return movies, nil
}

// MovieDetail 电影详情
func (s *CatalogService) MovieDetail(ctx context.Context, id int64) (*model.MovieDetail, error) {
	detail, err := s.repos.Movie.Detail(ctx, id)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("movie_id", id).Msg("[CatalogService] 查询电影详情失败")
		return nil, ErrMovieNotFound
	}
	if detail == nil {
		return nil, ErrMovieNotFound
	}
	return detail, nil
}
