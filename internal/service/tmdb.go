package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/user/feelreel/internal/config"
	"github.com/user/feelreel/internal/logging"
	"github.com/user/feelreel/internal/metrics"
	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/utils"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// sharedFetchTimeout 合并后的详情请求的超时
const sharedFetchTimeout = 15 * time.Second

var (
	// ErrTMDBDisabled 未配置 TMDB 凭据
	ErrTMDBDisabled = errors.New("tmdb is not configured")
	// ErrTMDBNotFound TMDB 中不存在该电影
	ErrTMDBNotFound = errors.New("tmdb movie not found")
	// ErrTMDBUnavailable TMDB 请求失败或熔断中
	ErrTMDBUnavailable = errors.New("tmdb unavailable")
)

// TMDBService TMDB 电影检索（仅在添加评价时使用）
type TMDBService struct {
	client      *utils.HTTPClient
	baseURL     string
	token       string
	apiKey      string
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[struct{}]
	searchCache *utils.SearchCache[[]model.TMDBSearchResult]
	movieCache  *utils.SearchCache[*model.TMDBMovie]
	group       singleflight.Group
}

// NewTMDBService 创建 TMDB 服务
func NewTMDBService(cfg *config.Config, client *utils.HTTPClient) *TMDBService {
	s := &TMDBService{
		client:      client,
		baseURL:     cfg.TMDBBaseURL,
		token:       cfg.TMDBToken,
		apiKey:      cfg.TMDBAPIKey,
		limiter:     rate.NewLimiter(rate.Limit(cfg.TMDBRate), int(cfg.TMDBRate)+1),
		searchCache: utils.NewSearchCache[[]model.TMDBSearchResult]("tmdb_search", 500, 10*time.Minute),
		movieCache:  utils.NewSearchCache[*model.TMDBMovie]("tmdb_movie", 500, time.Hour),
	}

	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx 说明 TMDB 本身可用
		IsSuccessful: func(err error) bool {
			var se *utils.StatusError
			if errors.As(err, &se) {
				return se.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.TMDBCircuitState.Set(float64(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[TMDB] 熔断器状态变化")
		},
	})

	return s
}

// Enabled 是否已配置凭据
func (s *TMDBService) Enabled() bool {
	return s.token != "" || s.apiKey != ""
}

// SearchMovies 按关键词搜索电影，过滤掉没有海报的结果
func (s *TMDBService) SearchMovies(ctx context.Context, query string) ([]model.TMDBSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.TMDBSearchResult{}, nil
	}

	key := strings.ToLower(query)
	if cached, ok := s.searchCache.Get(key); ok {
		return cached, nil
	}

	var resp struct {
		Results []model.TMDBSearchResult `json:"results"`
	}
	if err := s.getJSON(ctx, "search", "/search/movie", url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}

	results := make([]model.TMDBSearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.PosterPath != "" {
			results = append(results, r)
		}
	}

	s.searchCache.Set(key, results)
	return results, nil
}

// GetMovie 获取电影详情及演职人员
func (s *TMDBService) GetMovie(ctx context.Context, id int64) (*model.TMDBMovie, error) {
	key := strconv.FormatInt(id, 10)
	if cached, ok := s.movieCache.Get(key); ok {
		return cached, nil
	}

	// 使用 singleflight 避免并发重复请求同一部电影
	// 共享的请求不随首个调用方取消，使用独立的超时
	val, err, _ := s.group.Do(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		var movie model.TMDBMovie
		if err := s.getJSON(fetchCtx, "movie", "/movie/"+key, url.Values{"append_to_response": {"credits"}}, &movie); err != nil {
			return nil, err
		}
		s.movieCache.Set(key, &movie)
		return &movie, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.TMDBMovie), nil
}

func (s *TMDBService) getJSON(ctx context.Context, endpoint, path string, params url.Values, target interface{}) error {
	if !s.Enabled() {
		return ErrTMDBDisabled
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	headers := map[string]string{}
	if s.token != "" {
		headers["Authorization"] = "Bearer " + s.token
	} else {
		params.Set("api_key", s.apiKey)
	}
	u := s.baseURL + path + "?" + params.Encode()

	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.client.GetJSON(ctx, u, headers, target)
	})
	err = redactURL(err)

	switch {
	case err == nil:
		metrics.TMDBRequests.WithLabelValues(endpoint, "ok").Inc()
		return nil
	case utils.IsStatus(err, http.StatusNotFound):
		metrics.TMDBRequests.WithLabelValues(endpoint, "not_found").Inc()
		return ErrTMDBNotFound
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.TMDBRequests.WithLabelValues(endpoint, "circuit_open").Inc()
		return fmt.Errorf("%w: %v", ErrTMDBUnavailable, err)
	default:
		metrics.TMDBRequests.WithLabelValues(endpoint, "error").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("endpoint", endpoint).Msg("[TMDB] 请求失败")
		return fmt.Errorf("%w: %v", ErrTMDBUnavailable, err)
	}
}

// redactURL 去掉错误中 URL 的查询参数，api_key 不能出现在日志里
func redactURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	clean := ue.URL
	if u, perr := url.Parse(ue.URL); perr == nil {
		u.RawQuery = ""
		u.User = nil
		clean = u.String()
	} else if i := strings.IndexByte(clean, '?'); i >= 0 {
		clean = clean[:i]
	}
	return &url.Error{Op: ue.Op, URL: clean, Err: ue.Err}
}
