// Package client 调用 feelreel REST 接口的 Go 客户端，以及浏览列表的本地状态维护
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/utils"
)

// ErrNotFound 情绪或电影不存在
var ErrNotFound = errors.New("not found")

// Client REST 客户端
type Client struct {
	baseURL string
	http    *utils.HTTPClient
}

// New 创建客户端，baseURL 形如 http://localhost:5005
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    utils.NewHTTPClient(timeout),
	}
}

// ListEmotions 所有情绪
func (c *Client) ListEmotions(ctx context.Context) ([]model.Emotion, error) {
	var resp struct {
		Emotions []model.Emotion `json:"emotions"`
	}
	if err := c.get(ctx, "/emotions/", &resp); err != nil {
		return nil, err
	}
	return resp.Emotions, nil
}

// ListMovies 按情绪与排序列出电影
func (c *Client) ListMovies(ctx context.Context, emotion string, order model.Order) ([]model.MovieMatch, error) {
	var resp struct {
		Movies []model.MovieMatch `json:"movies"`
	}
	path := fmt.Sprintf("/movies/%s/%s/%s/", url.PathEscape(emotion), order.By, order.Direction)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Movies == nil {
		resp.Movies = []model.MovieMatch{}
	}
	return resp.Movies, nil
}

// GetMovie 电影详情
func (c *Client) GetMovie(ctx context.Context, id int64) (*model.MovieDetail, error) {
	var detail model.MovieDetail
	if err := c.get(ctx, "/movies/"+strconv.FormatInt(id, 10)+"/", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SubmitRating 为（可能尚未收录的）电影提交评价
func (c *Client) SubmitRating(ctx context.Context, sub *model.RatingSubmission) error {
	return c.post(ctx, "/movies/", sub)
}

// SubmitReview 为已收录的电影提交评价
func (c *Client) SubmitReview(ctx context.Context, movieID, emotionID int64) error {
	return c.post(ctx, "/reviews/", model.ReviewSubmission{MovieID: movieID, EmotionID: emotionID})
}

// SearchTMDB 通过服务端检索 TMDB
func (c *Client) SearchTMDB(ctx context.Context, query string) ([]model.TMDBSearchResult, error) {
	var resp struct {
		Results []model.TMDBSearchResult `json:"results"`
	}
	if err := c.get(ctx, "/tmdb/search/?query="+url.QueryEscape(query), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetTMDBMovie TMDB 电影详情，可直接用于 SubmitRating
func (c *Client) GetTMDBMovie(ctx context.Context, id int64) (*model.TMDBMovie, error) {
	var movie model.TMDBMovie
	if err := c.get(ctx, "/tmdb/movies/"+strconv.FormatInt(id, 10)+"/", &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// RateNewMovie 从 TMDB 取电影信息并提交第一条评价
func (c *Client) RateNewMovie(ctx context.Context, tmdbID, emotionID int64) error {
	movie, err := c.GetTMDBMovie(ctx, tmdbID)
	if err != nil {
		return err
	}
	return c.SubmitRating(ctx, model.NewRatingSubmission(movie, emotionID))
}

// Vote 为列表中的电影投票，成功后在本地更新列表，无需重新拉取
func (c *Client) Vote(ctx context.Context, st ListState, detail *model.MovieDetail, emotionID int64, now time.Time) (ListState, error) {
	if err := c.SubmitReview(ctx, detail.ID, emotionID); err != nil {
		return st, err
	}
	return Reduce(st, RatingRecorded{
		MovieID:     detail.ID,
		Percentage:  MatchAfterVote(detail, st.Emotion, emotionID),
		VoteWasCast: true,
		At:          now,
	}), nil
}

func (c *Client) get(ctx context.Context, path string, target interface{}) error {
	return mapError(c.http.GetJSON(ctx, c.baseURL+path, nil, target))
}

func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	return mapError(c.http.PostJSON(ctx, c.baseURL+path, body, nil))
}

func mapError(err error) error {
	if utils.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
