package service

import (
	"context"
	"fmt"

	"github.com/user/feelreel/internal/logging"
	"github.com/user/feelreel/internal/metrics"
	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/repository"
)

// MaxCastMembers 新电影最多保存的主演人数
const MaxCastMembers = 5

// DirectorJob TMDB 中导演的职位名
const DirectorJob = "Director"

// RatingService 评价写入
type RatingService struct {
	repo *repository.RatingRepository
}

// NewRatingService 创建评价服务
func NewRatingService(repo *repository.RatingRepository) *RatingService {
	return &RatingService{repo: repo}
}

// SubmitNewMovieRating 提交评价，电影首次出现时一并保存电影信息与演职人员
func (s *RatingService) SubmitNewMovieRating(ctx context.Context, sub *model.RatingSubmission) error {
	movie := &model.Movie{
		ID:          sub.ID,
		Title:       sub.Title,
		PosterPath:  sub.PosterPath,
		Runtime:     sub.Runtime,
		ReleaseYear: sub.ReleaseYear(),
	}
	persons, links := buildCredits(sub.ID, sub.Credits)

	created, err := s.repo.CreateWithReview(ctx, movie, persons, links, sub.EmotionID)
	metrics.RecordRating("new_movie", err)
	if err != nil {
		return fmt.Errorf("保存评价失败: %w", err)
	}

	logging.Ctx(ctx).Info().
		Int64("movie_id", sub.ID).
		Int64("emotion_id", sub.EmotionID).
		Bool("movie_created", created).
		Msg("[RatingService] 已保存评价")
	return nil
}

// SubmitReview 为已有电影追加一条评价
func (s *RatingService) SubmitReview(ctx context.Context, movieID, emotionID int64) error {
	err := s.repo.AddReview(ctx, movieID, emotionID)
	metrics.RecordRating("review", err)
	if err != nil {
		return fmt.Errorf("保存评价失败: %w", err)
	}
	return nil
}

// buildCredits 前 5 位主演（署名顺序从 1 开始）及所有导演（署名顺序 0）
// 同一人物只保留第一次出现的身份
func buildCredits(movieID int64, credits model.Credits) ([]model.Person, []model.MoviePerson) {
	var persons []model.Person
	var links []model.MoviePerson
	seen := make(map[int64]bool)

	add := func(id int64, name string, order int) {
		if id <= 0 || seen[id] {
			return
		}
		seen[id] = true
		persons = append(persons, model.Person{ID: id, FullName: name})
		links = append(links, model.MoviePerson{
			MovieID:     movieID,
			PersonID:    id,
			CreditOrder: order,
			Position:    len(links),
		})
	}

	cast := credits.Cast
	if len(cast) > MaxCastMembers {
		cast = cast[:MaxCastMembers]
	}
	for i, c := range cast {
		order := c.Order + 1
		if order < 1 {
			order = i + 1
		}
		add(c.ID, c.Name, order)
	}

	for _, c := range credits.Crew {
		if c.Job == DirectorJob {
			add(c.ID, c.Name, model.CreditOrderDirector)
		}
	}

	return persons, links
}
