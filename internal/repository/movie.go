package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/feelreel/internal/model"
	"gorm.io/gorm"
)

// MaxListSize 情绪列表最多返回的电影数
const MaxListSize = 102

// orderClauses 排序条件到 ORDER BY 片段的固定映射，列名从不取自请求
// 按添加时间排序时，正序看第一条评价，倒序看最新一条评价
var orderClauses = map[model.Order]string{
	{By: model.OrderDateAdded, Direction: model.Ascending}:    "s.first_review_date ASC",
	{By: model.OrderDateAdded, Direction: model.Descending}:   "s.latest_review_date DESC",
	{By: model.OrderReleaseDate, Direction: model.Ascending}:  "s.release_year ASC",
	{By: model.OrderReleaseDate, Direction: model.Descending}: "s.release_year DESC",
	{By: model.OrderMatch, Direction: model.Ascending}:        "s.percentage ASC",
	{By: model.OrderMatch, Direction: model.Descending}:       "s.percentage DESC",
}

const listByEmotionSQL = `
SELECT s.id, s.title, s.poster_path, s.runtime, s.release_year,
       s.percentage, s.first_review_date, s.latest_review_date
FROM (
	SELECT m.id, m.title, m.poster_path, m.runtime, m.release_year,
	       CAST((SELECT COUNT(*) FROM reviews r WHERE r.movie_id = m.id AND r.emotion_id = ?) AS DOUBLE PRECISION)
	         / NULLIF((SELECT COUNT(*) FROM reviews r WHERE r.movie_id = m.id), 0) AS percentage,
	       (SELECT MIN(r.review_date) FROM reviews r WHERE r.movie_id = m.id) AS first_review_date,
	       (SELECT MAX(r.review_date) FROM reviews r WHERE r.movie_id = m.id) AS latest_review_date
	FROM movies m
) s
WHERE s.percentage > 0
ORDER BY %s, s.id ASC
LIMIT ?`

const emotionCountsSQL = `
SELECT e.id, e.emotion,
       (SELECT COUNT(*) FROM reviews r WHERE r.movie_id = ? AND r.emotion_id = e.id) AS count
FROM emotions e
ORDER BY e.id ASC`

const creditsSQL = `
SELECT p.full_name, mp.credit_order
FROM movie_persons mp
JOIN persons p ON p.id = mp.person_id
WHERE mp.movie_id = ?
ORDER BY mp.credit_order ASC, mp.position ASC`

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// ListByEmotion 列出被标记为指定情绪的电影，附带匹配度及首末评价时间
func (r *MovieRepository) ListByEmotion(ctx context.Context, emotion string, order model.Order, limit int) ([]model.MovieMatch, error) {
	clause, ok := orderClauses[order]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidOrder, order)
	}
	if limit <= 0 || limit > MaxListSize {
		limit = MaxListSize
	}

	movies := make([]model.MovieMatch, 0)
	err := withConn(ctx, r.db, "list_by_emotion", func(conn *gorm.DB) error {
		e, err := findEmotionByName(conn, emotion)
		if err != nil {
			return err
		}
		return conn.Raw(fmt.Sprintf(listByEmotionSQL, clause), e.ID, limit).Scan(&movies).Error
	})
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = make([]model.MovieMatch, 0)
	}
	return movies, nil
}

// Detail 电影详情：各情绪评价数、导演与演员，不存在时返回 nil
func (r *MovieRepository) Detail(ctx context.Context, id int64) (*model.MovieDetail, error) {
	var detail *model.MovieDetail
	err := withConn(ctx, r.db, "movie_detail", func(conn *gorm.DB) error {
		movie, err := findMovie(conn, id)
		if err != nil || movie == nil {
			return err
		}

		d := &model.MovieDetail{
			Movie:     *movie,
			Emotions:  make([]model.EmotionCount, 0),
			Directors: make([]string, 0),
			Cast:      make([]string, 0),
		}

		if err := conn.Raw(emotionCountsSQL, id).Scan(&d.Emotions).Error; err != nil {
			return err
		}

		var credits []struct {
			FullName    string
			CreditOrder int
		}
		if err := conn.Raw(creditsSQL, id).Scan(&credits).Error; err != nil {
			return err
		}
		for _, c := range credits {
			if c.CreditOrder == model.CreditOrderDirector {
				d.Directors = append(d.Directors, c.FullName)
			} else {
				d.Cast = append(d.Cast, c.FullName)
			}
		}

		detail = d
		return nil
	})
	return detail, err
}

// Counts 电影数与评价数
func (r *MovieRepository) Counts(ctx context.Context) (movies int64, reviews int64, err error) {
	err = withConn(ctx, r.db, "catalog_counts", func(conn *gorm.DB) error {
		if err := conn.Model(&model.Movie{}).Count(&movies).Error; err != nil {
			return err
		}
		return conn.Model(&model.Review{}).Count(&reviews).Error
	})
	return movies, reviews, err
}

func findMovie(conn *gorm.DB, id int64) (*model.Movie, error) {
	var movie model.Movie
	err := conn.Where("id = ?", id).Take(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}
