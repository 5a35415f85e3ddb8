package repository

import (
	"context"
	"time"

	"github.com/user/feelreel/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateWithReview 首次评价：电影不存在时写入电影、人物及关联，然后追加一条评价
// 所有写入在同一事务中，任一步失败则全部回滚。返回电影是否为本次新建
func (r *RatingRepository) CreateWithReview(ctx context.Context, movie *model.Movie, persons []model.Person, links []model.MoviePerson, emotionID int64) (bool, error) {
	created := false
	err := withTx(ctx, r.db, "create_movie_rating", func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Movie{}).Where("id = ?", movie.ID).Count(&exists).Error; err != nil {
			return err
		}

		if exists == 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(movie).Error; err != nil {
				return err
			}
			if len(persons) > 0 {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&persons).Error; err != nil {
					return err
				}
			}
			if len(links) > 0 {
				if err := tx.Omit(clause.Associations).
					Clauses(clause.OnConflict{DoNothing: true}).
					Create(&links).Error; err != nil {
					return err
				}
			}
			created = true
		}

		return r.appendReview(tx, movie.ID, emotionID)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// AddReview 为已有电影追加一条评价
func (r *RatingRepository) AddReview(ctx context.Context, movieID, emotionID int64) error {
	return withTx(ctx, r.db, "add_review", func(tx *gorm.DB) error {
		return r.appendReview(tx, movieID, emotionID)
	})
}

func (r *RatingRepository) appendReview(tx *gorm.DB, movieID, emotionID int64) error {
	review := &model.Review{
		MovieID:   movieID,
		EmotionID: emotionID,
		CreatedAt: r.now(),
	}
	return tx.Omit(clause.Associations).Create(review).Error
}
