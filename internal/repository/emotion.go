package repository

import (
	"context"
	"errors"

	"github.com/user/feelreel/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmotionNotFound 情绪不存在
var ErrEmotionNotFound = errors.New("emotion not found")

type EmotionRepository struct {
	db *gorm.DB
}

func NewEmotionRepository(db *gorm.DB) *EmotionRepository {
	return &EmotionRepository{db: db}
}

// List 列出所有情绪
func (r *EmotionRepository) List(ctx context.Context) ([]model.Emotion, error) {
	var emotions []model.Emotion
	err := withConn(ctx, r.db, "list_emotions", func(conn *gorm.DB) error {
		return conn.Order("id ASC").Find(&emotions).Error
	})
	return emotions, err
}

// Seed 情绪表为空时写入初始数据
func (r *EmotionRepository) Seed(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return withTx(ctx, r.db, "seed_emotions", func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Emotion{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		emotions := make([]model.Emotion, 0, len(names))
		for _, name := range names {
			emotions = append(emotions, model.Emotion{Name: name})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&emotions).Error
	})
}

func findEmotionByName(conn *gorm.DB, name string) (*model.Emotion, error) {
	var emotion model.Emotion
	err := conn.Where("emotion = ?", name).Take(&emotion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmotionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emotion, nil
}
