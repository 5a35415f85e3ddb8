// Package testinfra 测试用的数据库与数据构造工具
package testinfra

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/repository"
	"gorm.io/gorm"
)

// Emotions 测试默认的情绪集合，ID 依次为 1、2、3
var Emotions = []string{"amused", "sad", "scared"}

// NewDB 为当前测试创建独立的内存 sqlite 数据库并完成迁移
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := repository.OpenSQLite(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db, Emotions))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// Base 测试使用的固定时间起点
var Base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// InsertMovie 直接写入一部电影
func InsertMovie(t testing.TB, db *gorm.DB, id int64, title string, year int) {
	t.Helper()
	require.NoError(t, db.Create(&model.Movie{
		ID:          id,
		Title:       title,
		PosterPath:  fmt.Sprintf("/poster-%d.jpg", id),
		Runtime:     100,
		ReleaseYear: year,
	}).Error)
}

// InsertReview 直接写入一条评价，时间为 Base 加上 offset
func InsertReview(t testing.TB, db *gorm.DB, movieID, emotionID int64, offset time.Duration) {
	t.Helper()
	require.NoError(t, db.Omit("Movie", "Emotion").Create(&model.Review{
		MovieID:   movieID,
		EmotionID: emotionID,
		CreatedAt: Base.Add(offset),
	}).Error)
}
