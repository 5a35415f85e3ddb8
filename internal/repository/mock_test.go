package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feelreel/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB 基于 go-sqlmock 的 postgres 连接，用于模拟数据库故障
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})
	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return db, mock
}

func TestListByEmotionStoreFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "emotions"`).WillReturnError(errors.New("connection reset by peer"))

	_, err := NewMovieRepository(db).ListByEmotion(context.Background(), "amused", model.DefaultOrder, MaxListSize)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmotionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithReviewRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "movies"`).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	created, err := NewRatingRepository(db).CreateWithReview(context.Background(),
		&model.Movie{ID: 1, Title: "X"}, nil, nil, 1)
	require.Error(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
