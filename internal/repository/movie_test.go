package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/repository"
	"github.com/user/feelreel/internal/testinfra"
)

const (
	amused = int64(1)
	sad    = int64(2)
	scared = int64(3)
)

func ids(movies []model.MovieMatch) []int64 {
	out := make([]int64, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestListByEmotionPercentage(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	testinfra.InsertMovie(t, db, 10, "Three of four", 2001)
	testinfra.InsertMovie(t, db, 20, "Never amused", 2002)
	testinfra.InsertMovie(t, db, 30, "No reviews", 2003)

	testinfra.InsertReview(t, db, 10, amused, 1*time.Hour)
	testinfra.InsertReview(t, db, 10, amused, 2*time.Hour)
	testinfra.InsertReview(t, db, 10, amused, 3*time.Hour)
	testinfra.InsertReview(t, db, 10, sad, 4*time.Hour)
	testinfra.InsertReview(t, db, 20, sad, 5*time.Hour)

	movies, err := repo.ListByEmotion(context.Background(), "amused", model.DefaultOrder, repository.MaxListSize)
	require.NoError(t, err)
	require.Len(t, movies, 1)

	m := movies[0]
	assert.Equal(t, int64(10), m.ID)
	assert.Equal(t, "Three of four", m.Title)
	assert.Equal(t, 0.75, m.Percentage)
	assert.Equal(t, 2001, m.ReleaseYear)
	assert.True(t, m.FirstReviewDate.Equal(testinfra.Base.Add(1*time.Hour)))
	assert.True(t, m.LatestReviewDate.Equal(testinfra.Base.Add(4*time.Hour)))
}

func TestListByEmotionUnknown(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	_, err := repo.ListByEmotion(context.Background(), "bored", model.DefaultOrder, repository.MaxListSize)
	assert.ErrorIs(t, err, repository.ErrEmotionNotFound)
}

func TestListByEmotionKnownButEmpty(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	movies, err := repo.ListByEmotion(context.Background(), "scared", model.DefaultOrder, repository.MaxListSize)
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestListByEmotionOrdering(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	// 匹配度: 1 -> 1/2, 2 -> 1/1, 3 -> 1/3
	testinfra.InsertMovie(t, db, 1, "A", 1990)
	testinfra.InsertMovie(t, db, 2, "B", 2010)
	testinfra.InsertMovie(t, db, 3, "C", 2000)

	testinfra.InsertReview(t, db, 1, amused, 1*time.Hour)
	testinfra.InsertReview(t, db, 1, sad, 6*time.Hour)
	testinfra.InsertReview(t, db, 2, amused, 2*time.Hour)
	testinfra.InsertReview(t, db, 2, amused, 9*time.Hour)
	testinfra.InsertReview(t, db, 3, amused, 3*time.Hour)
	testinfra.InsertReview(t, db, 3, sad, 4*time.Hour)
	testinfra.InsertReview(t, db, 3, scared, 5*time.Hour)

	tests := []struct {
		by        model.OrderBy
		direction model.Direction
		want      []int64
	}{
		{model.OrderDateAdded, model.Descending, []int64{2, 1, 3}},
		{model.OrderDateAdded, model.Ascending, []int64{1, 2, 3}},
		{model.OrderReleaseDate, model.Ascending, []int64{1, 3, 2}},
		{model.OrderReleaseDate, model.Descending, []int64{2, 3, 1}},
		{model.OrderMatch, model.Ascending, []int64{3, 1, 2}},
		{model.OrderMatch, model.Descending, []int64{2, 1, 3}},
	}

	for _, tt := range tests {
		order := model.Order{By: tt.by, Direction: tt.direction}
		t.Run(order.String(), func(t *testing.T) {
			movies, err := repo.ListByEmotion(context.Background(), "amused", order, repository.MaxListSize)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(movies))
		})
	}
}

func TestListByEmotionAsymmetricDateAdded(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	// 1 的第一条评价最早但最新评价也最晚，正序倒序都排第一
	testinfra.InsertMovie(t, db, 1, "Old and fresh", 2000)
	testinfra.InsertMovie(t, db, 2, "Middle", 2000)
	testinfra.InsertReview(t, db, 1, amused, 1*time.Hour)
	testinfra.InsertReview(t, db, 2, amused, 2*time.Hour)
	testinfra.InsertReview(t, db, 1, amused, 3*time.Hour)

	asc, err := repo.ListByEmotion(context.Background(), "amused",
		model.Order{By: model.OrderDateAdded, Direction: model.Ascending}, repository.MaxListSize)
	require.NoError(t, err)
	desc, err := repo.ListByEmotion(context.Background(), "amused",
		model.Order{By: model.OrderDateAdded, Direction: model.Descending}, repository.MaxListSize)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, ids(asc))
	assert.Equal(t, []int64{1, 2}, ids(desc))
}

func TestListByEmotionCap(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	for i := int64(1); i <= repository.MaxListSize+8; i++ {
		testinfra.InsertMovie(t, db, i, "Movie", 2000)
		testinfra.InsertReview(t, db, i, sad, time.Duration(i)*time.Minute)
	}

	movies, err := repo.ListByEmotion(context.Background(), "sad", model.DefaultOrder, 1000)
	require.NoError(t, err)
	assert.Len(t, movies, repository.MaxListSize)
	assert.Equal(t, int64(repository.MaxListSize+8), movies[0].ID)
}

func TestListByEmotionInvalidOrder(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	_, err := repo.ListByEmotion(context.Background(), "sad", model.Order{By: "title", Direction: model.Ascending}, 10)
	assert.ErrorIs(t, err, model.ErrInvalidOrder)
}

func TestDetail(t *testing.T) {
	db := testinfra.NewDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	_, err := repos.Rating.CreateWithReview(ctx,
		&model.Movie{ID: 603, Title: "The Matrix", PosterPath: "/matrix.jpg", Runtime: 136, ReleaseYear: 1999},
		[]model.Person{{ID: 1, FullName: "Keanu Reeves"}, {ID: 2, FullName: "Carrie-Anne Moss"}, {ID: 9, FullName: "Lana Wachowski"}, {ID: 8, FullName: "Lilly Wachowski"}},
		[]model.MoviePerson{
			{MovieID: 603, PersonID: 2, CreditOrder: 2, Position: 0},
			{MovieID: 603, PersonID: 1, CreditOrder: 1, Position: 1},
			{MovieID: 603, PersonID: 9, CreditOrder: 0, Position: 2},
			{MovieID: 603, PersonID: 8, CreditOrder: 0, Position: 3},
		},
		scared)
	require.NoError(t, err)
	require.NoError(t, repos.Rating.AddReview(ctx, 603, scared))
	require.NoError(t, repos.Rating.AddReview(ctx, 603, amused))

	detail, err := repos.Movie.Detail(ctx, 603)
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, "The Matrix", detail.Title)
	assert.Equal(t, 1999, detail.ReleaseYear)
	assert.Equal(t, []string{"Lana Wachowski", "Lilly Wachowski"}, detail.Directors)
	assert.Equal(t, []string{"Keanu Reeves", "Carrie-Anne Moss"}, detail.Cast)
	assert.Equal(t, []model.EmotionCount{
		{ID: 1, Name: "amused", Count: 1},
		{ID: 2, Name: "sad", Count: 0},
		{ID: 3, Name: "scared", Count: 2},
	}, detail.Emotions)
	assert.Equal(t, int64(3), detail.TotalReviews())
}

func TestDetailMissing(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	detail, err := repo.Detail(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestCounts(t *testing.T) {
	db := testinfra.NewDB(t)
	repo := repository.NewMovieRepository(db)

	testinfra.InsertMovie(t, db, 1, "A", 2000)
	for i := 0; i < 5; i++ {
		testinfra.InsertReview(t, db, 1, sad, time.Duration(i)*time.Minute)
	}

	// 同一连接上的第二条查询必须统计 reviews 表
	movies, reviews, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), movies)
	assert.Equal(t, int64(5), reviews)
}
