package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/user/feelreel/internal/metrics"
	"github.com/user/feelreel/internal/repository"
	"github.com/user/feelreel/internal/service"
	"github.com/user/feelreel/internal/testinfra"
)

func TestStatsRefresh(t *testing.T) {
	db := testinfra.NewDB(t)
	testinfra.InsertMovie(t, db, 1, "Up", 2009)
	testinfra.InsertMovie(t, db, 2, "Coco", 2017)
	testinfra.InsertReview(t, db, 1, 1, 0)
	testinfra.InsertReview(t, db, 1, 2, time.Minute)
	testinfra.InsertReview(t, db, 2, 2, time.Hour)

	stats := service.NewStatsService(repository.NewRepositories(db), time.Hour)
	stats.Refresh(context.Background())

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CatalogMovies))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.CatalogReviews))
}
