package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feelreel/internal/config"
	"github.com/user/feelreel/internal/handler"
	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/repository"
	"github.com/user/feelreel/internal/router"
	"github.com/user/feelreel/internal/testinfra"
	"gorm.io/gorm"
)

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = &config.Config{TMDBRate: 10}
	}
	db := testinfra.NewDB(t)
	r := gin.New()
	router.RegisterRoutes(r, handler.NewHandler(repository.NewRepositories(db), cfg))
	return &testServer{engine: r, db: db}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestListEmotions(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/emotions/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Emotions []model.Emotion `json:"emotions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Emotions, 3)
	assert.Equal(t, "amused", body.Emotions[0].Name)
	assert.Contains(t, w.Body.String(), `"emotion":"amused"`)
}

func TestListMovies(t *testing.T) {
	s := newTestServer(t, nil)
	testinfra.InsertMovie(t, s.db, 1, "Airplane!", 1980)
	testinfra.InsertMovie(t, s.db, 2, "Heat", 1995)
	for i := 0; i < 3; i++ {
		testinfra.InsertReview(t, s.db, 1, 1, time.Duration(i)*time.Minute)
	}
	testinfra.InsertReview(t, s.db, 1, 2, time.Hour)
	testinfra.InsertReview(t, s.db, 2, 2, 2*time.Hour)

	w := s.do(http.MethodGet, "/movies/amused/match/descending/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Movies []model.MovieMatch `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Movies, 1)
	assert.Equal(t, int64(1), body.Movies[0].ID)
	assert.InDelta(t, 0.75, body.Movies[0].Percentage, 1e-9)

	w = s.do(http.MethodGet, "/movies/sad/date-added/descending/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Movies, 2)
	assert.Equal(t, int64(2), body.Movies[0].ID)
}

func TestListMoviesErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"unknown emotion", "/movies/bored/match/descending/", http.StatusNotFound},
		{"unknown order", "/movies/amused/rating/descending/", http.StatusBadRequest},
		{"unknown direction", "/movies/amused/match/sideways/", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodGet, tt.path, "")
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestListMoviesEmptyIsArray(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/movies/scared/release-date/ascending/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"movies":[]}`, w.Body.String())
}

func TestMovieDetail(t *testing.T) {
	s := newTestServer(t, nil)
	testinfra.InsertMovie(t, s.db, 5, "Jaws", 1975)
	testinfra.InsertReview(t, s.db, 5, 3, 0)

	w := s.do(http.MethodGet, "/movies/5/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var detail model.MovieDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Jaws", detail.Title)
	require.Len(t, detail.Emotions, 3)
	assert.Equal(t, int64(1), detail.TotalReviews())
	assert.NotNil(t, detail.Directors)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/movies/6/", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/movies/amused/", "").Code)
}

func TestCreateRating(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{
		"id": 348, "title": "Alien", "poster_path": "/alien.jpg", "runtime": 117,
		"release_date": "1979-05-25",
		"credits": {
			"cast": [{"id": 10205, "name": "Sigourney Weaver", "order": 0}],
			"crew": [{"id": 578, "name": "Ridley Scott", "job": "Director"}]
		},
		"emotionId": 3
	}`
	w := s.do(http.MethodPost, "/movies/", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/movies/348/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail model.MovieDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, 1979, detail.ReleaseYear)
	assert.Equal(t, []string{"Ridley Scott"}, detail.Directors)
	assert.Equal(t, []string{"Sigourney Weaver"}, detail.Cast)

	w = s.do(http.MethodPost, "/reviews/", `{"movieId": 348, "emotionId": 1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/movies/amused/match/descending/", "")
	assert.Contains(t, w.Body.String(), `"percentage":0.5`)
}

func TestCreateRatingFailures(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"malformed json", "/movies/", `{"id":`, http.StatusBadRequest},
		{"missing emotion", "/movies/", `{"id": 1, "title": "X"}`, http.StatusBadRequest},
		{"bad release date", "/movies/", `{"id": 1, "title": "X", "release_date": "soon", "emotionId": 1}`, http.StatusBadRequest},
		{"unknown emotion", "/movies/", `{"id": 1, "title": "X", "emotionId": 42}`, http.StatusInternalServerError},
		{"review for unknown movie", "/reviews/", `{"movieId": 77, "emotionId": 1}`, http.StatusInternalServerError},
		{"review without movie", "/reviews/", `{"emotionId": 1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}

	// 失败的提交不留下任何数据
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/movies/1/", "").Code)
}

func TestTMDBDisabled(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/tmdb/search/?query=alien", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/tmdb/movies/348/", "").Code)
}

func TestTMDBProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			w.Write([]byte(`{"results":[{"id":348,"title":"Alien","poster_path":"/alien.jpg"},{"id":2,"title":"No Poster"}]}`))
		case "/movie/348":
			w.Write([]byte(`{"id":348,"title":"Alien","runtime":117,"release_date":"1979-05-25","credits":{"cast":[],"crew":[]}}`))
		case "/movie/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	s := newTestServer(t, &config.Config{TMDBToken: "t", TMDBBaseURL: upstream.URL, TMDBRate: 50})

	w := s.do(http.MethodGet, "/tmdb/search/?query=alien", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[{"id":348,"title":"Alien","poster_path":"/alien.jpg","release_date":"","overview":""}]}`, w.Body.String())

	w = s.do(http.MethodGet, "/tmdb/movies/348/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"credits"`)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/tmdb/movies/1/", "").Code)
	assert.Equal(t, http.StatusBadGateway, s.do(http.MethodGet, "/tmdb/movies/500/", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/tmdb/movies/abc/", "").Code)
}

func TestReleaseDateValidation(t *testing.T) {
	handler.RegisterValidators()
	s := newTestServer(t, nil)

	for _, date := range []string{"", "1999", "1999-03-30"} {
		body := `{"id": 9, "title": "X", "release_date": "` + date + `", "emotionId": 1}`
		assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/movies/", body).Code, date)
	}
	body := `{"id": 9, "title": "X", "release_date": "1999-13-40", "emotionId": 1}`
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/movies/", body).Code)
}
