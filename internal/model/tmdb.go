package model

import "strconv"

// TMDBSearchResult TMDB 搜索结果
type TMDBSearchResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
}

// CastCredit 演员
type CastCredit struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"` // TMDB 的署名顺序，从 0 开始
}

// CrewCredit 剧组成员
type CrewCredit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits 演职人员
type Credits struct {
	Cast []CastCredit `json:"cast"`
	Crew []CrewCredit `json:"crew"`
}

// TMDBMovie TMDB 电影详情（append_to_response=credits）
// 结构与 POST /movies/ 的请求体一致
type TMDBMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Runtime     int     `json:"runtime"`
	ReleaseDate string  `json:"release_date"`
	Credits     Credits `json:"credits"`
}

// RatingSubmission 新电影评价请求
type RatingSubmission struct {
	ID          int64   `json:"id" binding:"required,gt=0"`
	Title       string  `json:"title" binding:"required"`
	PosterPath  string  `json:"poster_path"`
	Runtime     int     `json:"runtime" binding:"gte=0"`
	ReleaseDate string  `json:"release_date" binding:"releasedate"`
	Credits     Credits `json:"credits"`
	EmotionID   int64   `json:"emotionId" binding:"required,gt=0"`
}

// NewRatingSubmission 由 TMDB 详情构建评价请求
func NewRatingSubmission(m *TMDBMovie, emotionID int64) *RatingSubmission {
	return &RatingSubmission{
		ID:          m.ID,
		Title:       m.Title,
		PosterPath:  m.PosterPath,
		Runtime:     m.Runtime,
		ReleaseDate: m.ReleaseDate,
		Credits:     m.Credits,
		EmotionID:   emotionID,
	}
}

// ReleaseYear 取发行日期的前 4 个字符作为年份，无法解析时为 0
func (s *RatingSubmission) ReleaseYear() int {
	if len(s.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// ReviewSubmission 已有电影的评价请求
type ReviewSubmission struct {
	MovieID   int64 `json:"movieId" binding:"required,gt=0"`
	EmotionID int64 `json:"emotionId" binding:"required,gt=0"`
}
