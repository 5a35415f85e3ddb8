package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/feelreel/internal/logging"
	"github.com/user/feelreel/internal/model"
	"github.com/user/feelreel/internal/service"
	"github.com/user/feelreel/internal/utils"
)

// ListEmotions 所有情绪
// GET /emotions/
func (h *Handler) ListEmotions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"emotions": h.Catalog.Emotions(c.Request.Context())})
}

// MovieDetail 电影详情
// GET /movies/:key/  （key 为电影 ID）
func (h *Handler) MovieDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("key"), 10, 64)
	if err != nil || id <= 0 {
		utils.NotFound(c, "movie not found")
		return
	}

	detail, err := h.Catalog.MovieDetail(c.Request.Context(), id)
	if err != nil {
		utils.NotFound(c, "movie not found")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListMovies 按情绪列出电影
// GET /movies/:key/:orderBy/:direction/  （key 为情绪名）
func (h *Handler) ListMovies(c *gin.Context) {
	order, err := model.ParseOrder(c.Param("orderBy"), c.Param("direction"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	movies, err := h.Catalog.ListMoviesForEmotion(c.Request.Context(), c.Param("key"), order)
	switch {
	case errors.Is(err, service.ErrEmotionNotFound):
		utils.NotFound(c, "emotion not found")
		return
	case errors.Is(err, model.ErrInvalidOrder):
		utils.BadRequest(c, err.Error())
		return
	case err != nil:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("[Handler] 查询电影列表失败")
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"movies": movies})
}

// CreateRating 为电影提交评价，电影不存在时一并保存
// POST /movies/
func (h *Handler) CreateRating(c *gin.Context) {
	var sub model.RatingSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Ratings.SubmitNewMovieRating(c.Request.Context(), &sub); err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Int64("movie_id", sub.ID).Msg("[Handler] 保存评价失败")
		utils.InternalServerError(c, "failed to save rating")
		return
	}
	c.Status(http.StatusCreated)
}

// CreateReview 为已有电影追加评价
// POST /reviews/
func (h *Handler) CreateReview(c *gin.Context) {
	var sub model.ReviewSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Ratings.SubmitReview(c.Request.Context(), sub.MovieID, sub.EmotionID); err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Int64("movie_id", sub.MovieID).Msg("[Handler] 保存评价失败")
		utils.InternalServerError(c, "failed to save review")
		return
	}
	c.Status(http.StatusCreated)
}
