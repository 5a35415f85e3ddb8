package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/feelreel/internal/service"
	"github.com/user/feelreel/internal/utils"
)

// TMDBSearch 搜索 TMDB 电影
// GET /tmdb/search/?query=
func (h *Handler) TMDBSearch(c *gin.Context) {
	results, err := h.TMDB.SearchMovies(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.tmdbError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// TMDBMovie TMDB 电影详情（含演职人员）
// GET /tmdb/movies/:id/
func (h *Handler) TMDBMovie(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.NotFound(c, "movie not found")
		return
	}

	movie, err := h.TMDB.GetMovie(c.Request.Context(), id)
	if err != nil {
		h.tmdbError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

func (h *Handler) tmdbError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTMDBDisabled):
		utils.ServiceUnavailable(c, "movie lookup is not configured")
	case errors.Is(err, service.ErrTMDBNotFound):
		utils.NotFound(c, "movie not found")
	default:
		utils.BadGateway(c, "movie lookup failed")
	}
}
