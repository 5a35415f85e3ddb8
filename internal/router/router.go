package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/feelreel/internal/handler"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== 情绪与电影 ====================
	r.GET("/emotions/", h.ListEmotions)

	movies := r.Group("/movies")
	{
		// :key 为电影 ID（详情）或情绪名（列表），gin 要求同一位置的参数同名
		movies.GET("/:key/", h.MovieDetail)
		movies.GET("/:key/:orderBy/:direction/", h.ListMovies)
		movies.POST("/", h.CreateRating)
	}

	r.POST("/reviews/", h.CreateReview)

	// ==================== TMDB 检索 ====================
	tmdb := r.Group("/tmdb")
	{
		tmdb.GET("/search/", h.TMDBSearch)
		tmdb.GET("/movies/:id/", h.TMDBMovie)
	}
}
