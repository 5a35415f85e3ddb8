package handler

import (
	"regexp"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/feelreel/internal/config"
	"github.com/user/feelreel/internal/repository"
	"github.com/user/feelreel/internal/service"
	"github.com/user/feelreel/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config  *config.Config
	Catalog *service.CatalogService
	Ratings *service.RatingService
	TMDB    *service.TMDBService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	RegisterValidators()

	return &Handler{
		Config:  cfg,
		Catalog: service.NewCatalogService(repos, utils.NewCache()),
		Ratings: service.NewRatingService(repos.Rating),
		TMDB:    service.NewTMDBService(cfg, utils.NewHTTPClient(10*time.Second)),
	}
}

var (
	registerOnce    sync.Once
	releaseDateExpr = regexp.MustCompile(`^\d{4}(-\d{2}-\d{2})?$`)
)

// RegisterValidators 向 gin 的校验引擎注册自定义规则
//   - releasedate: 空字符串，或 YYYY / YYYY-MM-DD
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("releasedate", validateReleaseDate)
	})
}

func validateReleaseDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if !releaseDateExpr.MatchString(s) {
		return false
	}
	if len(s) == 4 {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
