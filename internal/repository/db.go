package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/user/feelreel/internal/config"
	"github.com/user/feelreel/internal/metrics"
	"github.com/user/feelreel/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.Env != "production" {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	if cfg.DBDriver == "sqlite" {
		return OpenSQLite(cfg.DBPath, gormCfg)
	}

	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetMaxIdleConns(5)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("初始化 gorm 失败: %w", err)
	}
	return db, nil
}

// OpenSQLite 打开 sqlite 数据库并启用外键约束
func OpenSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_foreign_keys") {
		dsn += sep + "_foreign_keys=on"
	}
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("无法打开 sqlite: %w", err)
	}

	// sqlite 单写者
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate 建表并写入情绪参考数据
func Migrate(db *gorm.DB, emotions []string) error {
	if err := db.AutoMigrate(
		&model.Emotion{},
		&model.Movie{},
		&model.Person{},
		&model.MoviePerson{},
		&model.Review{},
	); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return NewEmotionRepository(db).Seed(context.Background(), emotions)
}

// Repositories 仓库集合
type Repositories struct {
	DB      *gorm.DB
	Emotion *EmotionRepository
	Movie   *MovieRepository
	Rating  *RatingRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:      db,
		Emotion: NewEmotionRepository(db),
		Movie:   NewMovieRepository(db),
		Rating:  NewRatingRepository(db),
	}
}

// withConn 为一次调用获取独占连接，任何返回路径上都会释放
// fn 中的每条链式查询都从新的 Statement 开始，避免沿用上一条查询的表与条件
func withConn(ctx context.Context, db *gorm.DB, op string, fn func(conn *gorm.DB) error) error {
	start := time.Now()
	err := db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(conn.Session(&gorm.Session{NewDB: true}))
	})
	observe(op, start, err)
	return err
}

// withTx 在一个事务中执行，出错时整体回滚
func withTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx.Session(&gorm.Session{NewDB: true}))
	})
	observe(op, start, err)
	return err
}

func observe(op string, start time.Time, err error) {
	if errors.Is(err, ErrEmotionNotFound) {
		err = nil
	}
	metrics.ObserveDB(op, time.Since(start).Seconds(), err)
}
