package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KrishSaraf/manj-book/app/server/blog"
	"github.com/KrishSaraf/manj-book/app/server/jwt"
)

type App struct {
	l         *zap.Logger
	db        *gorm.DB
	jwt       *jwt.JWT
	blog      *blog.Service
	uploadDir string
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT, uploadDir string) *App {
	return &App{
		l:         l,
		db:        db,
		jwt:       j,
		blog:      blog.NewService(l, db, rdb, uploadDir),
		uploadDir: uploadDir,
	}
}
