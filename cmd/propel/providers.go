package main

import (
	"context"

	"github.com/go-propel/propel/internal/engine/conf"
	"github.com/go-propel/propel/internal/engine/repo"
	"github.com/go-propel/propel/internal/engine/service"
	"github.com/go-propel/propel/pkg/cache"
	"github.com/go-propel/propel/pkg/ctx"
	"github.com/go-propel/propel/pkg/database"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/go-propel/propel/pkg/log"
	"github.com/go-propel/propel/pkg/mail"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func provideConf(configPath string) conf.AppConfig {
	return conf.NewConf(configPath)
}

func provideLogger(appConf conf.AppConfig) (*zap.Logger, error) {
	return log.NewLog(&appConf.Log)
}

func provideHttpConfig(appConf conf.AppConfig) *httpx.Http {
	return &appConf.Http
}

func provideRedis(appConf conf.AppConfig) (*redis.Client, error) {
	return cache.NewRedis(appConf.Redis)
}

func provideDatabase(appConf conf.AppConfig) (database.IDatabase, error) {
	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, err
	}
	return database.NewGormDB(db), nil
}

func provideCtx(logger *zap.Logger) *ctx.Context {
	return ctx.NewContext(context.Background(), logger.Sugar())
}

func provideMailer(appConf conf.AppConfig) service.InviteMailer {
	return mail.NewSendGridMailer(appConf.Mail)
}

func provideRepositories(db database.IDatabase, rdb *redis.Client) *repo.Repositories {
	return repo.NewRepositories(db, rdb)
}

func provideServices(appConf conf.AppConfig, repos *repo.Repositories, mailer service.InviteMailer) *service.Services {
	return service.NewServices(repos, mailer, appConf.Mail.LinkBase)
}
