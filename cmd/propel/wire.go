//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-propel/propel/internal/bootstrap"
	"github.com/go-propel/propel/internal/engine/router"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		provideConf,
		provideLogger,
		provideHttpConfig,
		provideRedis,
		provideDatabase,
		provideCtx,
		provideRepositories,
		provideMailer,
		provideServices,
		router.NewRouter,
		bootstrap.NewApp,
	))
}
