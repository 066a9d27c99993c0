// Copyright 2025 Propel Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-propel/propel/internal/engine/conf"
	"github.com/go-propel/propel/internal/engine/router"
	"github.com/go-propel/propel/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type App struct {
	HttpApp *fiber.App
	AppConf conf.AppConfig
}

// InitAppFunc builds the application graph from a config path.
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(rt *router.Router, appConf conf.AppConfig) (*App, func(), error) {
	app := &App{
		HttpApp: rt.Router(),
		AppConf: appConf,
	}

	cleanup := func() {
		log.Info("application resources released")
	}

	return app, cleanup, nil
}

// Bootstrap builds the App through the injector.
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run starts the HTTP listener and blocks until a shutdown signal,
// then drains in-flight requests before releasing resources.
func Run(app *App, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		addr := fmt.Sprintf("%s:%d", app.AppConf.Http.Host, app.AppConf.Http.Port)
		log.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			log.Errorw("HTTP listener failed", "address", addr, "err", err)
		}
	}()

	sig := <-quit
	log.Infof("received signal: %v, shutting down gracefully", sig)

	shutdownTimeout := time.Duration(app.AppConf.Http.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	} else {
		log.Info("HTTP server shut down gracefully")
	}

	if cleanup != nil {
		cleanup()
	}
}
