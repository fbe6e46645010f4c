package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/melangjewelers/catalog/config"
	"github.com/melangjewelers/catalog/internal/app"
	"github.com/melangjewelers/catalog/internal/catalogapi"
	"github.com/melangjewelers/catalog/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var configFile = flag.String("c", "catalog.yml", "config file path")

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*configFile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	webserver.Init(application)
	catalogapi.RegisterProductRoutes()
	catalogapi.RegisterBannerRoutes()
	catalogapi.RegisterAboutPageRoutes()
	catalogapi.RegisterAuthRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen()
	})
	g.Go(func() error {
		application.StartBackgroundJobs(ctx)
		<-ctx.Done()
		return webserver.Shutdown()
	})

	if err := g.Wait(); err != nil {
		zap.S().Errorf("server stopped: %v", err)
	}
}
