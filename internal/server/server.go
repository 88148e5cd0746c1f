// Package server boots the whole application: configuration, database,
// cache, storage, queue workers, event listeners, the scheduler, the gRPC
// health endpoint and the HTTP API. cmd/vastra is a thin shell over it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/vastra/app/graphql"
	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/routes"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/grpc"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/notification"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"github.com/shashiranjanraj/vastra/pkg/reqid"
	"github.com/shashiranjanraj/vastra/pkg/router"
	"github.com/shashiranjanraj/vastra/pkg/schedule"
	"github.com/shashiranjanraj/vastra/pkg/storage"
	"github.com/shashiranjanraj/vastra/pkg/ws"
)

// Start boots every subsystem and serves HTTP until ctx is cancelled, then
// drains in-flight requests and stops the workers.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}
	storage.Connect()

	if uri := config.MongoLogURI(); uri != "" {
		sink, err := logger.NewMongoHandler(uri, config.MongoLogDatabase(), config.MongoLogCollection())
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			logger.AttachSink(sink)
			defer sink.Close()
		}
	}

	notification.SetSlackWebhook(config.SlackWebhook())

	// Queue: redis when configured and reachable, in-process otherwise.
	queue.UseDB(database.DB)
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	jobs.Register()
	queue.StartWorkers(ctx, config.QueueWorkers())

	hub := ws.NewHub()
	go hub.Run()
	registerListeners(hub)
	registerSchedule(ctx)
	schedule.Start(ctx)

	grpcSrv, _, err := grpc.Start(config.GRPCPort())
	if err != nil {
		return err
	}
	defer grpc.Stop(grpcSrv)

	settings := services.NewSettings(database.DB)

	gql, err := graphql.NewHandler(database.DB)
	if err != nil {
		return err
	}

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		metrics.Middleware(),
	)
	routes.RegisterAPI(r, database.DB, settings, hub, gql)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("vastra listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	event.Flush()
	return nil
}

// registerListeners wires the in-process event bus: the admin dashboard
// feed and the low-stock alert pipeline.
func registerListeners(hub *ws.Hub) {
	feed := func(kind string) event.Handler {
		return func(payload interface{}) {
			order, ok := payload.(*models.Order)
			if !ok {
				return
			}
			msg, err := json.Marshal(map[string]interface{}{
				"event":  kind,
				"number": order.Number,
				"status": order.Status,
				"total":  order.Total,
			})
			if err != nil {
				return
			}
			hub.Broadcast <- msg
		}
	}
	event.Listen(services.EventOrderPlaced, feed("order.placed"))
	event.Listen(services.EventOrderStatusChanged, feed("order.status_changed"))

	event.Listen(services.EventStockLow, func(payload interface{}) {
		low, ok := payload.(services.LowStock)
		if !ok {
			return
		}
		err := queue.Dispatch(&jobs.LowStockAlertJob{
			VariantID: low.VariantID,
			SKU:       low.SKU,
			Remaining: low.Remaining,
		})
		if err != nil {
			logger.Error("low stock alert dispatch failed", "sku", low.SKU, "error", err)
		}
	})
}

// registerSchedule declares the recurring jobs. The stock reconciliation
// sweep is the safety net for cancellations whose compensation failed.
func registerSchedule(ctx context.Context) {
	reconciler := services.NewReconciler(database.DB)
	schedule.Cron("30 3 * * *").
		Name("reconcile:stock").
		WithoutOverlapping().
		Run(func() {
			if _, err := reconciler.SweepCancelledOrders(ctx); err != nil {
				logger.Error("scheduled reconciliation failed", "error", err)
			}
		})
}
