package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/vastra/app/jobs"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/queue"
	"github.com/shashiranjanraj/vastra/pkg/schedule"
)

var queueWorkersFlag int

// bootQueue prepares the queue for a standalone worker process: database
// for failed-job persistence, redis driver when configured, job registry.
func bootQueue() error {
	if err := bootDB(); err != nil {
		return err
	}
	queue.UseDB(database.DB)
	if config.QueueDriver() == "redis" {
		if err := cache.Connect(); err != nil {
			return fmt.Errorf("redis queue driver: %w", err)
		}
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	jobs.Register()
	return nil
}

// vastra queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start a standalone queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootQueue(); err != nil {
			return err
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// vastra schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootDB(); err != nil {
			return err
		}

		reconciler := services.NewReconciler(database.DB)
		schedule.Cron("30 3 * * *").
			Name("reconcile:stock").
			WithoutOverlapping().
			Run(func() {
				if _, err := reconciler.SweepCancelledOrders(ctx); err != nil {
					fmt.Println("reconciliation failed:", err)
				}
			})

		for _, t := range schedule.List() {
			fmt.Println("  scheduled:", t)
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

// vastra reconcile:stock
var reconcileStockCmd = &cobra.Command{
	Use:   "reconcile:stock",
	Short: "Restore stock for cancelled orders whose compensation failed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		restored, err := services.NewReconciler(database.DB).
			SweepCancelledOrders(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Restored stock for %d order(s).\n", restored)
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (defaults to QUEUE_WORKERS)")
}
