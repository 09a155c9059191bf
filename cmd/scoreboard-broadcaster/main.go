package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/config"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/consumer"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/gateway"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/hub"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/processor"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/state"
	"github.com/redis/go-redis/v9"
)

func main() {
	fmt.Println("🚀 Starting Scoreboard Broadcaster...")

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initial := state.NewMatchState(cfg.Match.MatchDefaults())

	// Viewers are always served over WebSocket
	h := hub.NewHub(initial)
	go h.Run(ctx)

	gw := gateway.New(h)
	proc := processor.New(initial, gw)
	go proc.Run(ctx)

	handler := handlers.NewHandler(ctx, h, proc)

	// Redis mirrors updates and accepts commands from other services
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       0,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Connected to Redis")

		pub := publisher.NewStreamPublisher(redisClient, cfg.Stream.UpdateStream)
		gw.Add(pub)
		go pub.Run(ctx)
		handler.AddMetricsSource("publisher", pub.GetMetrics)

		streamConsumer := consumer.NewStreamConsumer(redisClient, proc, cfg.Stream)
		go func() {
			if err := streamConsumer.Start(ctx); err != nil {
				fmt.Printf("⚠️  Stream consumer stopped: %v\n", err)
			}
		}()
	}

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Routes(cfg.Server.CORSOrigins),
	}

	go func() {
		fmt.Printf("✓ Scoreboard server listening on %s\n", cfg.Server.Addr)
		fmt.Printf("  Match: %s (%s) at %s\n", initial.MatchName, initial.MatchType, initial.MatchVenue)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down...")

	// Cancel context to stop all goroutines
	cancel()

	// Graceful shutdown of HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("⚠️  Server shutdown error: %v\n", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}

	fmt.Println("✓ Shutdown complete")
}
