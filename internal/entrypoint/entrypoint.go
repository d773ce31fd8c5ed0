package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wordlookup/internal/audio"
	"github.com/mrlokans/wordlookup/internal/config"
	"github.com/mrlokans/wordlookup/internal/database"
	"github.com/mrlokans/wordlookup/internal/dictionary"
	http_controllers "github.com/mrlokans/wordlookup/internal/http"
	"github.com/mrlokans/wordlookup/internal/scheduler"
	"github.com/mrlokans/wordlookup/internal/session"
	"github.com/mrlokans/wordlookup/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT or SIGTERM; SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop playback)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Build wires every dependency of the web surface and returns the router
// together with its shutdown callback. The returned close function releases
// the database and the task queue.
func Build(cfg *config.Config, version string) (*gin.Engine, ShutdownFunc, func(), error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	var taskClient *tasks.Client
	cleanup := func() {
		if taskClient != nil {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task queue: %v", err)
			}
		}
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	dictClient := dictionary.NewFreeDictionaryClient(dictionary.Config{
		BaseURL:    cfg.Dictionary.BaseURL,
		MinLatency: cfg.Dictionary.MinLatency,
		Timeout:    cfg.Dictionary.Timeout,
		UserAgent:  cfg.Dictionary.UserAgent,
	})

	// Pronunciation clips play on the host running the server.
	var audioController *audio.Controller
	var pruneScheduler *scheduler.CachePruneScheduler
	audioCache, err := audio.NewCache(cfg.Audio.CacheDir, cfg.Dictionary.UserAgent)
	if err != nil {
		log.Printf("WARNING: Failed to initialize audio cache, playback disabled: %v", err)
	} else {
		player, err := audio.NewExecPlayer(audio.ExecPlayerConfig{
			Command: cfg.Audio.PlayerCommand,
			Args:    cfg.Audio.PlayerArgs,
			Cache:   audioCache,
		})
		if err != nil {
			log.Printf("WARNING: Audio playback disabled: %v", err)
		} else {
			audioController = audio.NewController(player, cfg.Audio.ErrorReset)
			log.Printf("Audio cache initialized at %s, player: %s", audioCache.CacheDir(), cfg.Audio.PlayerCommand)
		}

		pruneScheduler = scheduler.NewCachePruneScheduler(audioCache, cfg.Audio.PruneSchedule, cfg.Audio.CacheMaxAge)
		if err := pruneScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: Failed to start audio cache pruning: %v", err)
		}
	}

	var prefetcher http_controllers.ClipPrefetcher
	if cfg.Tasks.Enabled && audioController != nil {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Printf("WARNING: Failed to initialize task queue, clip prefetch disabled: %v", err)
			taskClient = nil
		} else {
			taskClient.Register(tasks.NewPrefetchClipQueue(audioCache))
			taskClient.Start(context.Background())
			prefetcher = taskClient
		}
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := session.NewManager(sqlDB, cfg.Session)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	// Generate or use configured CSRF secret
	var csrfSecret []byte
	if cfg.Session.Secret != "" {
		csrfSecret = session.DecodeSecret(cfg.Session.Secret)
	} else {
		secret, err := session.GenerateSecret()
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
		}
		csrfSecret = session.DecodeSecret(secret)
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}

	routerCfg := http_controllers.RouterConfig{
		DictionaryClient:   dictClient,
		Audio:              audioController,
		Database:           db,
		SessionManager:     sessionManager,
		FallbackHistory:    db,
		Prefetcher:         prefetcher,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Session.SecureCookies,
		DefaultWords:       cfg.App.DefaultWords,
		NotifyDismissAfter: cfg.Notify.DismissAfter,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if taskClient != nil && !taskClient.Stop(ctx) {
			log.Printf("WARNING: Task queue did not drain before shutdown")
		}
		if pruneScheduler != nil {
			pruneScheduler.Stop()
		}
		if audioController != nil {
			audioController.Stop()
		}
	}

	return router, onShutdown, cleanup, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Word Lookup v%s", version)

	router, onShutdown, cleanup, err := Build(cfg, version)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer cleanup()

	Serve(router, cfg, onShutdown)
}
