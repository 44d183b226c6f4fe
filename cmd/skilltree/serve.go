package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skilltree/internal/config"
	"skilltree/internal/handler"
	"skilltree/internal/hub"
	"skilltree/internal/input"
	"skilltree/internal/loader"
	"skilltree/internal/progress"
	"skilltree/internal/repository/sqlite"
	"skilltree/internal/service"
	"skilltree/internal/session"
	"skilltree/internal/style"
	"skilltree/internal/watcher"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr, dbPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the viewer API and event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Database.Path = dbPath
			}
			if cmd.Flags().Changed("watch") {
				cfg.Sources.Watch = watch
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides server.addr)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database.path)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload when source files change")
	return cmd
}

func serve(cfg *config.Config) error {
	log.Println("Starting skilltree server...")

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	src, err := loader.New(cfg.Sources.Root, cfg.Sources.Include, cfg.Sources.Primary)
	if err != nil {
		return fmt.Errorf("configure sources: %w", err)
	}

	styles := style.NewOverlay(cfg.Styles)
	tracker := progress.NewTracker(nil, cfg.Session.Points)
	sess := session.New(session.Options{
		TreeRect:  input.Rect{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		PathsRect: input.Rect{Width: cfg.Paths.Width, Height: cfg.Paths.Height},
		Resolver:  style.NewResolver(cfg.StylePalette(), styles),
		States:    tracker,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventBus := service.NewEventBus()

	sseHub := hub.New()
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go hub.Forward(ctx, sseHub, eventChan)

	graphSvc := service.NewGraphService(src, repo, eventBus, sess, tracker, cfg.Session.Key)
	graphSvc.SetStyles(styles)

	if _, err := graphSvc.Reload(ctx); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	if err := graphSvc.Restore(ctx); err != nil {
		log.Printf("Failed to restore session %s: %v", cfg.Session.Key, err)
	}

	if cfg.Sources.Watch {
		w := watcher.New(src.Root(), cfg.Sources.Include, func() {
			if _, err := graphSvc.Reload(ctx); err != nil {
				log.Printf("Reload after change failed: %v", err)
			}
		}).WithDebounce(cfg.Sources.Debounce)
		go func() {
			if err := w.Watch(ctx); err != nil {
				log.Printf("Watcher stopped: %v", err)
			}
		}()
	}

	router := handler.NewRouter(handler.NewGraphHandler(graphSvc), handler.RouterOptions{
		AllowedOrigins: cfg.Server.Origins,
		Events:         sseHub,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := graphSvc.SaveView(shutdownCtx); err != nil {
		log.Printf("Failed to save view: %v", err)
	}

	// SSE streams only end once the hub closes them
	cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}
