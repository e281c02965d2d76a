package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/punchmoji/internal/app"
	"github.com/ayusman/punchmoji/internal/audio"
	"github.com/ayusman/punchmoji/internal/config"
	"github.com/ayusman/punchmoji/internal/pose"
	"github.com/ayusman/punchmoji/internal/render"
	"github.com/ayusman/punchmoji/internal/render/window"
	"github.com/ayusman/punchmoji/internal/server"
	"github.com/ayusman/punchmoji/internal/store"
)

func main() {
	fmt.Println("punchmoji - clap to start, punch the emoji")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Terminal mode owns the tty, so logs go to a file next to the history.
	if cfg.Renderer == config.RendererTerminal {
		if f := openLogFile(cfg.HistoryPath); f != nil {
			defer f.Close()
			log.SetOutput(f)
		}
	}

	appCfg := app.Config{
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThreshold,
	}

	// Initialize the store
	var st *store.Store
	if cfg.HistoryPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath), 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		st, err = store.New(cfg.HistoryPath)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()
		appCfg.Rounds = st.Rounds()
	}

	if cfg.Sound {
		player := audio.NewBeepPlayer()
		if err := player.Initialize(); err != nil {
			// Non-fatal, game can run without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			defer player.Close()
			appCfg.Sound = player
		}
	}

	a := app.New(appCfg)
	if notice := detectorNotice(a.Detector()); notice != "" {
		fmt.Fprintln(os.Stderr, notice)
		log.Print(notice)
	}
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start camera: %v", err)
	}
	defer a.Stop()

	if cfg.Addr != "" {
		webDir := findWebDir()
		if webDir != "" {
			log.Printf("Serving static files from: %s", webDir)
		}

		srv := server.New(server.Config{
			StaticDir: webDir,
			Store:     st,
			Game:      a,
		})
		go func() {
			log.Printf("Starting spectator server on %s", cfg.Addr)
			if err := srv.ListenAndServe(cfg.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
		defer shutdownServer(srv, 2*time.Second)
	}

	tick := func() { a.Tick() }
	scene := func() []render.Command {
		frame, _ := a.Frame()
		return render.Scene(a.Snapshot(), frame)
	}

	switch cfg.Renderer {
	case config.RendererTerminal:
		err = runTerminal(tick, scene)
	default:
		err = window.New(tick, scene).Run()
	}
	if err != nil {
		log.Printf("Renderer failed: %v", err)
	}
}

// detectorNotice explains why no poses will ever arrive when the pose service
// is missing.
func detectorNotice(d pose.Detector) string {
	if _, ok := d.(*pose.MockDetector); !ok {
		return ""
	}
	return "No pose service found: the game will wait at START. Install scripts/pose_service.py " +
		"(and optionally venv/bin/python) next to the binary, in the working directory or in ~/.punchmoji."
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownServer(srv shutdowner, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
}

func runTerminal(tick func(), scene func() []render.Command) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return render.NewTerminal(screen, tick, scene).Run(ctx)
}

func openLogFile(historyPath string) *os.File {
	dir := filepath.Dir(historyPath)
	if historyPath == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "punchmoji.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}
	return f
}

// findWebDir searches for the spectator page in "web", "../web", "../../web"
// and ~/.punchmoji/web. Returns the first existing directory or empty string.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".punchmoji", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
