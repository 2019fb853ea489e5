package main

import (
	crand "crypto/rand"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/langaas500/Hvemistua/internal/config"
	"github.com/langaas500/Hvemistua/internal/game"
	"github.com/langaas500/Hvemistua/internal/handlers"
)

func main() {
	_ = mime.AddExtensionType(".js", "application/javascript")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = newSeed(); err != nil {
			log.Fatal(err)
		}
	}

	rules := game.DefaultRules()
	rules.QuestionDuration = cfg.QuestionDuration
	rules.RevealHold = cfg.RevealHold
	rules.UnlockWindow = cfg.UnlockWindow
	rules.PollInterval = cfg.PollInterval

	session := game.NewSession(game.Options{
		Rules: rules,
		Rand:  rand.New(rand.NewSource(seed)),
	})
	live := game.NewLive(session)
	live.Broadcaster().SetDebug(cfg.Debug)
	if cfg.AutoEndVoting {
		live.EnsureDeadlineLoop()
	}
	defer live.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal(err)
	}
	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	handlers.NewAPI(live).RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		handlers.NewPages(live, cfg.BaseURL).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	// No WriteTimeout: /api/stream holds its response open.

	log.Printf("listening on http://localhost%s (auto end voting %t, question %s)", cfg.Addr(), cfg.AutoEndVoting, cfg.QuestionDuration)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// newSeed draws a PRNG seed from crypto/rand.
func newSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

//go:embed static/*
var embeddedStatic embed.FS
