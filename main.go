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

	"github.com/cbmmg/painel-cad/internal/middleware"
	"github.com/cbmmg/painel-cad/internal/painel"
	"github.com/cbmmg/painel-cad/internal/painel/provider"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := provider.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	handler, estado := painel.Setup(cfg)

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	estado.IniciarAtualizacao(refreshCtx, cfg.RefreshInterval)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))
	r.Get("/", RootHandler)

	r.Mount("/painel", handler.SetupRoutes())

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on port :%s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutdown: signal received, draining connections...")

	stopRefresh()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("Shutdown complete")
}
