// cmd/dredd-server/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Nuolong/dredd/internal/judge"
	"github.com/Nuolong/dredd/internal/util"
)

var (
	port       = flag.Int("port", 8080, "server port")
	scratchDir = flag.String("scratch-dir", "", "scratch directory for run dirs, empty for the default")
	timeoutSec = flag.Int("exec-timeout", judge.DefaultTimeoutSec, "execution timeout in seconds")
	logLevel   = flag.String("log-level", envOrDefault("DREDD_LOG_LEVEL", "info"), "log level")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	cfg := judge.DefaultConfig()
	if *scratchDir != "" {
		cfg.ScratchDir = *scratchDir
	} else if dir := os.Getenv("DREDD_SCRATCH_DIR"); dir != "" {
		cfg.ScratchDir = dir
	}
	cfg.TimeoutSec = *timeoutSec
	cfg.Log.Level = *logLevel

	if err := util.InitLogging(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "dredd-server: %v\n", err)
		os.Exit(1)
	}
	defer util.Sync()

	api, err := judge.NewAPI(cfg)
	if err != nil {
		util.Error("initialize API", zap.Error(err))
		os.Exit(1)
	}

	http.HandleFunc("/judge", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "only POST is supported", http.StatusMethodNotAllowed)
			return
		}

		var req judge.APIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON request", http.StatusBadRequest)
			return
		}

		response := api.Judge(r.Context(), req)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			util.Warn("write response", zap.Error(err))
		}
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(*timeoutSec+judge.DefaultCompileTimeoutSec+30) * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		util.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	util.Info("dredd server listening", zap.Int("port", *port), zap.String("scratchDir", cfg.ScratchDir))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		util.Error("server error", zap.Error(err))
		util.Sync()
		os.Exit(1)
	}
	util.Info("server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
