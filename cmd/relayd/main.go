package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/chilledoj/gorelay"
)

func main() {

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := gorelay.LoadConfig()
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	txtHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	slogger := slog.New(txtHandler)
	slog.SetDefault(slogger)

	rly := gorelay.NewRelay(cfg, slogger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", rly.HandleSocket(func(w http.ResponseWriter, r *http.Request, err error) {
		slogger.Error("socket upgrade failed", "remote", r.RemoteAddr, "err", err)
		http.Error(w, "upgrade failed", http.StatusBadRequest)
	}))
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	s := http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	go func() {
		slogger.Info("listening", "addr", cfg.Addr, "defaultRoom", cfg.DefaultRoom)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()
	<-ctx.Done()
	slogger.Info("shutting down relay")
	rly.Shutdown()
	slogger.Info("shutting down server")
	s.Shutdown(context.Background())
	slogger.Info("shutdown complete")
}
