// Package server serves results pages, the JSON results API and the gRPC
// bridge, and advertises itself over mDNS.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc"

	"github.com/izzyreal/owltest/internal/coderender"
	"github.com/izzyreal/owltest/internal/config"
	"github.com/izzyreal/owltest/internal/highlight"
	"github.com/izzyreal/owltest/internal/page"
	"github.com/izzyreal/owltest/internal/server/grpcapi"
	"github.com/izzyreal/owltest/internal/store"
	"github.com/izzyreal/owltest/internal/submitlock"
)

type stateStore struct {
	db        *store.Store
	cfg       config.File
	guards    *submitlock.Registry
	tokenizer coderender.Tokenizer
}

func newStateStore(db *store.Store, cfg config.File) *stateStore {
	return &stateStore{
		db:        db,
		cfg:       cfg,
		guards:    submitlock.NewRegistry(cfg.LockDelay()),
		tokenizer: highlight.New(),
	}
}

func (s *stateStore) pageOptions() page.Options {
	return page.Options{
		Priority:   s.cfg.Render.Priority,
		FlatIDs:    s.cfg.Render.FlatTabs,
		TabSize:    s.cfg.Render.TabSize,
		Mode:       s.cfg.Render.Mode,
		StudentURL: s.cfg.Submit.StudentURL,
		Tokenizer:  s.tokenizer,
	}
}

func Run(ctx context.Context, cfg config.File) error {
	db, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	s := newStateStore(db, cfg)
	router := buildRouter(s)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("owltest server started", "addr", cfg.Server.Addr, "db", cfg.Server.DBPath)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	var grpcSrv *grpc.Server
	if addr := strings.TrimSpace(cfg.Server.GRPCAddr); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			_ = srv.Close()
			return fmt.Errorf("listen grpc: %w", err)
		}
		grpcSrv = grpc.NewServer()
		grpcapi.RegisterResultsServiceServer(grpcSrv, newResultsGRPCServer(router))
		go func() {
			slog.Info("owltest gRPC started", "addr", addr)
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("serve grpc: %w", err)
			}
		}()
	}

	stopMDNS := func() {}
	if cfg.MDNSEnabled() {
		stopMDNS = startMDNSAdvertiser(cfg.Server.Addr)
	}
	defer stopMDNS()

	stopGRPC := func() {
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
	}

	select {
	case <-ctx.Done():
		stopGRPC()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		slog.Info("owltest server stopped")
		return nil
	case err := <-errCh:
		stopGRPC()
		_ = srv.Close()
		if err != nil {
			return err
		}
		slog.Info("owltest server stopped")
		return nil
	}
}
