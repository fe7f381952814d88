package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JoaquimColacilli/bloxmision-sub001/assets"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/httpserver"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/levels"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/store"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/words"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var port, dbPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if cmd.Flags().Changed("db") {
				a.cfg.DatabasePath = dbPath
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	return cmd
}

// serve wires storage, word lists and levels into the HTTP server and runs
// it until ctx is cancelled.
func (a *app) serve(ctx context.Context) error {
	log := a.logger

	if err := words.Init(a.cfg.AnswersFile, a.cfg.AllowedFile); err != nil {
		return fmt.Errorf("load word lists: %w", err)
	}
	answers, allowed := words.Stats()
	log.Info().Int("answers", answers).Int("allowed", allowed).Msg("word lists loaded")

	cat, err := levels.Default()
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}

	db, err := store.OpenDB(a.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	srv := httpserver.New(httpserver.Deps{
		Config: a.cfg,
		DB:     db,
		Games:  store.NewMemoryStore(),
		Levels: cat,
		Logger: log,
	})
	hs := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", hs.Addr).Int("levels", cat.Len()).Msg("starting server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
