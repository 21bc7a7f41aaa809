package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/config"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/httpserver"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/store"
	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
)

func main() {
	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dict, err := words.Load(words.Options{
		AnswersFile: cfg.AnswersFile,
		AllowedFile: cfg.AllowedFile,
		Length:      cfg.WordLength,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	repo, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open database")
	}
	defer repo.Close()
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(cfg, dict, store.NewMemoryStore(), repo)
	log.Info().Str("port", cfg.Port).Int("wordLength", cfg.WordLength).Int("turns", cfg.MaxTurns).Msg("starting wordle-core")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
