package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gematik/zero-oauth2-client/pkg/mockas"
	"github.com/gematik/zero-oauth2-client/pkg/prettylog"
	"github.com/gematik/zero-oauth2-client/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	if os.Getenv("PRETTY_LOGS") != "false" {
		logger := slog.New(prettylog.NewHandler(slog.LevelDebug))
		slog.SetDefault(logger)
	}

	configPath := util.GetEnv("MOCKAS_CONFIG_PATH", "config/mockas.yaml")
	slog.Info("Loading mock AS config", "config_path", configPath)
	s, err := mockas.NewServerFromConfigFile(configPath)
	if err != nil {
		log.Fatal(err)
	}

	slog.Info("Starting mock authorization server", "address", s.Address())

	log.Fatal(s.ListenAndServe(s.Address()))
}
