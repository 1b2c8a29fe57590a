package main

import (
	"log/slog"
	"os"

	"github.com/gematik/zero-oauth2-client/pkg/prettylog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zero-login",
	Short: "OAuth2 authorization code flow from the command line",
}

func main() {
	godotenv.Load()
	if os.Getenv("PRETTY_LOGS") != "false" {
		logger := slog.New(prettylog.NewHandler(slog.LevelDebug))
		slog.SetDefault(logger)
	}
	rootCmd.Execute()
}
