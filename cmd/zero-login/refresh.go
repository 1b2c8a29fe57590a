package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

var refreshToken = ""

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Redeem a refresh token for a fresh token response",
	Run: func(cmd *cobra.Command, args []string) {
		if refreshToken == "" {
			log.Fatal("missing --refresh-token")
		}

		ctx := context.Background()
		client, err := buildClient(ctx)
		if err != nil {
			log.Fatal(err)
		}

		token, err := client.Refresh(ctx, refreshToken)
		if err != nil {
			log.Fatal(err)
		}
		printToken(token)
	},
}

func init() {
	refreshCmd.Flags().StringVarP(&refreshToken, "refresh-token", "t", refreshToken, "Refresh token to redeem")
	rootCmd.AddCommand(refreshCmd)
}
