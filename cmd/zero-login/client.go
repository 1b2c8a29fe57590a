package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
	"github.com/gematik/zero-oauth2-client/pkg/util"
)

var (
	issuerURL     = ""
	authEndpoint  = ""
	tokenEndpoint = ""
	clientID      = ""
	clientSecret  = ""
	redirectURI   = "http://127.0.0.1:8089/callback"
	scopes        []string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&issuerURL, "issuer", issuerURL, "Issuer URL for endpoint discovery")
	rootCmd.PersistentFlags().StringVar(&authEndpoint, "auth-url", authEndpoint, "Authorization endpoint URL, ignored when --issuer is set")
	rootCmd.PersistentFlags().StringVar(&tokenEndpoint, "token-url", tokenEndpoint, "Token endpoint URL, ignored when --issuer is set")
	rootCmd.PersistentFlags().StringVarP(&clientID, "client-id", "c", clientID, "OAuth2 client identifier")
	rootCmd.PersistentFlags().StringVar(&clientSecret, "client-secret", clientSecret, "OAuth2 client secret, empty for public clients")
	rootCmd.PersistentFlags().StringVar(&redirectURI, "redirect-uri", redirectURI, "Redirect URI, must point at this machine")
	rootCmd.PersistentFlags().StringSliceVar(&scopes, "scope", scopes, "Requested scopes")
}

func buildClient(ctx context.Context) (*oauth2client.Client, error) {
	if issuerURL != "" {
		slog.Info("Discovering endpoints", "issuer", issuerURL)
		return oauth2client.NewFromIssuer(ctx, issuerURL, clientID, clientSecret, redirectURI)
	}

	return oauth2client.New(oauth2client.Config{
		ClientID:              clientID,
		ClientSecret:          clientSecret,
		AuthorizationEndpoint: authEndpoint,
		TokenEndpoint:         tokenEndpoint,
		RedirectURI:           redirectURI,
		Scopes:                scopes,
	})
}

func printToken(token *oauth2client.TokenResponse) {
	slog.Info("Obtained token", "token_type", token.TokenType, "expires_in", token.ExpiresIn, "scope", token.Scope)
	fmt.Println(util.JWSToText(token.AccessToken))
	if token.RefreshToken != "" {
		fmt.Printf("refresh_token: %s\n", token.RefreshToken)
	}
}
