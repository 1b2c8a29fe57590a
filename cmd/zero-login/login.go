package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"time"

	"github.com/gematik/zero-oauth2-client/pkg/oauth2client"
	"github.com/gematik/zero-oauth2-client/pkg/util"
	"github.com/spf13/cobra"
)

var (
	resourceURL  = ""
	loginTimeout = 5 * time.Minute
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain a token using the authorization code flow",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := buildClient(ctx)
		if err != nil {
			log.Fatal(err)
		}

		state := oauth2client.GenerateState()
		var opts []oauth2client.ParameterOption
		if len(scopes) > 0 {
			opts = append(opts, oauth2client.WithScope(scopes...))
		}
		authURL, err := client.AuthCodeURL(state, opts...)
		if err != nil {
			log.Fatal(err)
		}

		callbackURL, err := url.Parse(redirectURI)
		if err != nil {
			log.Fatal(err)
		}
		callbackChan := oauth2client.StartCallbackServer(callbackURL.Host, callbackURL.Path, loginTimeout)

		slog.Info("Opening browser", "url", authURL)
		if err := util.OpenBrowser(authURL); err != nil {
			slog.Warn("Unable to open browser, please open the URL manually", "url", authURL)
		}

		callback := <-callbackChan
		if callback.Error != nil {
			log.Fatal(callback.Error)
		}
		if callback.State != state {
			log.Fatal("state parameter mismatch in callback")
		}

		token, err := client.Exchange(ctx, callback.Code)
		if err != nil {
			log.Fatal(err)
		}
		printToken(token)

		if resourceURL != "" {
			body, err := client.Get(ctx, token, resourceURL)
			if err != nil {
				log.Fatal(err)
			}
			slog.Info("Fetched protected resource", "url", resourceURL)
			fmt.Println(string(body))
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&resourceURL, "resource-url", "r", resourceURL, "Protected resource to GET with the obtained token")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", loginTimeout, "How long to wait for the authorization callback")
	rootCmd.AddCommand(loginCmd)
}
