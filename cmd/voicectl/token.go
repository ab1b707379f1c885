package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/voicecare/relay/internal/platform/secrets"
	"github.com/voicecare/relay/internal/service/auth"
)

type tokenOptions struct {
	room      string
	identity  string
	ttl       time.Duration
	apiKey    string
	apiSecret string
	inspect   string
}

func newTokenCmd() *cobra.Command {
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or inspect a LiveKit room token",
		Long: "Issues a room token signed with the LiveKit API key pair. The pair defaults to " +
			"the LIVEKIT_API_KEY and LIVEKIT_API_SECRET environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := opts.issuer(cmd.Context())
			if err != nil {
				return err
			}

			if opts.inspect != "" {
				claims, err := issuer.ValidateToken(cmd.Context(), opts.inspect)
				if err != nil {
					return fmt.Errorf("inspect token: %w", err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(claims)
			}

			token, err := issuer.IssueToken(cmd.Context(), opts.room, opts.identity, opts.ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.room, "room", "", "room to grant access to")
	cmd.Flags().StringVar(&opts.identity, "identity", "", "participant identity")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "LiveKit API key")
	cmd.Flags().StringVar(&opts.apiSecret, "api-secret", "", "LiveKit API secret")
	cmd.Flags().StringVar(&opts.inspect, "inspect", "", "verify a token and print its claims instead of issuing one")
	return cmd
}

func (o *tokenOptions) issuer(ctx context.Context) (auth.TokenIssuer, error) {
	env := secrets.NewEnvProvider()
	key, secret := o.apiKey, o.apiSecret
	if key == "" {
		key, _ = env.Resolve(ctx, "LIVEKIT_API_KEY")
	}
	if secret == "" {
		secret, _ = env.Resolve(ctx, "LIVEKIT_API_SECRET")
	}
	if key == "" || secret == "" {
		return nil, errors.New("LiveKit API key and secret are required (--api-key/--api-secret or LIVEKIT_API_KEY/LIVEKIT_API_SECRET)")
	}
	return auth.NewTokenIssuer(key, secret)
}
