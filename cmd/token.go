package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	webservices "github.com/hobbyreads/hobbyreads/backend/services"
	"github.com/hobbyreads/hobbyreads/hobbyreads/logger"
	"github.com/spf13/cobra"
)

var (
	tokenUserID int64
	tokenAdmin  bool
)

var tokenCMD = &cobra.Command{
	Use:   "token",
	Short: "issue a bearer token for a user, for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 {
			return errors.New("--user must be a positive user id")
		}

		token, err := webservices.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Issue(tokenUserID, tokenAdmin)
		if err != nil {
			return err
		}

		logger.LogSystem("Token issued", slog.Int64("user_id", tokenUserID), slog.Bool("admin", tokenAdmin))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCMD.Flags().Int64Var(&tokenUserID, "user", 0, "user id the token is issued for")
	tokenCMD.Flags().BoolVar(&tokenAdmin, "admin", false, "mark the token as an admin token")
	rootCmd.AddCommand(tokenCMD)
}
