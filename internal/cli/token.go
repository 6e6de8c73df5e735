package cli

import (
	"fmt"
	"time"

	"dirscan/internal/middleware"
	"dirscan/internal/services"

	"github.com/spf13/cobra"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a token for the scan API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !middleware.NewInputValidator().ValidateSubject(tokenSubject) {
			return fmt.Errorf("invalid subject %q: use letters, digits, '-', '_', '.' or '@'", tokenSubject)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		auth, err := services.InitAuthService(cfg.Auth.Secret, cfg.Auth.TokenExpiry)
		if err != nil {
			return fmt.Errorf("failed to initialize auth: %w", err)
		}

		token, err := auth.GenerateToken(tokenSubject)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "token:   %s\n", token)
		fmt.Fprintf(out, "subject: %s\n", tokenSubject)
		fmt.Fprintf(out, "expires: %s\n", time.Now().Add(auth.TokenExpiry()).Format(time.RFC3339))
		fmt.Fprintf(out, "ws:      ws://%s/ws?token=%s\n", cfg.Server.Addr, token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "dirscan-client", "name the token is issued to")
	rootCmd.AddCommand(tokenCmd)
}
