package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the credentials-core CLI
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials-core",
		Short: "Credentials Core - account registration and login service",
		Long: `Credentials Core stores accounts with bcrypt-hashed passwords and
exchanges valid credentials for signed session tokens.

Configuration is read from the environment (see STORE_BACKEND, DATABASE_URL,
REDIS_URL, JWT_SECRET).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
