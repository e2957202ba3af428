// Command recharge is a terminal storefront for the recharge API. It lists
// operators and plans, runs the checkout flow for a mobile number and looks
// up payments.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-recharge-backend/internal/client"
	"github.com/tbourn/go-recharge-backend/internal/sysutil"
)

var Version = "dev"

const defaultAPI = "http://localhost:8080/api"

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "recharge",
		Short:         "Recharge a prepaid mobile number over UPI",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger := sysutil.ConfigureLogger(cmd.ErrOrStderr(), level, true)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}
	rootCmd.PersistentFlags().String("api", "", "API base URL (env RECHARGE_API_URL, default "+defaultAPI+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log request and launch details")

	rootCmd.AddCommand(operatorsCmd())
	rootCmd.AddCommand(plansCmd())
	rootCmd.AddCommand(payCmd())
	rootCmd.AddCommand(statusCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient builds a client from the --api flag or RECHARGE_API_URL.
func apiClient(cmd *cobra.Command) (*client.Client, error) {
	flag, _ := cmd.Flags().GetString("api")
	return client.New(sysutil.FirstNonEmpty(flag, os.Getenv("RECHARGE_API_URL"), defaultAPI))
}

// logger returns the command's logger, or a disabled one before PersistentPreRun.
func logger(cmd *cobra.Command) *zerolog.Logger {
	return zerolog.Ctx(cmd.Context())
}
