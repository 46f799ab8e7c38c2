// Command crmkit is the command line interface for the crmkit record
// service. It talks to a running daemon when CRMKIT_ADDR is set and falls
// back to the embedded engine over the local data directory otherwise.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crmkit-dev/crmkit/internal/config"
	"github.com/crmkit-dev/crmkit/internal/logging"
	"github.com/crmkit-dev/crmkit/pkg/sdk"
)

var (
	cfg    config.Config
	stores sdk.Stores
	log    *zap.Logger

	asJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "crmkit",
	Short: "Manage CRM contacts, deals and activities",
	Long: `crmkit manages the contacts, deals and activities held by a crmkit
record service.

With CRMKIT_ADDR set the commands run against that daemon; without it they
operate directly on the local data directory (CRMKIT_DATA_DIR, default
./data).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		// The CLI keeps stdout for command output; zap noise goes to the
		// debug level unless asked for.
		log, err = logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		stores, err = sdk.New(cfg, log)
		return err
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(dealsCmd)
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(dashboardCmd)

	err := rootCmd.Execute()

	// In embedded mode snapshot saves run in the background; drain them
	// before exiting so a mutation is never silently lost.
	if cerr := stores.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
