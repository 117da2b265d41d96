package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arnavshah/vendor-match-api/pkg/auth"
	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen <name>",
	Short: "Generate an API key signed with API_MASTER_SECRET",
	Long: `Generate an API key for a client without touching the database.
The key is registered the first time it is used.

Examples:
  vendorctl keygen acme-planners`,
	Args: cobra.ExactArgs(1),
	RunE: runKeygen,
}

func runKeygen(cmd *cobra.Command, args []string) error {
	name := args[0]
	if strings.Contains(name, ".") {
		return errors.New("key name must not contain '.'")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Auth.APIMasterSecret == "" {
		return errors.New("API_MASTER_SECRET is not set")
	}

	key := auth.SignKey([]byte(cfg.Auth.APIMasterSecret), name)
	fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", name, key)
	return nil
}
