package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, path, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		v, err := database.Version(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", path, v)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
