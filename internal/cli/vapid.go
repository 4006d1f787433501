package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/push"
)

var vapidCmd = &cobra.Command{
	Use:   "vapid-keys",
	Short: "Generate a VAPID key pair for push reminders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, priv, err := push.GenerateKeys()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "CHOREBOARD_VAPID_PUBLIC_KEY=%s\nCHOREBOARD_VAPID_PRIVATE_KEY=%s\n", pub, priv)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(vapidCmd)
}
