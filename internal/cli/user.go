package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/choreboard/internal/auth"
	"github.com/dukerupert/choreboard/internal/store"
)

var (
	userName  string
	userPIN   string
	userColor string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage household members",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a household member",
	Example: `  choreboard user add --name Alice --pin 1234
  choreboard user add --name Bob --pin 5678 --color "#10B981"`,
	Args: cobra.NoArgs,
	RunE: runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List household members",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&userPIN, "pin", "", "login PIN, 4 to 72 digits")
	userAddCmd.Flags().StringVar(&userColor, "color", "", "avatar color as #RRGGBB")
	userAddCmd.MarkFlagRequired("name")
	userAddCmd.MarkFlagRequired("pin")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	RootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(userName)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	hash, err := auth.HashPIN(userPIN)
	if err != nil {
		return err
	}

	db, _, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	u, err := store.NewUserStore(db).Create(name, hash, strings.TrimSpace(userColor))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %d)\n", u.Name, u.ID)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	db, _, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := store.NewUserStore(db).List()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No users yet. Add one with: choreboard user add --name NAME --pin PIN")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.AvatarColor, u.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}
