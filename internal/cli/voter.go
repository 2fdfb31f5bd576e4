package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ballotblock/internal/ports/primary"
)

func (e *env) voterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voter",
		Short: "Manage registered users",
	}

	registerCmd := &cobra.Command{
		Use:   "register [username]",
		Short: "Register a voter or creator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			accountType, _ := cmd.Flags().GetString("type")
			publicKey, _ := cmd.Flags().GetString("public-key")

			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.VoterAdapter(cmd.OutOrStdout()).Register(actorContext(cmd), primary.RegisterRequest{
				Username:    args[0],
				Password:    password,
				AccountType: accountType,
				PublicKey:   publicKey,
			})
		},
	}
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("type", "voter", "account type (voter, creator)")
	registerCmd.Flags().String("public-key", "", "base64 voter public key")

	cmd.AddCommand(registerCmd)
	return cmd
}
