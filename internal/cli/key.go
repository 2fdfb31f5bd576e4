package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/example/ballotblock/internal/adapters/cli"
)

func (e *env) keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage voter keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a secp256k1 key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cliadapter.NewKeyAdapter(cmd.OutOrStdout()).Generate()
			return err
		},
	})
	return cmd
}
