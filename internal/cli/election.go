package cli

import (
	"github.com/spf13/cobra"
)

func (e *env) electionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "election",
		Short: "Manage elections",
		Long:  "Create, show, and list elections and their master ballots",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an election from a JSON payload",
		Long: `Create an election from a JSON payload with title, description,
start_date, end_date, creator_id and questions. Use --file - for stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			payload, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.ElectionAdapter(cmd.OutOrStdout()).Create(actorContext(cmd), payload)
			return err
		},
	}
	createCmd.Flags().StringP("file", "f", "", "election payload file (- for stdin)")

	showCmd := &cobra.Command{
		Use:   "show [title]",
		Short: "Show an election and its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.ElectionAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List elections",
		Long:  "List all elections, or with --voter only those the voter key has cast a ballot in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			voterKey, _ := cmd.Flags().GetString("voter")

			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.ElectionAdapter(cmd.OutOrStdout()).List(cmd.Context(), voterKey)
			return err
		},
	}
	listCmd.Flags().String("voter", "", "base64 voter public key")

	cmd.AddCommand(createCmd, showCmd, listCmd)
	return cmd
}
