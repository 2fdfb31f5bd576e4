package cli

import (
	"github.com/spf13/cobra"

	cliadapter "github.com/example/ballotblock/internal/adapters/cli"
)

func (e *env) ballotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ballot",
		Short: "Sign, cast, and inspect ballots",
	}

	castCmd := &cobra.Command{
		Use:   "cast",
		Short: "Cast a signed ballot",
		Long: `Cast a signed ballot read as JSON with ballot_id, master_ballot_title,
answers, signature and public_key. Use --file - for stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.BallotAdapter(cmd.OutOrStdout()).Cast(actorContext(cmd), data)
			return err
		},
	}
	castCmd.Flags().StringP("file", "f", "", "signed ballot file (- for stdin)")

	showCmd := &cobra.Command{
		Use:   "show [ballot-id]",
		Short: "Show a cast ballot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.BallotAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}

	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a ballot offline",
		Long: `Sign a ballot with a base64 private key and print the JSON accepted by
"ballot cast". Signing does not touch the database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			election, _ := cmd.Flags().GetString("election")
			answers, _ := cmd.Flags().GetStringSlice("answer")
			ballotID, _ := cmd.Flags().GetString("id")

			_, err := cliadapter.NewBallotAdapter(nil, cmd.OutOrStdout()).Sign(cliadapter.SignRequest{
				PrivateKey:        key,
				BallotID:          ballotID,
				MasterBallotTitle: election,
				Answers:           answers,
			})
			return err
		},
	}
	signCmd.Flags().String("key", "", "base64 private key")
	signCmd.Flags().String("election", "", "master ballot title")
	signCmd.Flags().StringSlice("answer", nil, "answer, once per question in order")
	signCmd.Flags().String("id", "", "ballot ID (generated when empty)")
	_ = signCmd.MarkFlagRequired("key")
	_ = signCmd.MarkFlagRequired("election")

	cmd.AddCommand(castCmd, showCmd, signCmd)
	return cmd
}
