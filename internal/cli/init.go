package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/ballotblock/internal/adapters/sqlite"
	"github.com/example/ballotblock/internal/config"
	"github.com/example/ballotblock/internal/db"
)

func (e *env) initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the BallotBlock database and config",
		Long: `Create the database with the required schema and write ballotblock.yaml
to the config directory. With --seed, development elections are added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")
			out := cmd.OutOrStdout()

			cfg, _, err := e.load(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Initializing BallotBlock database at %s\n", cfg.Database.Path)
			database, err := db.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer database.Close()

			check := color.New(color.FgGreen).Sprint("✓")
			fmt.Fprintf(out, "%s Database initialized\n", check)

			if seed {
				repo := sqlite.NewElectionRepository(database)
				added, err := sqlite.SeedFixtures(actorContext(cmd), repo, time.Now())
				if err != nil {
					return fmt.Errorf("failed to seed database: %w", err)
				}
				fmt.Fprintf(out, "%s Development elections added: %d\n", check, added)
			}

			dir := e.configDir
			if dir == "" {
				if dir, err = config.DefaultDir(); err != nil {
					return err
				}
			}
			path, err := config.Save(e.v, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Config written to %s\n", check, path)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  ballotblock key generate")
			fmt.Fprintln(out, "  ballotblock election list")
			return nil
		},
	}

	cmd.Flags().Bool("seed", false, "add development elections")
	return cmd
}
