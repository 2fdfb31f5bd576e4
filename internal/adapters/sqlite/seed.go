package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/ballotblock/internal/core/outcome"
	"github.com/example/ballotblock/internal/ports/secondary"
)

type fixture struct {
	title, description, creator, questions string
}

var fixtures = []fixture{
	{
		title:       "Example Election",
		description: "This is an example election",
		creator:     "seed-creator",
		questions:   `[["Do you like Fishsticks?",["Yes","No"]],["Red or Blue Pill?",["Red","Blue"]]]`,
	},
	{
		title:       "Lunch Referendum",
		description: "Where should the team eat on Friday?",
		creator:     "seed-creator",
		questions:   `[["Cuisine",["Thai","Pizza","Tacos"]]]`,
	},
}

// SeedFixtures stores the development elections, open for ten days from
// now. Titles that already exist are skipped, so seeding twice is harmless.
// It returns the number of elections added.
func SeedFixtures(ctx context.Context, repo *ElectionRepository, now time.Time) (int, error) {
	start := now.Unix()
	end := now.AddDate(0, 0, 10).Unix()

	added := 0
	for _, f := range fixtures {
		err := repo.CreateWithMasterBallot(ctx,
			&secondary.MasterBallotRecord{Title: f.title, Questions: f.questions},
			&secondary.ElectionRecord{
				Title:             f.title,
				Description:       f.description,
				StartDate:         start,
				EndDate:           end,
				CreatorID:         f.creator,
				MasterBallotTitle: f.title,
			},
		)
		if errors.Is(err, outcome.ErrDuplicateTitle) {
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed %q: %w", f.title, err)
		}
		added++
	}
	return added, nil
}
