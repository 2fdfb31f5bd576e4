// Package cli contains thin adapters that translate CLI operations to
// service calls and render the results.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/ballotblock/internal/ports/primary"
)

// ElectionAdapter is a thin adapter that translates CLI operations to ElectionService calls.
type ElectionAdapter struct {
	service primary.ElectionService
	out     io.Writer
}

// NewElectionAdapter creates a new ElectionAdapter with the given service.
func NewElectionAdapter(service primary.ElectionService, out io.Writer) *ElectionAdapter {
	return &ElectionAdapter{
		service: service,
		out:     out,
	}
}

// Create creates an election from a JSON payload.
func (a *ElectionAdapter) Create(ctx context.Context, payload []byte) (*primary.CreateElectionResponse, error) {
	resp, err := a.service.CreateElection(ctx, primary.CreateElectionRequest{Payload: payload})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Created election %q\n", color.New(color.FgGreen).Sprint("✓"), resp.Election.Title)
	fmt.Fprintf(a.out, "  Voting: %s\n", window(resp.Election.StartDate, resp.Election.EndDate))
	fmt.Fprintf(a.out, "  Questions: %d\n", len(resp.MasterBallot.Questions))
	return resp, nil
}

// Show displays an election and its master ballot.
func (a *ElectionAdapter) Show(ctx context.Context, title string) (*primary.Election, error) {
	election, err := a.service.GetElection(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	if election == nil {
		return nil, fmt.Errorf("election %q not found", title)
	}

	master, err := a.service.GetMasterBallot(ctx, election.MasterBallotTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to get master ballot: %w", err)
	}

	fmt.Fprintf(a.out, "\nElection: %s\n", election.Title)
	fmt.Fprintf(a.out, "Description: %s\n", election.Description)
	fmt.Fprintf(a.out, "Creator:     %s\n", election.CreatorID)
	fmt.Fprintf(a.out, "Voting:      %s\n", window(election.StartDate, election.EndDate))
	fmt.Fprintf(a.out, "Created:     %s\n", election.CreatedAt)

	if master != nil {
		fmt.Fprintln(a.out, "\nQuestions:")
		for i, q := range master.Questions {
			fmt.Fprintf(a.out, "  %d. %s [%s]\n", i+1, q.Prompt, strings.Join(q.Choices, " / "))
		}
	}
	fmt.Fprintln(a.out)

	return election, nil
}

// List lists elections. When voterKey is non-empty only the elections in
// which that voter holds a ballot are listed.
func (a *ElectionAdapter) List(ctx context.Context, voterKey string) ([]*primary.Election, error) {
	var (
		elections []*primary.Election
		err       error
	)
	if voterKey != "" {
		elections, err = a.service.ListElectionsForVoter(ctx, voterKey)
	} else {
		elections, err = a.service.ListElections(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}

	if len(elections) == 0 {
		fmt.Fprintln(a.out, "No elections found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first election:")
		fmt.Fprintln(a.out, "  ballotblock election create --file election.json")
		return elections, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TITLE\tCREATOR\tSTART\tEND")
	fmt.Fprintln(w, "-----\t-------\t-----\t---")

	for _, e := range elections {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Title,
			e.CreatorID,
			formatEpoch(e.StartDate),
			formatEpoch(e.EndDate),
		)
	}

	w.Flush()
	return elections, nil
}

func window(start, end int64) string {
	return formatEpoch(start) + " → " + formatEpoch(end)
}

func formatEpoch(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
