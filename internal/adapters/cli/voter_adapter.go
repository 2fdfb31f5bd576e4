package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	corevoter "github.com/example/ballotblock/internal/core/voter"
	"github.com/example/ballotblock/internal/ports/primary"
)

// VoterAdapter is a thin adapter that translates CLI operations to RegistrationService calls.
type VoterAdapter struct {
	service primary.RegistrationService
	out     io.Writer
}

// NewVoterAdapter creates a new VoterAdapter with the given service.
func NewVoterAdapter(service primary.RegistrationService, out io.Writer) *VoterAdapter {
	return &VoterAdapter{
		service: service,
		out:     out,
	}
}

// Register registers a user.
func (a *VoterAdapter) Register(ctx context.Context, req primary.RegisterRequest) error {
	if err := a.service.Register(ctx, req); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Registered %s as %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		req.Username,
		corevoter.NormalizeAccountType(req.AccountType),
	)
	return nil
}
