package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/proposal"
)

func newProposeCmd(st *state) *cobra.Command {
	var sub proposal.Submission
	cmd := &cobra.Command{
		Use:   "propose <proposal.pdf>",
		Short: "Submit an investment proposal (PDF, up to 15 MB)",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = st.run(func(ctx context.Context, a *App, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open proposal: %w", err)
		}
		defer f.Close()
		fi, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat proposal: %w", err)
		}
		sub.FileName = fi.Name()
		sub.Size = fi.Size()
		sub.File = f
		if err := a.Proposals.Submit(ctx, sub); err != nil {
			return err
		}
		a.printf("Proposal submitted. Our One-Stop Service team will contact you at %s.\n", sub.Email)
		return nil
	})
	cmd.Flags().StringVar(&sub.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&sub.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&sub.Sector, "sector", "", "Sector, e.g. Manufacturing")
	cmd.Flags().StringVar(&sub.Phone, "phone", "", "Phone number")
	return cmd
}
