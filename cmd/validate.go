package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Ramsey-B/mint/pkg/bundle"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check the structure of an export bundle without touching any workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read bundle: %w", err)
			}

			result := bundle.Validate(raw)

			out := json.NewEncoder(cmd.OutOrStdout())
			out.SetIndent("", "  ")
			if err := out.Encode(result); err != nil {
				return err
			}

			if !result.Valid {
				return fmt.Errorf("%s is not a valid bundle (%d problems)", args[0], len(result.Errors))
			}
			return nil
		},
	}
}
