package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/activerecord/cmd/arq/internal/ui"
	"github.com/satishbabariya/activerecord/pkg/record"
)

func newDeleteCommand(global *globalOptions) *cobra.Command {
	var (
		qf  queryFlags
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "delete <table> [predicate] [values...]",
		Short: "Delete the rows matching a predicate",
		Long: `Delete the rows matching a predicate. Without a predicate every row of
the table is deleted. Asks for confirmation unless --yes is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, predicate, values, err := qf.target(args)
			if err != nil {
				return err
			}

			if !yes {
				ok, err := confirm(deletePrompt(table, predicate))
				if err != nil {
					return err
				}
				if !ok {
					ui.NewPrinter(cmd.OutOrStdout()).Warning("cancelled")
					return nil
				}
			}

			ctx := commandContext(cmd)
			s, err := global.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			repo, err := record.For(s, record.RowsKeyed(table, qf.idColumn))
			if err != nil {
				return err
			}

			n, err := repo.Delete(ctx, predicate, values...).Await(ctx)
			if err != nil {
				return err
			}
			ui.NewPrinter(cmd.OutOrStdout()).Success("deleted %d rows from %s", n, table)
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on the terminal.
var confirm = func(message string) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return ok, nil
}

func deletePrompt(table, predicate string) string {
	if predicate == "" {
		return fmt.Sprintf("Delete every row of %s?", table)
	}
	return fmt.Sprintf("Delete rows of %s where %s?", table, predicate)
}
