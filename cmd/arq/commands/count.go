package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/activerecord/cmd/arq/internal/ui"
	"github.com/satishbabariya/activerecord/pkg/record"
)

func newCountCommand(global *globalOptions) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "count <table> [predicate] [values...]",
		Short: "Count the rows matching a predicate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, predicate, values, err := qf.target(args)
			if err != nil {
				return err
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

			n, err := repo.Count(ctx, predicate, values...).Await(ctx)
			if err != nil {
				return err
			}
			ui.NewPrinter(cmd.OutOrStdout()).Value(table, n)
			return nil
		},
	}

	qf.register(cmd)
	return cmd
}
