package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/activerecord/cmd/arq/internal/ui"
	"github.com/satishbabariya/activerecord/pkg/record"
)

func newPagesCommand(global *globalOptions) *cobra.Command {
	var (
		qf   queryFlags
		page int
		size int
	)

	cmd := &cobra.Command{
		Use:   "pages <table> [predicate] [values...]",
		Short: "Show page count and navigation for a predicate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, predicate, values, err := qf.target(args)
			if err != nil {
				return err
			}
			if err := checkPage(page, size); err != nil {
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

			q := repo.Find(predicate, values...).Page(page, size)
			total := q.Count(ctx)
			pages := q.PageCount(ctx)
			next := q.HasNextPage(ctx)

			n, err := total.Await(ctx)
			if err != nil {
				return err
			}
			pc, err := pages.Await(ctx)
			if err != nil {
				return err
			}
			hasNext, err := next.Await(ctx)
			if err != nil {
				return err
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			p.Value("rows", n)
			p.Value("pages", pc)
			p.Value("page", q.CurrentPage().Index)
			p.Value("has previous", q.HasPreviousPage())
			p.Value("has next", hasNext)
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "Page index, zero based")
	cmd.Flags().IntVar(&size, "size", record.DefaultPageSize, "Page size")
	return cmd
}
