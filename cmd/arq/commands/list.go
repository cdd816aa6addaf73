package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/activerecord/cmd/arq/internal/ui"
	"github.com/satishbabariya/activerecord/pkg/record"
)

type listOptions struct {
	queryFlags
	sort   string
	page   int
	size   int
	stream bool
}

func newListCommand(global *globalOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <table> [predicate] [values...]",
		Short: "List the rows matching a predicate",
		Long: `List the rows matching a predicate.

Without --size every matching row is listed. With --size only page --page
(zero based) is listed, followed by the page count.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, global, opts, args)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort columns, e.g. name,-status")
	cmd.Flags().IntVar(&opts.page, "page", 0, "Page index, zero based")
	cmd.Flags().IntVar(&opts.size, "size", 0, "Page size; 0 lists every row")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "Read rows one at a time instead of buffering")

	return cmd
}

func runList(cmd *cobra.Command, global *globalOptions, opts *listOptions, args []string) error {
	table, predicate, values, err := opts.target(args)
	if err != nil {
		return err
	}
	if opts.size != 0 {
		if err := checkPage(opts.page, opts.size); err != nil {
			return err
		}
	}

	ctx := commandContext(cmd)
	s, err := global.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	repo, err := record.For(s, record.RowsKeyed(table, opts.idColumn))
	if err != nil {
		return err
	}

	q := repo.FindSorted(predicate, parseSort(opts.sort), values...)
	if opts.size > 0 {
		q = q.Page(opts.page, opts.size)
	}

	start := time.Now()
	var rows []record.RowMap
	if opts.stream {
		rows, err = q.Stream(ctx).Collect()
	} else {
		rows, err = q.List(ctx).Await(ctx)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	p := ui.NewPrinter(cmd.OutOrStdout())
	if len(rows) == 0 {
		p.Warning("no rows in %s", table)
	} else {
		plain := make([]map[string]interface{}, len(rows))
		for i, r := range rows {
			plain[i] = r
		}
		if err := p.Table(opts.idColumn, plain); err != nil {
			return err
		}
	}

	if opts.size == 0 {
		p.Footer("%d rows in %s", len(rows), elapsed.Round(time.Microsecond))
		return nil
	}

	pages, err := q.PageCount(ctx).Await(ctx)
	if err != nil {
		return err
	}
	p.Footer("page %d of %d, %d rows in %s", opts.page+1, pages, len(rows), elapsed.Round(time.Microsecond))
	return nil
}
