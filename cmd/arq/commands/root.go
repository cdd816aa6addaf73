// Package commands implements the arq CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/activerecord/internal/config"
	"github.com/satishbabariya/activerecord/internal/logger"
	"github.com/satishbabariya/activerecord/pkg/record"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	provider   string
	driver     string
	url        string
	logLevel   string
}

// NewRootCommand creates the arq root command.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "arq",
		Short: "Query and page through relational tables",
		Long: `arq runs count, list and delete queries against any table.

Predicates use positional (?1) or named (:name) placeholders, or a bare
column name matched against a single value:

    arq count person "name = ?1" stef
    arq list person "status = :status" --param status=0 --sort name,-id
    arq list person name stef --page 1 --size 3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default .arq.yaml in . or $HOME)")
	flags.StringVar(&opts.provider, "provider", "", "Database provider: postgres, pgx, mysql, sqlite")
	flags.StringVar(&opts.driver, "driver", "", "SQL driver override, e.g. sqlite for the pure Go SQLite driver")
	flags.StringVar(&opts.url, "url", "", "Database URL (default $DATABASE_URL)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newCountCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newPagesCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// open loads configuration, applies the flags and opens a session.
func (o *globalOptions) open(ctx context.Context) (*record.Session, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.provider != "" {
		cfg.Database.Provider = o.provider
	}
	if o.driver != "" {
		cfg.Database.Driver = o.driver
	}
	if o.url != "" {
		cfg.Database.URL = o.url
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("no database URL, pass --url or set DATABASE_URL")
	}

	logger.Init(cfg.Log)
	return record.FromConfig(ctx, cfg, record.WithLogger(logger.Get()))
}

// commandContext tags the command's context with one op_id for every
// statement it runs.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithOpID(ctx, uuid.NewString())
}
