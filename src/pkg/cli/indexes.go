package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"meilikit/src/pkg/consoleutil"
	"meilikit/src/pkg/meili"
)

func (a *app) newIndexesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "indexes",
		Aliases: []string{"index", "idx"},
		Short:   "Manage indexes",
	}

	cmd.AddCommand(
		a.newIndexesListCommand(),
		a.newIndexesCreateCommand(),
		a.newIndexesShowCommand(),
		a.newIndexesUpdateCommand(),
		a.newIndexesDeleteCommand(),
		a.newIndexesStatsCommand(),
	)

	return cmd
}

func (a *app) newIndexesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			indexes, err := a.client().ListIndexes(cmd.Context())
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), indexes, func() string {
				if len(indexes) == 0 {
					return consoleutil.FormatInfo("No indexes found.") + "\n"
				}
				rows := make([][]string, 0, len(indexes))
				for _, idx := range indexes {
					rows = append(rows, indexRow(idx))
				}
				return consoleutil.FormatTable(indexHeaders, rows, consoleutil.IsColorSupported())
			})
		},
	}
}

func (a *app) newIndexesCreateCommand() *cobra.Command {
	var primaryKey string
	var ifNotExists bool

	cmd := &cobra.Command{
		Use:   "create <uid>",
		Short: "Create an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := meili.CreateIndexRequest{UID: args[0], PrimaryKey: primaryKey}

			var (
				index *meili.IndexResponse
				err   error
			)
			if ifNotExists {
				index, err = a.client().GetOrCreateIndex(cmd.Context(), req)
			} else {
				index, err = a.client().CreateIndex(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), index, func() string {
				return consoleutil.FormatSuccess(fmt.Sprintf("Index %s ready", index.UID)) + "\n" + indexDetails(*index)
			})
		},
	}

	cmd.Flags().StringVar(&primaryKey, "primary-key", "", "Primary key of the documents")
	cmd.Flags().BoolVar(&ifNotExists, "if-not-exists", false, "Return the existing index instead of failing")

	return cmd
}

func (a *app) newIndexesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <uid>",
		Short: "Show an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := a.client().GetIndex(args[0]).Show(cmd.Context())
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), index, func() string {
				return indexDetails(*index)
			})
		},
	}
}

func (a *app) newIndexesUpdateCommand() *cobra.Command {
	var primaryKey string
	var name string

	cmd := &cobra.Command{
		Use:   "update <uid>",
		Short: "Set the primary key of an index",
		Long:  "Set the primary key of an index. A primary key can only be set once.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if primaryKey == "" && name == "" {
				return errors.New("nothing to update: pass --primary-key or --name")
			}

			index, err := a.client().GetIndex(args[0]).UpdateIndex(cmd.Context(), meili.UpdateIndexRequest{
				Name:       name,
				PrimaryKey: primaryKey,
			})
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), index, func() string {
				return consoleutil.FormatSuccess(fmt.Sprintf("Index %s updated", index.UID)) + "\n" + indexDetails(*index)
			})
		},
	}

	cmd.Flags().StringVar(&primaryKey, "primary-key", "", "Primary key to set")
	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func (a *app) newIndexesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uid>",
		Short: "Delete an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid := args[0]
			if _, err := a.client().GetIndex(uid).DeleteIndex(cmd.Context()); err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), map[string]string{"uid": uid, "status": "deleted"}, func() string {
				return consoleutil.FormatSuccess(fmt.Sprintf("Index %s deleted", uid)) + "\n"
			})
		},
	}
}

func (a *app) newIndexesStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <uid>",
		Short: "Show statistics of an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client().GetIndex(args[0]).Stats(cmd.Context())
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), stats, func() string {
				return indexStatsTable(args[0], *stats).Render()
			})
		},
	}
}

var indexHeaders = []string{"UID", "PRIMARY KEY", "CREATED", "UPDATED"}

func indexRow(idx meili.IndexResponse) []string {
	pk := "-"
	if idx.HasPrimaryKey() {
		pk = idx.PrimaryKeyOrEmpty()
	}
	return []string{idx.UID, pk, formatTime(idx.CreatedAt), formatTime(idx.UpdatedAt)}
}

func indexDetails(idx meili.IndexResponse) string {
	table := consoleutil.NewStatusTable("Index " + idx.UID)
	table.AddRow("UID", idx.UID, consoleutil.StatusUnknown)
	if idx.Name != "" {
		table.AddRow("Name", idx.Name, consoleutil.StatusUnknown)
	}
	if idx.HasPrimaryKey() {
		table.AddRow("Primary key", idx.PrimaryKeyOrEmpty(), consoleutil.StatusUnknown)
	} else {
		table.AddRow("Primary key", "not set", consoleutil.StatusPending)
	}
	table.AddRow("Created", formatTime(idx.CreatedAt), consoleutil.StatusUnknown)
	table.AddRow("Updated", formatTime(idx.UpdatedAt), consoleutil.StatusUnknown)
	return table.Render()
}

func indexStatsTable(uid string, stats meili.IndexStats) *consoleutil.StatusTable {
	table := consoleutil.NewStatusTable("Index " + uid)
	table.AddRow("Documents", fmt.Sprintf("%d", stats.NumberOfDocuments), consoleutil.StatusUnknown)
	if stats.IsIndexing {
		table.AddRow("Indexing", "yes", consoleutil.StatusPending)
	} else {
		table.AddRow("Indexing", "no", consoleutil.StatusUnknown)
	}
	table.AddRow("Fields", fmt.Sprintf("%d", len(stats.FieldsFrequency)), consoleutil.StatusUnknown)
	return table
}
