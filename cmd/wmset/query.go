package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jchantrell/wmset/internal/database"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Query the SQLite database directly from command line",
	Long: `Query allows you to execute SQL queries against the extracted data,
list available tables, or show table schemas.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		listTables, err := cmd.Flags().GetBool("tables")
		if err != nil {
			return fmt.Errorf("failed to get tables flag: %w", err)
		}
		schemaTable, err := cmd.Flags().GetString("schema")
		if err != nil {
			return fmt.Errorf("failed to get schema flag: %w", err)
		}

		if cfg.Database == "" {
			return fmt.Errorf("no database configured, pass --database or set database in wmset.yaml")
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"list-tables", listTables,
			"schema", schemaTable)

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		slog.Debug("Opened database", "path", db.Path())

		switch {
		case listTables:
			return printTables(ctx, db)
		case schemaTable != "":
			return printSchema(ctx, db, schemaTable)
		case len(args) > 0:
			return printQuery(ctx, db, args[0])
		}

		return fmt.Errorf("no query provided, use --tables to list tables or --schema <table> to show schema")
	},
}

func printTables(ctx context.Context, db *database.Database) error {
	tables, err := db.ListTables(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Available tables:")
	for _, name := range tables {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func printSchema(ctx context.Context, db *database.Database, table string) error {
	columns, err := db.TableInfo(ctx, table)
	if err != nil {
		return err
	}

	yesNo := map[bool]string{false: "NO", true: "YES"}

	fmt.Printf("Schema for table '%s':\n", table)
	fmt.Printf("%-20s %-15s %-10s %-10s %-10s\n", "Column", "Type", "NotNull", "Default", "Primary")
	fmt.Println(strings.Repeat("-", 69))

	for _, col := range columns {
		defaultStr := "NULL"
		if col.Default != nil {
			defaultStr = fmt.Sprintf("%v", col.Default)
		}
		fmt.Printf("%-20s %-15s %-10s %-10s %-10s\n",
			col.Name, col.Type, yesNo[col.NotNull], defaultStr, yesNo[col.PrimaryKey])
	}
	return nil
}

func printQuery(ctx context.Context, db *database.Database, query string) error {
	slog.Debug("Executing SQL query", "query", query)

	rows, err := db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting column names: %w", err)
	}

	fmt.Println(strings.Join(columns, "\t"))

	separators := make([]string, len(columns))
	for i, col := range columns {
		separators[i] = strings.Repeat("-", len(col))
	}
	fmt.Println(strings.Join(separators, "\t"))

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		for i, val := range values {
			if i > 0 {
				fmt.Print("\t")
			}
			switch v := val.(type) {
			case nil:
				fmt.Print("NULL")
			case []byte:
				fmt.Print(string(v))
			default:
				fmt.Print(v)
			}
		}
		fmt.Println()
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("tables", false, "List available tables")
	queryCmd.Flags().String("schema", "", "Show schema for specified table")
}
