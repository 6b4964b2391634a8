package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zstar1003/Tosticker/internal/api"
	"github.com/zstar1003/Tosticker/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all todos and inspirations as JSON",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a JSON backup; records that already exist are skipped",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var dbPathCmd = &cobra.Command{
	Use:   "db-path",
	Short: "Print the location of the database file",
	RunE:  runDBPath,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout; \"auto\" names it tosticker-backup-<date>.json")
}

func runExport(cmd *cobra.Command, args []string) error {
	var backup models.Backup
	if err := callInto("export_data", nil, &backup); err != nil {
		return err
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}

	path := exportOutput
	if path == "auto" {
		path = fmt.Sprintf("tosticker-backup-%s.json", time.Now().Format("2006-01-02"))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	fmt.Printf("Exported %d todos and %d inspirations to %s\n", len(backup.Todos), len(backup.Inspirations), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	var backup models.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}

	var result models.ImportResult
	if err := callInto("import_data", backup, &result); err != nil {
		return err
	}

	fmt.Printf("Imported %d todos and %d inspirations\n", result.Todos, result.Inspirations)
	return nil
}

func runDBPath(cmd *cobra.Command, args []string) error {
	var resp api.PathResponse
	if err := callInto("get_database_path", nil, &resp); err != nil {
		return err
	}
	fmt.Println(resp.Path)
	return nil
}
