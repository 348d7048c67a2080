package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thatcatcamp/catbox/internal/backup"
	"github.com/thatcatcamp/catbox/internal/config"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup operations",
	Long:  "Create and manage backups of the storage root",
}

var backupNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Create a backup immediately",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		manager := backup.NewBackupManager(
			config.GetString("backups.path"),
			config.GetInt("backups.retention"),
		)

		filename, err := manager.CreateBackup(config.GetString("storage.root_dir"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating backup: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Backup created: %s\n", filename)
	},
}

func init() {
	backupCmd.AddCommand(backupNowCmd)
	rootCmd.AddCommand(backupCmd)
}
