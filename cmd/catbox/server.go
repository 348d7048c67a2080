package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thatcatcamp/catbox/internal/backup"
	"github.com/thatcatcamp/catbox/internal/config"
	"github.com/thatcatcamp/catbox/internal/db"
	"github.com/thatcatcamp/catbox/internal/handlers"
	"github.com/thatcatcamp/catbox/internal/search"
	"github.com/thatcatcamp/catbox/internal/vault"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server operations",
	Long:  "Start and manage the CatBox HTTP server",
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initSystemDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := search.InitFTSIndex(db.GetDB()); err != nil {
			// Search degrades to empty results without the index
			log.Printf("search index unavailable: %v", err)
		}

		v, err := vault.New(config.GetString("storage.root_dir"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Optional scheduled backups of the storage root
		var scheduler *backup.Scheduler
		var schedulerDone chan bool
		if config.GetBool("backups.enabled") {
			manager := backup.NewBackupManager(
				config.GetString("backups.path"),
				config.GetInt("backups.retention"),
			)
			scheduler = backup.NewScheduler(manager, v.Root(), config.GetDuration("backups.interval"))
			schedulerDone = scheduler.Start()
			log.Println("Backup scheduler started")
		}

		r := handlers.NewRouter(v)

		addr := fmt.Sprintf(":%s", config.GetString("server.http_port"))
		srv := &http.Server{
			Addr:    addr,
			Handler: r,
		}

		go func() {
			fmt.Printf("CatBox listening on %s\n", addr)
			fmt.Printf("Storage root: %s\n", v.Root())
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
				os.Exit(1)
			}
		}()

		// Block until asked to stop, then drain connections
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}

		if scheduler != nil {
			scheduler.Stop()
			<-schedulerDone
		}
	},
}

func init() {
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)
}
