package backup

import (
	"log"
	"time"
)

// Scheduler handles automatic backup scheduling
type Scheduler struct {
	Manager        *BackupManager
	SourceDir      string
	ticker         *time.Ticker
	done           chan bool
	stopChan       chan bool
	BackupInterval time.Duration
}

// NewScheduler creates a new backup scheduler
func NewScheduler(manager *BackupManager, sourceDir string, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		Manager:        manager,
		SourceDir:      sourceDir,
		BackupInterval: interval,
		done:           make(chan bool, 1),
		stopChan:       make(chan bool, 1),
	}
}

// Start begins the backup scheduler in a goroutine
// Returns a done channel that will be closed when scheduler stops
func (s *Scheduler) Start() chan bool {
	go func() {
		// Create ticker for backup interval
		s.ticker = time.NewTicker(s.BackupInterval)
		defer s.ticker.Stop()

		// Run initial backup immediately
		if err := s.runBackup(); err != nil {
			log.Printf("initial backup failed: %v\n", err)
		}

		// Loop until stopped
		for {
			select {
			case <-s.stopChan:
				s.done <- true
				return
			case <-s.ticker.C:
				if err := s.runBackup(); err != nil {
					log.Printf("scheduled backup failed: %v\n", err)
				}
			}
		}
	}()

	return s.done
}

// Stop stops the backup scheduler
func (s *Scheduler) Stop() {
	select {
	case s.stopChan <- true:
	default:
	}
}

// runBackup performs a single backup operation
func (s *Scheduler) runBackup() error {
	filename, err := s.Manager.CreateBackup(s.SourceDir)
	if err != nil {
		return err
	}
	log.Printf("backup written: %s\n", filename)
	return nil
}
