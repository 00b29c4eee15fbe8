package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filebackup/backup"
	"filebackup/config"
	"filebackup/logger"
	"filebackup/output"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		fmt.Fprintln(os.Stderr, "*** END FILE BACKUP ***")
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	logger.Info("*** START FILE BACKUP ***")
	logger.Infof("--- Application Path: %s", cfg.AppDir)
	logger.Infof("--- Source: %s  Destination: %s  Format: %s  Metadata: %t",
		cfg.SourceNode, cfg.DestinationNode, cfg.Mode, cfg.UseMetadata)

	startTime := time.Now()
	metrics := output.Metrics{
		StartTime: startTime.Format(time.RFC3339),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	err = backup.Run(ctx, cfg, &metrics)
	metrics.EndTime = time.Now().Format(time.RFC3339)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warnf("Backup interrupted: %s", metrics.Summary())
	case err != nil:
		logger.Fatalf("Backup failed: %v", err)
	default:
		logger.Infof("Backup completed in %s: %s", time.Since(startTime).Round(time.Millisecond), metrics.Summary())
	}
	logger.Info("*** END FILE BACKUP ***")
}

func handleSignals(cancelFunc context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	handleSignalEvent(cancelFunc, sigChan)
}

func handleSignalEvent(cancelFunc context.CancelFunc, sigChan <-chan os.Signal) {
	<-sigChan
	logger.Info("Interrupt signal received. Finishing current file...")
	cancelFunc()
}
