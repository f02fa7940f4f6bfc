package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "worm-server.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes the standard logger to logs/worm-server.log when debug is set, stderr otherwise
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(os.Stderr)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("logging: %v, staying on stderr", err)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("worm-server-%s.log", time.Now().Format("20060102-150405")))
		os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("logging: %v, staying on stderr", err)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}
