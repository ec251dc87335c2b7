// Package archive moves generated output out of the working directory so
// the next run starts clean without deleting anything.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveOutput moves the audio directory and any generated .apkg files
// from workDir into workDir/archive/run-<timestamp>/. It is an error when
// there is nothing to archive.
func ArchiveOutput(workDir, audioDir string) error {
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(workDir, "archive", fmt.Sprintf("run-%s", timestamp))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(workDir, "archive", fmt.Sprintf("run-%s", timestamp))
	}

	moved := 0

	if _, err := os.Stat(audioDir); err == nil {
		if err := os.MkdirAll(archivePath, 0755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
		dest := filepath.Join(archivePath, filepath.Base(audioDir))
		if err := os.Rename(audioDir, dest); err != nil {
			return fmt.Errorf("failed to archive audio directory: %w", err)
		}
		moved++
	}

	packages, err := filepath.Glob(filepath.Join(workDir, "*.apkg"))
	if err != nil {
		return fmt.Errorf("failed to scan for packages: %w", err)
	}
	for _, pkg := range packages {
		if err := os.MkdirAll(archivePath, 0755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
		dest := filepath.Join(archivePath, filepath.Base(pkg))
		if err := os.Rename(pkg, dest); err != nil {
			return fmt.Errorf("failed to archive %s: %w", pkg, err)
		}
		moved++
	}

	if moved == 0 {
		return fmt.Errorf("nothing to archive in %s", workDir)
	}

	fmt.Printf("Output archived to: %s\n", archivePath)
	return nil
}
