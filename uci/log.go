package uci

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// openLog opens path for appending, first rotating any existing file aside
// with a timestamp suffix so each run starts from an empty log, matching
// the "previous run's log is rotated aside at startup" requirement.
func openLog(path string) (*log.Logger, *os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, err
		}
	}
	if _, err := os.Stat(path); err == nil {
		rotated := path + "." + time.Now().Format("20060102T150405")
		if err := os.Rename(path, rotated); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "", log.LstdFlags), f, nil
}
