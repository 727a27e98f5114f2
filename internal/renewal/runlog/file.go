package runlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
)

const maxLineBytes = 4 << 20

// File keeps one JSON run record per line.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Append(_ context.Context, run domain.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	payload = append(payload, '\n')

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fh.Write(payload); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func (f *File) Recent(_ context.Context, limit int) (domain.History, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.History{Runs: []domain.Run{}}, nil
	}
	if err != nil {
		return domain.History{}, err
	}
	defer fh.Close()

	var (
		runs      []domain.Run
		malformed int
	)
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		run, ok := decode(line)
		if !ok {
			malformed++
			continue
		}
		runs = append(runs, run)
	}
	if err := scanner.Err(); err != nil {
		return domain.History{}, err
	}

	return domain.History{Runs: newestFirst(runs, limit), Malformed: malformed}, nil
}
