package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

// Manifest identifies the embedded schema: its newest version and a digest of every up migration.
type Manifest struct {
	Version  uint
	Checksum string
}

func EmbeddedManifest() (Manifest, error) {
	names, err := upMigrationNames()
	if err != nil {
		return Manifest{}, err
	}

	hasher := sha256.New()
	var latest uint
	for _, name := range names {
		version, ok := parseMigrationVersion(name)
		if !ok {
			return Manifest{}, fmt.Errorf("invalid migration filename: %s", name)
		}
		latest = max(latest, version)

		content, err := embeddedMigrations.ReadFile(migrationsDir + "/" + name)
		if err != nil {
			return Manifest{}, fmt.Errorf("read migration %s: %w", name, err)
		}
		_, _ = hasher.Write([]byte(name))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.Write(content)
		_, _ = hasher.Write([]byte{0})
	}

	if latest == 0 {
		return Manifest{}, errors.New("no embedded migrations found")
	}
	return Manifest{Version: latest, Checksum: hex.EncodeToString(hasher.Sum(nil))}, nil
}

func upMigrationNames() ([]string, error) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name())
		if !entry.IsDir() && strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func parseMigrationVersion(name string) (uint, bool) {
	value, _, ok := strings.Cut(name, "_")
	if !ok || strings.TrimSpace(value) == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}
