package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zjrosen/tincture/internal/log"
)

// ReadDocument returns the raw document at path. A missing file is not an
// error and yields nil.
func ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: settings path is user-configured
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return data, nil
}

// Load reads and decodes the settings at path. Any failure degrades to an
// empty tree so every language falls back to its defaults.
func Load(path string) Settings {
	data, err := ReadDocument(path)
	if err != nil {
		log.ErrorErr(log.CatSettings, "Failed to read settings, using defaults", err, "path", path)
		return Settings{}
	}
	if data == nil {
		log.Debug(log.CatSettings, "No settings file, using defaults", "path", path)
		return Settings{}
	}
	s := Decode(data)
	log.Debug(log.CatSettings, "Loaded settings", "path", path, "languages", len(s.Languages))
	return s
}

// Save encodes s and writes it to path atomically, creating the parent
// directory first.
func Save(path string, s Settings) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := WriteDocument(path, data); err != nil {
		return err
	}
	log.Info(log.CatSettings, "Saved settings", "path", path, "languages", len(s.Languages))
	return nil
}

// WriteDocument writes data to path via a temp file and rename.
func WriteDocument(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".tincture.json.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
