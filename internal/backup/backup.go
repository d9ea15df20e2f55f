// Package backup provides tar.gz-based backup and restore for the PhoneDex
// database and its configuration file.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HerbHall/phonedex/internal/store"
	"github.com/HerbHall/phonedex/internal/version"
)

// ManifestName is the archive entry describing the backup.
const ManifestName = "manifest.json"

// ErrExists is returned by Restore when a target file exists and force is off.
var ErrExists = errors.New("target file already exists")

// Manifest records what a backup archive holds.
type Manifest struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Database  string    `json:"database"`
	Config    string    `json:"config,omitempty"`
}

// Backup creates a tar.gz archive containing the SQLite database and an
// optional config file. The WAL is checkpointed first so the database file
// alone is consistent.
func Backup(ctx context.Context, dbPath, configPath, outputPath string) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database file not found: %w", err)
	}

	if err := checkpoint(ctx, dbPath); err != nil {
		return fmt.Errorf("WAL checkpoint failed: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	gw := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gw)

	m := Manifest{
		Version:   version.Short(),
		CreatedAt: time.Now().UTC(),
		Database:  filepath.Base(dbPath),
	}

	if err := addFileToTar(tw, dbPath, m.Database); err != nil {
		return fmt.Errorf("adding database to archive: %w", err)
	}

	// A missing config file is skipped.
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			m.Config = filepath.Base(configPath)
			if err := addFileToTar(tw, configPath, m.Config); err != nil {
				return fmt.Errorf("adding config to archive: %w", err)
			}
		}
	}

	if err := addManifest(tw, m); err != nil {
		return fmt.Errorf("adding manifest to archive: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return outFile.Close()
}

// Restore extracts an archive written by Backup into dataDir and returns
// its manifest. Existing files are only replaced when force is set.
func Restore(ctx context.Context, inputPath, dataDir string, force bool) (Manifest, error) {
	var m Manifest

	f, err := os.Open(inputPath)
	if err != nil {
		return m, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return m, fmt.Errorf("reading archive: %w", err)
	}
	defer gr.Close()

	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return m, fmt.Errorf("creating data dir: %w", err)
	}

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return m, fmt.Errorf("reading archive: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return m, err
		}

		name := hdr.Name
		if hdr.Typeflag != tar.TypeReg || name != filepath.Base(name) || name == "." || name == ".." {
			return m, fmt.Errorf("unexpected archive entry %q", hdr.Name)
		}

		if name == ManifestName {
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return m, fmt.Errorf("decoding manifest: %w", err)
			}
			continue
		}

		if err := extractFile(tr, filepath.Join(dataDir, name), hdr.FileInfo().Mode().Perm(), force); err != nil {
			return m, err
		}
	}

	if m.Database == "" {
		return m, errors.New("archive has no manifest")
	}
	if m.Database != filepath.Base(m.Database) || m.Database == "." || m.Database == ".." {
		return m, fmt.Errorf("unexpected manifest database %q", m.Database)
	}

	// A WAL left over from the replaced database must not be replayed
	// onto the restored one.
	dbPath := filepath.Join(dataDir, m.Database)
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return m, fmt.Errorf("removing stale %s: %w", suffix, err)
		}
	}
	return m, nil
}

// checkpoint runs a TRUNCATE checkpoint to flush the WAL into the main
// database file.
func checkpoint(ctx context.Context, dbPath string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Checkpoint(ctx)
}

// addFileToTar adds a single file to the tar archive under the given name.
func addFileToTar(tw *tar.Writer, filePath, archiveName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = archiveName

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}

func addManifest(tw *tar.Writer, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Name:    ManifestName,
		Mode:    0o600,
		Size:    int64(len(data)),
		ModTime: m.CreatedAt,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = tw.Write(data)
	return err
}

func extractFile(r io.Reader, path string, perm os.FileMode, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	if perm == 0 {
		perm = 0o600
	}
	out, err := os.OpenFile(path, flags, perm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, path)
		}
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}
