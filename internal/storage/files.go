package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRejected = errors.New("file type not allowed")
	ErrNotFound = errors.New("file not found")
)

// allowedExtensions mirrors the upload policy: evidence documents and images only.
var allowedExtensions = map[string]struct{}{
	"txt": {}, "pdf": {}, "png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "doc": {}, "docx": {},
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Store manages uploaded attachments in a single flat directory.
// Records persist bare references (file names), never paths.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Allowed reports whether filename carries an accepted extension.
func (s *Store) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// Save writes the upload under a generated unique name and returns the
// reference to persist on the owning record.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	if strings.TrimSpace(filename) == "" || !s.Allowed(filename) {
		return "", ErrRejected
	}

	ref := time.Now().Format("20060102150405") + "_" + sanitize(filename)

	dst, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return ref, nil
}

// Path resolves a stored reference against the managed directory. References
// containing separators or traversal sequences are refused outright.
func (s *Store) Path(ref string) (string, error) {
	if ref == "" ||
		strings.Contains(ref, "..") ||
		strings.ContainsAny(ref, `/\`) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, ref), nil
}

// Open returns the stored file for reading.
func (s *Store) Open(ref string) (*os.File, error) {
	path, err := s.Path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	path, err := s.Path(ref)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitize(filename string) string {
	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	stem = unsafeChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = uuid.NewString()
	}
	return stem + strings.ToLower(ext)
}
