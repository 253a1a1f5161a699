package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var ErrTooLarge = errors.New("upload exceeds size limit")

const maxNameAttempts = 16

// Stored describes a file accepted by Storage.
type Stored struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// Storage writes uploaded files into a single public directory under
// "<unix ms>-<base name>".
type Storage struct {
	dir      string
	prefix   string
	maxBytes int64
	now      func() time.Time
	logger   *slog.Logger
}

func NewStorage(dir, publicPrefix string, maxBytes int64, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{
		dir:      dir,
		prefix:   "/" + strings.Trim(publicPrefix, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *Storage) Dir() string {
	return s.dir
}

// PublicPrefix is the URL path stored files are served under, e.g. "/uploads".
func (s *Storage) PublicPrefix() string {
	return s.prefix
}

func (s *Storage) MaxBytes() int64 {
	return s.maxBytes
}

// Save copies src into the upload directory under a time-prefixed name. The
// directory is created on demand. A partial file is removed on failure.
func (s *Storage) Save(originalName string, src io.Reader) (*Stored, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	base := SanitizeName(originalName)
	stamp := s.now().UnixMilli()

	var (
		name   string
		target string
		dst    *os.File
		err    error
	)
	// same name in the same millisecond: move to the next free stamp
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name = strconv.FormatInt(stamp+int64(attempt), 10) + "-" + base
		target = filepath.Join(s.dir, name)
		dst, err = os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	reader := src
	if s.maxBytes > 0 {
		reader = io.LimitReader(src, s.maxBytes+1)
	}
	written, err := io.Copy(dst, reader)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(target)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	s.logger.Info("file uploaded", "file_name", name, "bytes", written)
	return &Stored{URL: path.Join(s.prefix, name), FileName: name}, nil
}

// SanitizeName reduces a client supplied file name to its base name so it
// cannot escape the upload directory.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}
