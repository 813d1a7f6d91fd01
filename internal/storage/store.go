package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"media-share/internal/config"
	"media-share/internal/models"

	"github.com/google/uuid"
)

// ErrInvalidType is returned for files whose extension is not allowed.
var ErrInvalidType = errors.New("invalid file type")

var (
	uploadExts = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "gif": true,
		"mp4": true, "mov": true, "avi": true,
	}
	avatarExts = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "gif": true,
	}
	videoExts = map[string]bool{
		"mp4": true, "mov": true, "avi": true,
	}

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// Store writes uploads and avatars under two directories, addressed by
// generated filenames. File writes are not transactional with the DB row;
// a crash in between can orphan a file.
type Store struct {
	UploadDir string
	AvatarDir string
}

func New(cfg config.StorageConfig) *Store {
	return &Store{
		UploadDir: cfg.UploadDir,
		AvatarDir: cfg.AvatarDir,
	}
}

// EnsureDirs creates both storage directories.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.UploadDir, s.AvatarDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return nil
}

// Ext returns the lowercased extension without the dot, "" if none.
func Ext(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}

// AllowedUpload reports whether the filename has an allowed media extension.
func AllowedUpload(name string) bool {
	return uploadExts[Ext(name)]
}

// AllowedAvatar reports whether the filename has an allowed image extension.
func AllowedAvatar(name string) bool {
	return avatarExts[Ext(name)]
}

// KindOf classifies a filename as image or video by extension.
func KindOf(name string) string {
	if videoExts[Ext(name)] {
		return models.KindVideo
	}
	return models.KindImage
}

// SaveUpload validates and stores a gallery file, returning the generated
// filename and its kind.
func (s *Store) SaveUpload(fh *multipart.FileHeader) (filename, kind string, err error) {
	if !AllowedUpload(fh.Filename) {
		return "", "", ErrInvalidType
	}
	filename = generatedName(fh.Filename)
	if err := s.save(fh, filepath.Join(s.UploadDir, filename)); err != nil {
		return "", "", err
	}
	return filename, KindOf(filename), nil
}

// SaveAvatar validates and stores a profile picture.
func (s *Store) SaveAvatar(fh *multipart.FileHeader) (string, error) {
	if !AllowedAvatar(fh.Filename) {
		return "", ErrInvalidType
	}
	filename := generatedName(fh.Filename)
	if err := s.save(fh, filepath.Join(s.AvatarDir, filename)); err != nil {
		return "", err
	}
	return filename, nil
}

// RemoveUpload deletes the backing file of an upload. A missing file is not
// an error; the row may outlive the file after a crash.
func (s *Store) RemoveUpload(filename string) error {
	err := os.Remove(filepath.Join(s.UploadDir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

func (s *Store) save(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open multipart file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// generatedName prefixes a uuid so stored names never collide and strips
// anything path-like from the client-supplied part.
func generatedName(original string) string {
	base := unsafeChars.ReplaceAllString(filepath.Base(original), "_")
	return strings.ReplaceAll(uuid.New().String(), "-", "") + "_" + base
}
