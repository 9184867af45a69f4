// Package storage persists uploaded files on the local filesystem. Files are
// renamed to a random id so user-supplied names never touch the disk layout.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/pkg/id"
)

var importExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type Local struct {
	dir     string
	maxSize int64
}

func NewLocal(dir string, maxSize int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, maxSize: maxSize}, nil
}

// SaveImportFile stores a case import sheet (xlsx/xls/csv) and returns the
// path of the stored copy.
func (l *Local) SaveImportFile(fh *multipart.FileHeader) (string, error) {
	return l.save(fh, importExtensions)
}

// SaveDocument stores a license or contract attachment.
func (l *Local) SaveDocument(fh *multipart.FileHeader) (string, error) {
	return l.save(fh, documentExtensions)
}

func (l *Local) save(fh *multipart.FileHeader, allowed map[string]bool) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", apperr.ErrImportFileEmpty
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowed[ext] {
		return "", apperr.ErrUnsupportedFileType.WithMessage("unsupported file type: %s", ext)
	}
	if fh.Size > l.maxSize {
		return "", apperr.ErrFileSizeExceeded.WithMessage("file exceeds %d bytes", l.maxSize)
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperr.ErrFileUploadFailed
	}
	defer src.Close()

	path := filepath.Join(l.dir, id.NewID32()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", apperr.ErrFileUploadFailed
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", apperr.ErrFileUploadFailed
	}
	return path, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (l *Local) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
