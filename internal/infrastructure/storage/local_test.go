package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"drmp-backend/internal/domain/apperr"
)

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestSaveImportFile(t *testing.T) {
	l, err := NewLocal(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	path, err := l.SaveImportFile(fileHeader(t, "cases.csv", "receipt,name\nR1,Alice\n"))
	if err != nil {
		t.Fatalf("SaveImportFile: %v", err)
	}
	if !strings.HasSuffix(path, ".csv") {
		t.Fatalf("stored path should keep extension: %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	if len(name) != 32 {
		t.Fatalf("stored name should be a 32-char id, got %q", name)
	}
	if name == "cases" {
		t.Fatalf("stored name must not reuse the upload name")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !strings.Contains(string(data), "R1,Alice") {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSaveImportFile_RejectsUnsupportedType(t *testing.T) {
	l, _ := NewLocal(t.TempDir(), 1<<20)
	_, err := l.SaveImportFile(fileHeader(t, "cases.exe", "MZ"))
	if !errors.Is(err, apperr.ErrUnsupportedFileType) {
		t.Fatalf("err = %v, want unsupported file type", err)
	}
}

func TestSaveImportFile_RejectsOversize(t *testing.T) {
	l, _ := NewLocal(t.TempDir(), 8)
	_, err := l.SaveImportFile(fileHeader(t, "cases.csv", strings.Repeat("x", 64)))
	if !errors.Is(err, apperr.ErrFileSizeExceeded) {
		t.Fatalf("err = %v, want file size exceeded", err)
	}
}

func TestRemove_MissingFileOK(t *testing.T) {
	l, _ := NewLocal(t.TempDir(), 1<<20)
	if err := l.Remove("/no/such/file"); err != nil {
		t.Fatalf("Remove missing file: %v", err)
	}
}
