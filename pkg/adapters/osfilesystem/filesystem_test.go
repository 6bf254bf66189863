package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteFile(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "0.jpg")
	testData := []byte("hello world")

	if err := fs.WriteFile(testPath, testData); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestFileSystem_WriteFileOverwrites(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "0.jpg")

	if err := fs.WriteFile(testPath, []byte("first, longer content")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.WriteFile(testPath, []byte("second")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _ := os.ReadFile(testPath)
	if string(data) != "second" {
		t.Errorf("expected truncated content, got %q", data)
	}
}

func TestFileSystem_WriteFileMissingParent(t *testing.T) {
	fs := New()

	testPath := filepath.Join(t.TempDir(), "missing", "0.jpg")
	if err := fs.WriteFile(testPath, []byte("test")); err == nil {
		t.Error("expected error when the parent directory does not exist")
	}
}

func TestFileSystem_MkdirAll(t *testing.T) {
	fs := New()

	testPath := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := fs.MkdirAll(testPath); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	info, err := os.Stat(testPath)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}
