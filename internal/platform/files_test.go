package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := GetHomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}
	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestAppDataDir(t *testing.T) {
	dir, err := AppDataDir()
	if err != nil {
		t.Skipf("No user config dir on this system: %v", err)
	}
	if filepath.Base(dir) != AppDirName {
		t.Errorf("Expected directory to end with %q, got: %s", AppDirName, dir)
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	err := OpenFileInManager(filepath.Join(t.TempDir(), "nonexistent.txt"))
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "file does not exist:") {
		t.Errorf("Error message should contain 'file does not exist:', got: %v", err)
	}
}

func TestOpenDirectory_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	touch(t, file, time.Now())

	if err := OpenDirectory(file); err == nil {
		t.Error("Expected error for a regular file")
	}
	if err := OpenDirectory(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for a missing directory")
	}
}

func TestFindFileWithFallback_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song_720p.mp4")
	touch(t, path, time.Now())

	foundPath, err := FindFileWithFallback(path)
	if err != nil {
		t.Fatalf("Failed to find existing file: %v", err)
	}
	if foundPath != path {
		t.Errorf("Expected path %s, got %s", path, foundPath)
	}
}

func TestFindFileWithFallback_MergedContainer(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "Song_1080p.webm"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "Song_1080p.mkv"), now)
	touch(t, filepath.Join(dir, "Song_1080p.mp4.part"), now.Add(time.Hour))
	touch(t, filepath.Join(dir, "Other.mp4"), now.Add(time.Hour))

	tests := []struct {
		name   string
		lookup string
	}{
		{"different extension", "Song_1080p.mp4"},
		{"intermediate stream", "Song_1080p.f137.mp4"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			found, err := FindFileWithFallback(filepath.Join(dir, test.lookup))
			if err != nil {
				t.Fatalf("FindFileWithFallback() error = %v", err)
			}
			if filepath.Base(found) != "Song_1080p.mkv" {
				t.Errorf("Expected newest sibling Song_1080p.mkv, got %s", found)
			}
		})
	}
}

func TestFindFileWithFallback_NoMatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.mp4"), time.Now())

	originalPath := filepath.Join(dir, "test_video.mp4")
	_, err := FindFileWithFallback(originalPath)
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	expectedError := "file not found: " + originalPath
	if err.Error() != expectedError {
		t.Errorf("Expected error message %s, got %v", expectedError, err)
	}
}

func TestFindFileWithFallback_InvalidInput(t *testing.T) {
	for _, in := range []string{"", "https://youtu.be/abc"} {
		if _, err := FindFileWithFallback(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}
