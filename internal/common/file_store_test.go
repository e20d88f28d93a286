package common

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLocalFileStore_PutOpen(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "policies/1.01/doc.pdf", strings.NewReader("v1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "policies/1.01/doc.pdf", strings.NewReader("v2")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	rc, err := store.Open(ctx, "policies/1.01/doc.pdf")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	body, _ := io.ReadAll(rc)
	if string(body) != "v2" {
		t.Errorf("Expected v2, got %q", body)
	}

	if _, err := store.Open(ctx, "policies/missing.pdf"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestLocalFileStore_CannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalFileStore(root)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	full, err := store.resolve("../../etc/passwd")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !strings.HasPrefix(full, root) {
		t.Errorf("Expected path under %s, got %s", root, full)
	}

	if _, err := store.resolve(""); err == nil {
		t.Error("Expected empty path to be rejected")
	}
}

func TestBuildStoragePath(t *testing.T) {
	date := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		category, folder, name, ext string
		want                        string
	}{
		{"policies", "1.01", "Use of Force", ".PDF", "policies/1.01/use-of-force-2024-03-09.pdf"},
		{"resumes", "Doe, Jane", "My Résumé!", "docx", "resumes/doe-jane/my-r-sum-2024-03-09.docx"},
		{"policies", "../..", "", "", "policies/untitled/untitled-2024-03-09"},
	}

	for _, tt := range tests {
		got := BuildStoragePath(tt.category, tt.folder, tt.name, date, tt.ext)
		if got != tt.want {
			t.Errorf("BuildStoragePath(%q, %q, %q): expected %s, got %s", tt.category, tt.folder, tt.name, tt.want, got)
		}
	}
}
