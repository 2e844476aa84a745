package shared

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestKeccak256KnownVectors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		hash := Keccak256([]byte{})
		want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
		if got := hex.EncodeToString(hash[:]); got != want {
			t.Errorf("keccak256(\"\") = %s, want %s", got, want)
		}
	})

	t.Run("hello", func(t *testing.T) {
		hash := Keccak256([]byte("hello"))
		want := "1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"
		if got := hex.EncodeToString(hash[:]); got != want {
			t.Errorf("keccak256(\"hello\") = %s, want %s", got, want)
		}
	})
}

func TestSha256File(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty")
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		got, err := Sha256File(path)
		if err != nil {
			t.Fatalf("Sha256File failed: %v", err)
		}
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got != want {
			t.Errorf("sha256 of empty file = %s, want %s", got, want)
		}
	})

	t.Run("hello", func(t *testing.T) {
		path := filepath.Join(dir, "hello")
		if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		got, err := Sha256File(path)
		if err != nil {
			t.Fatalf("Sha256File failed: %v", err)
		}
		want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
		if got != want {
			t.Errorf("sha256(\"hello\") = %s, want %s", got, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Sha256File(filepath.Join(dir, "does-not-exist")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
