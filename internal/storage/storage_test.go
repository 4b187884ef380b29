package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_DefaultDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := Open("")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	want := filepath.Join(home, ".local", "share", "storefront")
	if s.dir != want {
		t.Fatalf("dir = %q, want %q", s.dir, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	var dest map[string]any
	ok, err := s.Get("cart-storage", &dest)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("Get reported a document for a missing key")
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := s.Set("cart-storage", doc{Name: "phone", Count: 2}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var got doc
	ok, err := s.Get("cart-storage", &got)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatal("Get reported no document after Set")
	}
	if got.Name != "phone" || got.Count != 2 {
		t.Fatalf("Get = %+v, want {phone 2}", got)
	}

	if err := s.Delete("cart-storage"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	ok, err = s.Get("cart-storage", &got)
	if err != nil {
		t.Fatalf("Get after Delete returned error: %v", err)
	}
	if ok {
		t.Fatal("document still present after Delete")
	}

	// Deleting again is a no-op.
	if err := s.Delete("cart-storage"); err != nil {
		t.Fatalf("Delete of missing key returned error: %v", err)
	}
}

func TestStore_SetReplacesPreviousValue(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	if err := s.Set("auth-storage", map[string]string{"user": "ada"}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := s.Set("auth-storage", map[string]string{"user": "grace"}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var got map[string]string
	if _, err := s.Get("auth-storage", &got); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got["user"] != "grace" {
		t.Fatalf("user = %q, want grace", got["user"])
	}
}
