package kvstore_test

import (
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/foodrun/pkg/kvstore"
)

type record struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

func TestMemory_RoundTrip(t *testing.T) {
	store := kvstore.NewMemory()

	if err := store.Set("auth", record{Name: "alice", Token: "tok"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got record
	found, err := store.Get("auth", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist")
	}
	if got.Token != "tok" {
		t.Errorf("expected token %q, got %q", "tok", got.Token)
	}
}

func TestMemory_GetMissing(t *testing.T) {
	store := kvstore.NewMemory()

	var got record
	found, err := store.Get("absent", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected missing key")
	}
}

func TestMemory_Delete(t *testing.T) {
	store := kvstore.NewMemory()
	_ = store.Set("auth", record{Token: "tok"})

	if err := store.Delete("auth"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var got record
	found, _ := store.Get("auth", &got)
	if found {
		t.Error("expected key to be gone after Delete")
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	first := kvstore.NewFile(path)
	if err := first.Set("auth", record{Name: "alice", Token: "tok"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh instance over the same path must see the write.
	second := kvstore.NewFile(path)
	var got record
	found, err := second.Get("auth", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || got.Name != "alice" {
		t.Errorf("expected persisted record, got found=%v record=%+v", found, got)
	}
}

func TestFile_DeleteThenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := kvstore.NewFile(path)

	_ = store.Set("auth", record{Token: "tok"})
	if err := store.Delete("auth"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var got record
	found, _ := store.Get("auth", &got)
	if found {
		t.Error("expected key to be gone after Delete")
	}
}

func TestFile_MissingFileReadsEmpty(t *testing.T) {
	store := kvstore.NewFile(filepath.Join(t.TempDir(), "never-written.json"))

	var got record
	found, err := store.Get("auth", &got)
	if err != nil {
		t.Fatalf("Get on missing file: %v", err)
	}
	if found {
		t.Error("expected nothing in a never-written store")
	}
}
