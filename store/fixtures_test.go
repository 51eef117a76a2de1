package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures("testdata/fixtures.yaml")
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	if f.Dimension != 5 || len(f.Items) != 5 || len(f.Users) != 3 {
		t.Fatalf("fixtures = dim %d, %d items, %d users", f.Dimension, len(f.Items), len(f.Users))
	}

	bag1 := f.Items[0]
	if bag1.ID != "bag1" || bag1.Vendor != "Lagos Bakery" || bag1.OriginalValue != 4500 || bag1.Image != "bread-mix.jpg" {
		t.Errorf("bag1 = %+v", bag1.Item)
	}
	if bag1.Location.Lat != 6.5244 || bag1.Location.Lng != 3.3792 {
		t.Errorf("bag1 location = %+v", bag1.Location)
	}
	if len(bag1.Embedding) != 5 || len(bag1.Tags) != 3 {
		t.Errorf("bag1 embedding = %v, tags = %v", bag1.Embedding, bag1.Tags)
	}
}

func TestFileLoader(t *testing.T) {
	l := &FileLoader{Path: "testdata/fixtures.yaml", TrendingKey: "t", PopularKey: "p"}
	snap, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.Len() != 5 || snap.Dimension() != 5 {
		t.Errorf("snapshot len = %d, dim = %d", snap.Len(), snap.Dimension())
	}
	if got := snap.lists["t"]; len(got) != 3 || got[0] != "bag3" {
		t.Errorf("trending list = %v", got)
	}
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("items: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	mismatch := filepath.Join(dir, "mismatch.yaml")
	if err := os.WriteFile(mismatch, []byte("dimension: 3\nitems:\n  - id: a\n    embedding: [1, 2]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.yaml"), bad, mismatch} {
		l := &FileLoader{Path: path, TrendingKey: "t", PopularKey: "p"}
		if _, err := l.Load(context.Background()); err == nil {
			t.Errorf("Load(%s) should fail", filepath.Base(path))
		}
	}
}
