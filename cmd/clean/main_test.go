package main

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DataDog/zstd"

	"github.com/warzone2100/chartsvg/store"
)

func TestWeekOf(t *testing.T) {
	cases := map[string]string{
		"2024-01-01T10:00:00Z": "2024w01",
		"2021-01-03T10:00:00Z": "2020w53",
		"2024-12-30T00:00:00Z": "2025w01",
	}
	for in, want := range cases {
		tm, _ := time.Parse(time.RFC3339, in)
		if got := weekOf(tm); got != want {
			t.Errorf("weekOf(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestArchiveWeek(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	*storagePath = root
	*archivePath = out

	st := store.New(root, "line", "area")
	var entries []store.Entry
	for _, k := range []string{"line", "area"} {
		e, err := st.Put(k, []byte("<svg/>"))
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, e)
	}
	if err := archiveWeek("2024w01", entries); err != nil {
		t.Fatal(err)
	}

	matches, _ := filepath.Glob(filepath.Join(out, "2024w01-*.tar.zst"))
	if len(matches) != 1 {
		t.Fatalf("archives = %v", matches)
	}
	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr := zstd.NewReader(f)
	defer zr.Close()
	tr := tar.NewReader(zr)
	names := map[string]bool{}
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names[h.Name] = true
	}
	for _, e := range entries {
		rel := strings.TrimPrefix(filepath.ToSlash(e.Path), filepath.ToSlash(root)+"/")
		if !names[rel] {
			t.Errorf("archive lacks %s, has %v", rel, names)
		}
	}
}
