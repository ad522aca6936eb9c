package ingest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theballaam96/candyctl/internal/ingest"
)

func TestReader_SHA256AndSize(t *testing.T) {
	data := "hello, candyctl"
	r := ingest.NewLimitedReader(strings.NewReader(data), 0)

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != data {
		t.Errorf("content mismatch: got %q", string(out))
	}
	if r.Size() != int64(len(data)) {
		t.Errorf("Size() = %d, want %d", r.Size(), len(data))
	}
	if len(r.SHA256()) != 64 {
		t.Errorf("SHA256() length = %d, want 64", len(r.SHA256()))
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := ingest.NewLimitedReader(strings.NewReader(""), 0)
	io.ReadAll(r) //nolint:errcheck
	const emptySHA = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if r.SHA256() != emptySHA {
		t.Errorf("SHA256('') = %q, want %q", r.SHA256(), emptySHA)
	}
}

func TestLimitedReader(t *testing.T) {
	r := ingest.NewLimitedReader(strings.NewReader(strings.Repeat("x", 100)), 10)
	_, err := io.ReadAll(r)
	if !errors.Is(err, ingest.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestAdjustRawURL(t *testing.T) {
	cases := map[string]string{
		"https://github.com/o/r/raw/abc123/song.mid":       "https://raw.githubusercontent.com/o/r/abc123/song.mid",
		"https://github.com/o/r/raw/main/dir/a%20b.mid":    "https://raw.githubusercontent.com/o/r/main/dir/a%20b.mid",
		"https://raw.githubusercontent.com/o/r/main/x.mp3": "https://raw.githubusercontent.com/o/r/main/x.mp3",
	}
	for in, want := range cases {
		if got := ingest.AdjustRawURL(in); got != want {
			t.Errorf("AdjustRawURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFetcher_Fetch(t *testing.T) {
	payload := []byte("MThd\x00\x00\x00\x06\x00\x01\x00\x01\x03\xc0")
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/o/r/main/song.mid" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload) //nolint:errcheck
	}))
	defer srv.Close()

	f := ingest.NewFetcher("tok")
	file, err := f.Fetch(context.Background(), srv.URL+"/o/r/main/song.mid?raw=1")
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if file.Name != "song.mid" {
		t.Errorf("Name = %q, want song.mid", file.Name)
	}
	if file.Size != int64(len(payload)) || string(file.Data) != string(payload) {
		t.Errorf("unexpected data (size %d)", file.Size)
	}
	if file.ContentType != "audio/midi" {
		t.Errorf("ContentType = %q, want audio/midi", file.ContentType)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing.mid"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestReadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "preview.mp3")
	if err := os.WriteFile(p, []byte("ID3\x03\x00\x00\x00\x00\x00\x00"), 0644); err != nil {
		t.Fatal(err)
	}
	file, err := ingest.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if file.Name != "preview.mp3" {
		t.Errorf("Name = %q", file.Name)
	}
	if file.ContentType != "audio/mpeg" {
		t.Errorf("ContentType = %q, want audio/mpeg", file.ContentType)
	}
}
