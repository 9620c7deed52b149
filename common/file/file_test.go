package file

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

var content = []byte("DCX\x00 container bytes for range reads")

func TestLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.dcx")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Size() != int64(len(content)) {
		t.Errorf("Size = %d", r.Size())
	}
	if r.Name() != path {
		t.Errorf("Name = %q", r.Name())
	}
	got, err := r.Read(4, 10)
	if err != nil || !bytes.Equal(got, content[4:14]) {
		t.Errorf("Read(4, 10) = %q, %v", got, err)
	}
	tail, err := r.Read(int64(len(content)-2), 10)
	if err != nil || len(tail) != 2 {
		t.Errorf("Read past end = %q, %v", tail, err)
	}
	all, err := ReadAll(r)
	if err != nil || !bytes.Equal(all, content) {
		t.Errorf("ReadAll = %q, %v", all, err)
	}
}

func TestLocalFileErrors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file: expected error")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("directory: expected error")
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"http://host/a.dcx":  true,
		"https://host/a.dcx": true,
		"/tmp/a.dcx":         false,
		"httpdocs/a.dcx":     false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHTTPFileRanged(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.UserAgent())
		http.ServeContent(w, r, "a.dcx", time.Time{}, bytes.NewReader(content))
	}))
	defer srv.Close()

	SetUserAgent("dcx-test/1.0")
	defer SetUserAgent("dcx-dumper")

	r, err := Open(srv.URL + "/a.dcx")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	hf := r.(*HTTPFile)
	if !hf.ranged {
		t.Fatal("ServeContent should advertise byte ranges")
	}
	got, err := r.Read(4, 9)
	if err != nil || !bytes.Equal(got, content[4:13]) {
		t.Errorf("Read(4, 9) = %q, %v", got, err)
	}
	buf := make([]byte, 4)
	if n, err := r.ReadAt(buf, 0); n != 4 || err != nil || string(buf) != "DCX\x00" {
		t.Errorf("ReadAt = %d, %v, %q", n, err, buf)
	}
	all, err := ReadAll(r)
	if err != nil || !bytes.Equal(all, content) {
		t.Errorf("ReadAll = %q, %v", all, err)
	}
	if ua, _ := gotUA.Load().(string); ua != "dcx-test/1.0" {
		t.Errorf("User-Agent = %q", ua)
	}
}

func TestHTTPFileWithoutRanges(t *testing.T) {
	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		if r.Method == http.MethodGet {
			gets.Add(1)
			w.Write(content)
		}
	}))
	defer srv.Close()

	r, err := NewHTTPFile(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		got, err := r.Read(0, 3)
		if err != nil || string(got) != "DCX" {
			t.Fatalf("Read = %q, %v", got, err)
		}
	}
	if n := gets.Load(); n != 1 {
		t.Errorf("body downloaded %d times, want 1", n)
	}
}

func TestHTTPFileErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewHTTPFile(srv.URL + "/missing.dcx"); err == nil {
		t.Error("404: expected error")
	}
}
