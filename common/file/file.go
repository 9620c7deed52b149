// Package file reads containers from local paths and HTTP URLs.
package file

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Reader is a random-access view of a container source.
type Reader interface {
	io.ReaderAt
	io.Closer
	Size() int64
	Name() string
	Read(offset int64, size int) ([]byte, error)
}

var (
	settingsMu sync.RWMutex
	userAgent  = "dcx-dumper"
	timeout    = 60 * time.Second
)

// SetUserAgent sets the User-Agent sent with HTTP requests.
func SetUserAgent(ua string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if ua != "" {
		userAgent = ua
	}
}

// SetHTTPClientTimeout bounds each HTTP request. Zero disables the limit.
func SetHTTPClientTimeout(d time.Duration) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	timeout = d
}

func httpSettings() (string, time.Duration) {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return userAgent, timeout
}

// IsURL reports whether name is read over HTTP.
func IsURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// Open opens name as a URL or a local path.
func Open(name string) (Reader, error) {
	if IsURL(name) {
		return NewHTTPFile(name)
	}
	return NewLocalFile(name)
}

// ReadAll reads the whole of r.
func ReadAll(r Reader) ([]byte, error) {
	data, err := r.Read(0, int(r.Size()))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != r.Size() {
		return nil, fmt.Errorf("%s: short read: %d of %d bytes", r.Name(), len(data), r.Size())
	}
	return data, nil
}

// LocalFile implements Reader for local files.
type LocalFile struct {
	file *os.File
	name string
	size int64
}

// NewLocalFile opens a local file for reading.
func NewLocalFile(path string) (*LocalFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &LocalFile{file: f, name: path, size: stat.Size()}, nil
}

func (f *LocalFile) ReadAt(p []byte, off int64) (int, error) {
	return f.file.ReadAt(p, off)
}

func (f *LocalFile) Close() error {
	return f.file.Close()
}

func (f *LocalFile) Size() int64 {
	return f.size
}

func (f *LocalFile) Name() string {
	return f.name
}

func (f *LocalFile) Read(offset int64, size int) ([]byte, error) {
	data := make([]byte, size)
	n, err := f.file.ReadAt(data, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return data[:n], nil
}

// HTTPFile implements Reader for HTTP URLs. Servers that support byte
// ranges are read on demand; others are downloaded once on first read.
type HTTPFile struct {
	url    string
	client *http.Client
	size   int64
	ranged bool

	mu   sync.Mutex
	body []byte
}

// NewHTTPFile issues a HEAD request for url and returns a reader for it.
func NewHTTPFile(url string) (*HTTPFile, error) {
	ua, to := httpSettings()
	client := &http.Client{Timeout: to}

	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ua)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}

	contentLength := resp.Header.Get("Content-Length")
	if contentLength == "" {
		return nil, fmt.Errorf("%s: remote has no length", url)
	}
	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid content length: %w", url, err)
	}

	return &HTTPFile{
		url:    url,
		client: client,
		size:   size,
		ranged: resp.Header.Get("Accept-Ranges") == "bytes",
	}, nil
}

func (f *HTTPFile) ReadAt(p []byte, off int64) (int, error) {
	data, err := f.Read(off, len(p))
	if err != nil {
		return 0, err
	}
	n := copy(p, data)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *HTTPFile) Close() error {
	f.mu.Lock()
	f.body = nil
	f.mu.Unlock()
	return nil
}

func (f *HTTPFile) Size() int64 {
	return f.size
}

func (f *HTTPFile) Name() string {
	return f.url
}

func (f *HTTPFile) Read(offset int64, size int) ([]byte, error) {
	if size == 0 || offset >= f.size {
		return []byte{}, nil
	}
	end := offset + int64(size) - 1
	if end >= f.size {
		end = f.size - 1
	}

	if !f.ranged {
		body, err := f.download()
		if err != nil {
			return nil, err
		}
		return bytes.Clone(body[offset : end+1]), nil
	}

	req, err := f.newRequest()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, end))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("%s: remote did not return partial content: %d", f.url, resp.StatusCode)
	}

	data := make([]byte, end-offset+1)
	n, err := io.ReadFull(resp.Body, data)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return data[:n], nil
}

func (f *HTTPFile) newRequest() (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	ua, _ := httpSettings()
	req.Header.Set("User-Agent", ua)
	return req, nil
}

func (f *HTTPFile) download() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.body != nil {
		return f.body, nil
	}

	req, err := f.newRequest()
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", f.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.size+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) != f.size {
		return nil, fmt.Errorf("%s: body is %d bytes, expected %d", f.url, len(body), f.size)
	}
	f.body = body
	return body, nil
}
