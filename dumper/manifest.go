package dumper

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/dcx"
)

// ManifestName is the file name of the manifest written next to outputs.
const ManifestName = "manifest.json"

const manifestVersion = 1

// Manifest records the outcome of one extraction batch.
type Manifest struct {
	Version int             `json:"version"`
	Created time.Time       `json:"created"`
	Files   []ManifestEntry `json:"files"`
}

// ManifestEntry records one input. Digests are hex xxh3-64.
type ManifestEntry struct {
	Name      string      `json:"name"`
	Input     string      `json:"input"`
	Output    string      `json:"output"`
	Variant   dcx.Variant `json:"variant"`
	Size      uint64      `json:"size"`
	InputXXH3 string      `json:"input_xxh3,omitempty"`
	XXH3      string      `json:"xxh3,omitempty"`
	Cached    bool        `json:"cached,omitempty"`
	Error     string      `json:"error,omitempty"`
}

func newManifest(entries []ManifestEntry) *Manifest {
	if entries == nil {
		entries = []ManifestEntry{}
	}
	return &Manifest{
		Version: manifestVersion,
		Created: time.Now().UTC(),
		Files:   entries,
	}
}

// Failed returns the entries whose extraction failed.
func (m *Manifest) Failed() []ManifestEntry {
	var failed []ManifestEntry
	for _, e := range m.Files {
		if e.Error != "" {
			failed = append(failed, e)
		}
	}
	return failed
}

// Counts returns the number of extracted, failed and cache-served entries.
func (m *Manifest) Counts() (ok, failed, cached int) {
	for _, e := range m.Files {
		switch {
		case e.Error != "":
			failed++
		case e.Cached:
			ok++
			cached++
		default:
			ok++
		}
	}
	return ok, failed, cached
}

// Lookup returns the entry for an input name.
func (m *Manifest) Lookup(name string) (ManifestEntry, bool) {
	for _, e := range m.Files {
		if e.Name == name {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// Write stores the manifest as indented JSON, replacing path atomically.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToWriteManifest, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToWriteManifest, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToWriteManifest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToWriteManifest, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToWriteManifest, err)
	}
	return nil
}

// ReadManifest loads a manifest written by ExtractFiles.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToReadManifest, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToReadManifest, err)
	}
	return &m, nil
}

func digest(b []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(b))
}
