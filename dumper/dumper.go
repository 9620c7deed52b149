package dumper

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/xishang0128/dcx-dumper-go/cache"
	"github.com/xishang0128/dcx-dumper-go/common/file"
	"github.com/xishang0128/dcx-dumper-go/common/i18n"
	"github.com/xishang0128/dcx-dumper-go/dcx"
)

// New resolves paths into inputs. A local directory contributes every file
// below it whose name ends in one of the configured suffixes.
func New(paths []string, opts Options) (*Dumper, error) {
	d := &Dumper{
		decoder:  opts.Decoder,
		cache:    opts.Cache,
		logger:   opts.Logger,
		suffixes: opts.Suffixes,
		strict:   opts.Strict,
		pool:     GetGlobalMemoryPool(),
		balancer: GetGlobalBalancer(),
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.decoder == nil {
		d.decoder = dcx.NewDecoder(dcx.Options{Logger: d.logger})
	}
	if d.suffixes == nil {
		d.suffixes = []string{".dcx"}
	}

	seenPath := make(map[string]bool)
	seenName := make(map[string]string)
	add := func(in Input) error {
		if seenPath[in.Path] {
			return nil
		}
		if prev, ok := seenName[in.Name]; ok {
			return fmt.Errorf(i18n.I18nMsg.Dumper.ErrorDuplicateName, in.Name, prev, in.Path)
		}
		seenPath[in.Path] = true
		seenName[in.Name] = in.Path
		d.inputs = append(d.inputs, in)
		return nil
	}

	for _, p := range paths {
		ins, err := d.resolve(p)
		if err != nil {
			return nil, err
		}
		for _, in := range ins {
			if err := add(in); err != nil {
				return nil, err
			}
		}
	}
	if len(d.inputs) == 0 {
		return nil, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorNoInputs)
	}
	return d, nil
}

func (d *Dumper) resolve(p string) ([]Input, error) {
	if file.IsURL(p) {
		name := p
		if u, err := url.Parse(p); err == nil {
			name = path.Base(u.Path)
		}
		return []Input{{Path: p, Name: name}}, nil
	}

	st, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf(i18n.I18nMsg.Common.ErrorFailedToOpen, err)
	}
	if !st.IsDir() {
		return []Input{{Path: p, Name: filepath.Base(p)}}, nil
	}

	var ins []Input
	err = filepath.WalkDir(p, func(fp string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() || !d.hasSuffix(de.Name()) {
			return nil
		}
		rel, err := filepath.Rel(p, fp)
		if err != nil {
			return err
		}
		ins = append(ins, Input{Path: fp, Name: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToScanDir, p, err)
	}
	return ins, nil
}

func (d *Dumper) matchSuffix(name string) string {
	lower := strings.ToLower(name)
	for _, s := range d.suffixes {
		if s != "" && len(name) > len(s) && strings.HasSuffix(lower, strings.ToLower(s)) {
			return s
		}
	}
	return ""
}

func (d *Dumper) hasSuffix(name string) bool {
	return d.matchSuffix(name) != ""
}

// OutputName returns the output path for an input name, relative to the
// output directory: the first matching suffix is stripped, and names
// without one get ".out" appended.
func (d *Dumper) OutputName(name string) string {
	if s := d.matchSuffix(name); s != "" {
		return name[:len(name)-len(s)]
	}
	return name + ".out"
}

// Inputs returns the resolved inputs in the order they were given.
func (d *Dumper) Inputs() []Input {
	return append([]Input(nil), d.inputs...)
}

// ListFiles inspects every input header. Inputs that fail to open or
// validate are reported with Error set.
func (d *Dumper) ListFiles() ([]FileInfo, error) {
	info := make([]FileInfo, 0, len(d.inputs))
	for _, in := range d.inputs {
		info = append(info, d.inspect(in))
	}
	return info, nil
}

// ListFilesAsMap returns ListFiles keyed by input name.
func (d *Dumper) ListFilesAsMap() (map[string]FileInfo, error) {
	list, err := d.ListFiles()
	if err != nil {
		return nil, err
	}
	info := make(map[string]FileInfo, len(list))
	for _, fi := range list {
		info[fi.Name] = fi
	}
	return info, nil
}

func (d *Dumper) inspect(in Input) FileInfo {
	fi := FileInfo{Name: in.Name, Path: in.Path, Variant: dcx.VariantUnknown.String()}

	data, release, err := d.readInput(in)
	if err != nil {
		fi.Error = err.Error()
		return fi
	}
	defer release()
	fi.Size = int64(len(data))

	h, err := d.decoder.Inspect(data)
	if err != nil {
		fi.Variant = dcx.ClassifyBytes(data).String()
		fi.Error = err.Error()
		fi.SizeReadable = formatSize(uint64(fi.Size))
		return fi
	}
	fi.Variant = h.Variant.String()
	fi.UncompressedSize = h.UncompressedSize
	fi.CompressedSize = h.CompressedSize
	fi.Level = h.Level
	fi.Chunks = len(h.Chunks)
	fi.SizeReadable = formatSize(uint64(h.UncompressedSize))
	return fi
}

// Inspect returns the validated header of one input.
func (d *Dumper) Inspect(name string) (*dcx.Header, error) {
	in, ok := d.lookup(name)
	if !ok {
		return nil, fmt.Errorf(i18n.I18nMsg.Dumper.FileNotFound, name)
	}
	data, release, err := d.readInput(in)
	if err != nil {
		return nil, err
	}
	defer release()
	return d.decoder.Inspect(data)
}

func (d *Dumper) lookup(name string) (Input, bool) {
	for _, in := range d.inputs {
		if in.Name == name || in.Path == name {
			return in, true
		}
	}
	return Input{}, false
}

// selectInputs returns the inputs named in names, or all inputs when names
// is empty. Unknown names are reported and skipped.
func (d *Dumper) selectInputs(names []string) []Input {
	if len(names) == 0 {
		return d.Inputs()
	}
	selected := make([]Input, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		in, ok := d.lookup(name)
		if !ok {
			d.logger.Warn(fmt.Sprintf(i18n.I18nMsg.Dumper.FileNotFound, name))
			continue
		}
		selected = append(selected, in)
	}
	return selected
}

// Decoder returns the decoder the dumper uses.
func (d *Dumper) Decoder() *dcx.Decoder {
	return d.decoder
}

func (d *Dumper) readInput(in Input) ([]byte, func(), error) {
	return readInput(d.pool, in.Path)
}

// readInput reads a whole input into a buffer from pool. The returned
// function gives the buffer back; data must not be used after calling it.
func readInput(pool *MemoryPool, path string) ([]byte, func(), error) {
	r, err := file.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToReadInput, err)
	}
	defer r.Close()

	buf := pool.Get(int(r.Size()))
	release := func() { pool.Put(buf) }

	n, err := r.ReadAt(buf, 0)
	if n == len(buf) {
		err = nil
	} else if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		release()
		return nil, nil, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToReadInput, err)
	}
	return buf, release, nil
}

// decode returns the payload of data, from the cache when possible.
func (d *Dumper) decode(data []byte) ([]byte, dcx.Variant, bool, error) {
	var key string
	if d.cache != nil {
		key = cache.Key(data)
		if e, ok := d.cache.Get(key); ok {
			// The header must still pass this decoder's checks.
			h, err := d.decoder.Inspect(data)
			if err == nil && h.Variant == e.Variant {
				return e.Data, e.Variant, true, nil
			}
			d.logger.Debug("cache entry not valid for current decoder", "key", key, "error", err)
		}
	}

	out, v, err := d.decoder.DecompressVariant(data)
	if err != nil {
		return nil, v, false, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToDecode, err)
	}
	if d.cache != nil {
		if err := d.cache.Put(key, v, out); err != nil {
			d.logger.Warn("cache write failed", "error", err)
		}
	}
	return out, v, false, nil
}

// extractOne decodes in and writes its payload below outputDir.
func (d *Dumper) extractOne(in Input, outputDir string) (ManifestEntry, error) {
	entry := ManifestEntry{
		Name:    in.Name,
		Input:   in.Path,
		Output:  d.OutputName(in.Name),
		Variant: dcx.VariantUnknown,
	}

	data, release, err := d.readInput(in)
	if err != nil {
		entry.Error = err.Error()
		return entry, err
	}
	defer release()
	entry.InputXXH3 = digest(data)

	out, v, cached, err := d.decode(data)
	entry.Variant = v
	if err != nil {
		entry.Error = err.Error()
		return entry, err
	}
	entry.Cached = cached
	entry.Size = uint64(len(out))
	entry.XXH3 = digest(out)

	if cached {
		d.logger.Debug(fmt.Sprintf(i18n.I18nMsg.Dumper.CacheHit, in.Name))
	}

	outPath := filepath.Join(outputDir, filepath.FromSlash(entry.Output))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		err = fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToCreateOutputFile, err)
		entry.Error = err.Error()
		return entry, err
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		err = fmt.Errorf(i18n.I18nMsg.Dumper.ErrorFailedToWriteToFile, err)
		entry.Error = err.Error()
		return entry, err
	}
	return entry, nil
}

// ExtractFiles decodes the named inputs (all when names is empty) into
// outputDir and writes a manifest there. Per-file failures are recorded
// in the manifest; in strict mode the first failure also aborts the batch
// and is returned.
func (d *Dumper) ExtractFiles(outputDir string, names []string, strategy ExtractionStrategy, workers int, progressCallback ProgressCallback) (*Manifest, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf(i18n.I18nMsg.Common.ErrorFailedToCreateDir, err)
	}

	inputs := d.selectInputs(names)
	if len(inputs) == 0 {
		d.logger.Info(i18n.I18nMsg.Dumper.NoFilesToDecode)
		return newManifest(nil), nil
	}

	tracker := newTracker(len(inputs), progressCallback)

	var (
		entries []ManifestEntry
		err     error
	)
	switch strategy {
	case StrategySequential:
		entries, err = d.extractSequential(inputs, outputDir, tracker)
	case StrategyAdaptive:
		entries, err = d.extractAdaptive(inputs, outputDir, workers, tracker)
	default:
		return nil, fmt.Errorf(i18n.I18nMsg.Dumper.ErrorUnknownExtractionStrategy, strategy)
	}

	m := newManifest(entries)
	if werr := m.Write(filepath.Join(outputDir, ManifestName)); werr != nil {
		return m, werr
	}
	return m, err
}
