// Package source reads SQL scripts from files, directories or storage URLs
// and writes rewritten scripts back.
package source

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/ptemp/pkg/sandbox"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// ScriptExt is the extension of files picked up from directories.
const ScriptExt = ".sql"

// Loader resolves script locations through an afs service.
type Loader struct {
	fs afs.Service
}

// New creates a Loader backed by the default afs service.
func New() *Loader {
	return &Loader{fs: afs.New()}
}

// ToURL turns a local path into a file:// URL. Locations that already
// carry a scheme are returned as is.
func ToURL(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", location, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// IsLocal reports whether location refers to the local filesystem.
func IsLocal(location string) bool {
	return !strings.Contains(location, "://") || strings.HasPrefix(location, "file://")
}

// Load returns the script at location. A directory yields every *.sql
// file directly inside it, sorted by name.
func (l *Loader) Load(ctx context.Context, location string) ([]sandbox.Script, error) {
	URL, err := ToURL(location)
	if err != nil {
		return nil, err
	}
	obj, err := l.fs.Object(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	if !obj.IsDir() {
		data, err := l.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", location, err)
		}
		return []sandbox.Script{{Name: location, Text: string(data)}}, nil
	}

	objects, err := l.fs.List(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", location, err)
	}
	var scripts []sandbox.Script
	for _, o := range objects {
		if o.IsDir() || !strings.EqualFold(path.Ext(o.Name()), ScriptExt) {
			continue
		}
		data, err := l.fs.DownloadWithURL(ctx, o.URL())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", o.URL(), err)
		}
		scripts = append(scripts, sandbox.Script{Name: joinLocation(location, o.Name()), Text: string(data)})
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })
	return scripts, nil
}

// LoadAll loads every location in order.
func (l *Loader) LoadAll(ctx context.Context, locations []string) ([]sandbox.Script, error) {
	var all []sandbox.Script
	for _, loc := range locations {
		scripts, err := l.Load(ctx, loc)
		if err != nil {
			return nil, err
		}
		all = append(all, scripts...)
	}
	return all, nil
}

// Write stores data at location, creating parent directories as needed.
func (l *Loader) Write(ctx context.Context, location string, data []byte) error {
	URL, err := ToURL(location)
	if err != nil {
		return err
	}
	if err := l.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return nil
}

// OutputLocation returns where the rewritten form of name goes: next to
// the input, or inside outDir when set, with suffix added to the stem.
// "etl/daily.sql" with suffix "_processed" becomes "etl/daily_processed.sql".
func OutputLocation(name, outDir, suffix string) string {
	dir, base := splitLocation(name)
	ext := path.Ext(base)
	if ext == "" {
		ext = ScriptExt
	}
	stem := strings.TrimSuffix(base, path.Ext(base))
	out := stem + suffix + ext
	if outDir != "" {
		return joinLocation(outDir, out)
	}
	if dir == "" {
		return out
	}
	return joinLocation(dir, out)
}

// IsOutput reports whether name already looks like a rewritten script,
// that is its stem ends in suffix. An empty suffix matches nothing.
func IsOutput(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	_, base := splitLocation(name)
	return strings.HasSuffix(strings.TrimSuffix(base, path.Ext(base)), suffix)
}

func splitLocation(location string) (dir, base string) {
	if i := strings.LastIndexAny(location, `/\`); i > 0 {
		return location[:i], location[i+1:]
	} else if i == 0 {
		return location[:1], location[1:]
	}
	return "", location
}

func joinLocation(dir, name string) string {
	if strings.Contains(dir, "://") {
		return strings.TrimRight(dir, "/") + "/" + name
	}
	return filepath.Join(dir, name)
}
