package prefabdb

import (
	"io/fs"
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/unity2o3de/unity/assetdb"
)

var duplicateSuffixRegexp = regexp.MustCompile(`\s*\(\d+\)$`)

// Database indexes already-converted output documents for instance
// resolution: by source GUID and by display name. Appended to as
// conversions complete; the mutex keeps lookups (including the web
// handlers') safe against registrations from the conversion goroutine.
type Database struct {
	mu sync.Mutex

	byName map[string]string // display name -> output path
	byGUID map[string]string // source guid -> output path

	missing map[string]bool
}

func New() *Database {
	return &Database{
		byName:  make(map[string]string),
		byGUID:  make(map[string]string),
		missing: make(map[string]bool),
	}
}

// AddSearchDirectory scans a directory tree of converted prefabs, picking
// up the source GUID from a sidecar when one sits next to the document.
// Returns how many documents were found.
func (db *Database) AddSearchDirectory(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".prefab") {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), ".prefab")
		guid, _ := assetdb.ExtractGUID(path + assetdb.META_SUFFIX)
		db.Register(guid, name, path)
		count++
		return nil
	})
	if err != nil {
		return count, errors.Wrapf(err, "Failed to scan prefab directory %q", dir)
	}
	log.Printf("[prefabdb] Indexed %d prefabs under %q", count, dir)
	return count, nil
}

// Register records a freshly converted document so later files of the same
// run can reference it.
func (db *Database) Register(guid, name, path string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if guid != "" {
		db.byGUID[guid] = path
	}
	if name != "" {
		db.byName[name] = path
	}
}

// FindByName matches an instance display name against converted documents,
// stripping a trailing parenthesized duplicate index, then a trailing
// space-delimited token, before giving up.
func (db *Database) FindByName(name string) (string, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.findByName(name)
}

func (db *Database) findByName(name string) (string, bool) {
	if path, ok := db.byName[name]; ok {
		return path, true
	}
	if clean := duplicateSuffixRegexp.ReplaceAllString(name, ""); clean != name {
		if path, ok := db.byName[clean]; ok {
			return path, true
		}
	}
	if i := strings.LastIndex(name, " "); i > 0 {
		if path, ok := db.byName[name[:i]]; ok {
			return path, true
		}
	}
	return "", false
}

func (db *Database) FindByGUID(guid string) (string, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	path, ok := db.byGUID[guid]
	return path, ok
}

// ResolveInstance resolves a nested-instance reference: exact GUID first,
// then name with fallbacks. A miss is recorded once per display name and
// the caller degrades the node to a plain entity.
func (db *Database) ResolveInstance(guid, displayName string) (string, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if guid != "" {
		if path, ok := db.byGUID[guid]; ok {
			return path, true
		}
	}
	if displayName != "" {
		if path, ok := db.findByName(displayName); ok {
			return path, true
		}
	}

	miss := displayName
	if miss == "" {
		miss = guid
	}
	if miss == "" {
		miss = "Unknown"
	}
	db.missing[miss] = true
	return "", false
}

// Missing reports every reference that failed to resolve, sorted, each
// listed exactly once.
func (db *Database) Missing() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	list := make([]string, 0, len(db.missing))
	for name := range db.missing {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
