package assetdb

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const META_SUFFIX = ".meta"

var guidRegexp = regexp.MustCompile(`guid:\s*([0-9a-f]+)`)

var TextureExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tga": true,
	".tiff": true, ".bmp": true, ".psd": true, ".exr": true, ".hdr": true,
}

var MeshExtensions = map[string]bool{
	".fbx": true, ".obj": true, ".dae": true, ".blend": true,
	".3ds": true, ".max": true, ".ma": true, ".mb": true, ".gltf": true, ".glb": true,
}

// Index maps asset GUIDs to asset paths, built from .meta sidecar files.
// Built once per run, read-only afterwards.
type Index struct {
	root       string
	guidToPath map[string]string
}

// Build recursively scans root for .meta sidecars. A sidecar whose sibling
// asset is missing is skipped. Rebuilding from the same tree yields the
// same index.
func Build(root string) (*Index, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, errors.Wrapf(err, "Cannot access asset root %q", root)
	}

	idx := &Index{root: root, guidToPath: make(map[string]string)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("[assetdb] Skipping %q: %v", path, err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, META_SUFFIX) {
			return nil
		}

		guid, err := ExtractGUID(path)
		if err != nil || guid == "" {
			return nil
		}

		asset := strings.TrimSuffix(path, META_SUFFIX)
		if _, err := os.Stat(asset); err != nil {
			return nil
		}
		idx.guidToPath[guid] = asset
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to scan %q", root)
	}

	log.Printf("[assetdb] Indexed %d assets under %q", len(idx.guidToPath), root)
	return idx, nil
}

// ExtractGUID pulls the guid token out of a .meta file with a tolerant
// text match; the sidecar does not need to be well-formed YAML.
func ExtractGUID(metaPath string) (string, error) {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return "", errors.Wrapf(err, "Failed to read %q", metaPath)
	}
	if m := guidRegexp.FindSubmatch(data); m != nil {
		return string(m[1]), nil
	}
	return "", nil
}

func (idx *Index) Root() string { return idx.root }

// GUIDs returns every indexed guid, sorted.
func (idx *Index) GUIDs() []string {
	guids := make([]string, 0, len(idx.guidToPath))
	for guid := range idx.guidToPath {
		guids = append(guids, guid)
	}
	sort.Strings(guids)
	return guids
}

func (idx *Index) Len() int { return len(idx.guidToPath) }

// Resolve returns the asset path for guid, if indexed.
func (idx *Index) Resolve(guid string) (string, bool) {
	path, ok := idx.guidToPath[guid]
	return path, ok
}

// ResolveExt resolves guid and additionally requires the asset extension
// to be in allowed (lowercased, with dot).
func (idx *Index) ResolveExt(guid string, allowed map[string]bool) (string, bool) {
	path, ok := idx.guidToPath[guid]
	if !ok || !allowed[strings.ToLower(filepath.Ext(path))] {
		return "", false
	}
	return path, true
}
