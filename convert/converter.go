package convert

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/mogaika/unity2o3de/materials"
	"github.com/mogaika/unity2o3de/meshproc"
	"github.com/mogaika/unity2o3de/o3de/prefab"
	"github.com/mogaika/unity2o3de/o3de/prefabdb"
	"github.com/mogaika/unity2o3de/scenegraph"
	"github.com/mogaika/unity2o3de/status"
	"github.com/mogaika/unity2o3de/unity/anchordoc"
	"github.com/mogaika/unity2o3de/unity/assetdb"
)

// Summary is the per-run accounting. Nothing drops silently: every skipped
// document, failed file and unresolved reference lands in a counter here.
type Summary struct {
	FilesConverted int
	FilesFailed    int
	SkippedDocs    int

	Entities       int
	Instances      int
	Colliders      int
	RigidBodies    int
	StaticBodies   int
	UnresolvedRefs int
}

// Converter drives one conversion run. The collaborator services (asset
// index, prefab database, material translator, mesh processor) are shared
// across every file of the run so caches and the id sequence persist.
// Conversion itself is single-goroutine; the mutex makes Summary safe to
// call from the web handlers while a run is in progress.
type Converter struct {
	Assets    *assetdb.Index
	Prefabs   *prefabdb.Database
	Materials *materials.Translator
	Meshes    *meshproc.Processor

	OutputRoot string

	ids *prefab.IdGen

	mu  sync.Mutex
	sum Summary
}

func NewConverter(assets *assetdb.Index, prefabs *prefabdb.Database,
	mats *materials.Translator, meshes *meshproc.Processor, outputRoot string) *Converter {
	return &Converter{
		Assets:     assets,
		Prefabs:    prefabs,
		Materials:  mats,
		Meshes:     meshes,
		OutputRoot: outputRoot,
		ids:        prefab.NewIdGen(),
	}
}

func (c *Converter) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sum
}

// ProcessFile converts one source scene or prefab file into a target
// document and registers the result for later instance resolution.
func (c *Converter) ProcessFile(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processFile(path)
}

func (c *Converter) processFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read %q", path)
	}

	set, err := anchordoc.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "Failed to parse %q", path)
	}
	c.sum.SkippedDocs += set.Skipped

	graph, err := scenegraph.Build(set)
	if err != nil {
		return errors.Wrapf(err, "Failed to reconstruct %q", path)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	doc := prefab.NewPrefab()
	doc.ContainerEntity = prefab.NewContainerEntity(c.ids, stem)

	rootRef := c.emitNode(graph, graph.Root().Key, doc, prefab.CONTAINER_ENTITY_ID)
	doc.ContainerEntity.Components["EditorEntitySortComponent"] =
		prefab.NewEntitySortComponent(c.ids, []string{rootRef})

	outPath := filepath.Join(c.OutputRoot, "Prefabs", stem+".prefab")
	if err := doc.WriteFile(outPath); err != nil {
		return err
	}

	guid, _ := assetdb.ExtractGUID(path + assetdb.META_SUFFIX)
	c.Prefabs.Register(guid, stem, outPath)

	log.Printf("[convert] Converted %q (%d entities, %d instances)",
		path, len(doc.Entities)+1, len(doc.Instances))
	return nil
}

// ProcessTree converts every scene and prefab file under root. Prefab
// sources are converted before scenes so scene-level instances resolve
// within the same run. A failed file is reported and skipped, never fatal.
func (c *Converter) ProcessTree(root string) error {
	prefabFiles := make([]string, 0)
	sceneFiles := make([]string, 0)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".prefab":
			prefabFiles = append(prefabFiles, path)
		case ".unity":
			sceneFiles = append(sceneFiles, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "Failed to scan source tree %q", root)
	}

	sort.Strings(prefabFiles)
	sort.Strings(sceneFiles)
	files := append(prefabFiles, sceneFiles...)
	if len(files) == 0 {
		return errors.Errorf("No convertible files under %q", root)
	}

	for i, path := range files {
		status.Progress(float32(i)/float32(len(files)), "Converting %q", filepath.Base(path))
		c.mu.Lock()
		if err := c.processFile(path); err != nil {
			log.Printf("[convert] Failed to convert %q: %v", path, err)
			status.Error("Failed %q: %v", filepath.Base(path), err)
			c.sum.FilesFailed++
		} else {
			c.sum.FilesConverted++
		}
		c.mu.Unlock()
	}
	status.Progress(1.0, "Converted %d of %d files", c.Summary().FilesConverted, len(files))

	c.report()
	return nil
}

func (c *Converter) report() {
	s := c.Summary()
	log.Printf("[convert] Run summary: %d converted, %d failed, %d documents skipped",
		s.FilesConverted, s.FilesFailed, s.SkippedDocs)
	log.Printf("[convert] Emitted %d entities, %d instances, %d colliders (%d dynamic, %d static bodies)",
		s.Entities, s.Instances, s.Colliders, s.RigidBodies, s.StaticBodies)
	if s.UnresolvedRefs > 0 {
		log.Printf("[convert] %d references did not resolve", s.UnresolvedRefs)
	}
	for _, name := range c.Prefabs.Missing() {
		log.Printf("[convert] Missing prefab reference: %q", name)
	}
}
