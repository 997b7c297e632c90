package meshproc

import (
	"context"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/unity2o3de/config"
	"github.com/mogaika/unity2o3de/unity/assetdb"
)

// External baker invocations are bounded; a timeout degrades to a raw
// copy instead of failing the batch.
const BAKE_TIMEOUT = time.Minute * 2

// Processor is the mesh collaborator service. Source mesh guid in, target
// .azmodel asset hint out. When a baker binary is configured, fbx sources
// are passed through it to bake pivot transforms; everything else (and
// every bake failure) is a plain copy.
type Processor struct {
	assets     *assetdb.Index
	outputRoot string
	bakerPath  string

	processed map[string]string
	baked     int
}

func NewProcessor(assets *assetdb.Index, outputRoot, bakerPath string) *Processor {
	return &Processor{
		assets:     assets,
		outputRoot: outputRoot,
		bakerPath:  bakerPath,
		processed:  make(map[string]string),
	}
}

func (p *Processor) MeshesProcessed() int { return len(p.processed) }
func (p *Processor) MeshesBaked() int     { return p.baked }

// ProcessMesh copies (or bakes) one mesh into the output tree and returns
// its asset hint.
func (p *Processor) ProcessMesh(guid string) (string, bool) {
	if hint, ok := p.processed[guid]; ok {
		return hint, true
	}

	path, ok := p.assets.ResolveExt(guid, assetdb.MeshExtensions)
	if !ok {
		log.Printf("[meshproc] Mesh guid %s not found", guid)
		return "", false
	}

	outPath := filepath.Join(p.outputRoot, "Meshes", filepath.Base(path))
	if _, err := os.Stat(outPath); err != nil {
		if err := p.produce(path, outPath); err != nil {
			log.Printf("[meshproc] Failed to process mesh %q: %v", path, err)
			return "", false
		}
	}

	hint := config.GetProjectName() + "/meshes/" + filepath.Base(path) + ".azmodel"
	p.processed[guid] = hint
	return hint, true
}

// PhysicsHint derives the physics-mesh asset hint from a render-mesh hint
// by suffix substitution.
func PhysicsHint(modelHint string) string {
	return strings.Replace(modelHint, ".azmodel", ".pxmesh", 1)
}

func (p *Processor) produce(src, dst string) error {
	ext := strings.ToLower(filepath.Ext(src))

	if ext == ".gltf" || ext == ".glb" {
		// cheap structural probe before shipping the file onward
		if _, err := gltf.Open(src); err != nil {
			return errors.Wrapf(err, "Broken glTF %q", src)
		}
	}

	if p.bakerPath != "" && ext == ".fbx" {
		if err := p.bake(src, dst); err == nil {
			p.baked++
			return nil
		} else {
			log.Printf("[meshproc] Bake failed for %q, raw copy used: %v", src, err)
		}
	}

	return copyFile(src, dst)
}

func (p *Processor) bake(src, dst string) error {
	ctx, cancel := context.WithTimeout(context.Background(), BAKE_TIMEOUT)
	defer cancel()

	if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create %q", filepath.Dir(dst))
	}

	cmd := exec.CommandContext(ctx, p.bakerPath, src, dst)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "Baker output: %s", strings.TrimSpace(string(out)))
	}
	if _, err := os.Stat(dst); err != nil {
		return errors.Errorf("Baker produced no output file")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "Failed to open %q", src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create %q", filepath.Dir(dst))
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "Failed to copy %q", src)
	}
	return nil
}
