package materials

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/unity2o3de/config"
	"github.com/mogaika/unity2o3de/unity/assetdb"
)

const (
	MATERIAL_TYPE         = "@gemroot:Atom_Feature_Common@/Assets/Materials/Types/StandardPBR.materialtype"
	MATERIAL_TYPE_VERSION = 5
)

// Translator is the material + texture collaborator service: source
// material guid in, target asset hint out. Results are cached per run so
// shared materials are emitted once.
type Translator struct {
	assets     *assetdb.Index
	outputRoot string

	processedMaterials map[string]string
	processedTextures  map[string]string
}

func NewTranslator(assets *assetdb.Index, outputRoot string) *Translator {
	return &Translator{
		assets:             assets,
		outputRoot:         outputRoot,
		processedMaterials: make(map[string]string),
		processedTextures:  make(map[string]string),
	}
}

func (t *Translator) MaterialsConverted() int { return len(t.processedMaterials) }
func (t *Translator) TexturesCopied() int     { return len(t.processedTextures) }

type outputMaterial struct {
	MaterialType        string                 `json:"materialType"`
	MaterialTypeVersion int                    `json:"materialTypeVersion"`
	PropertyValues      map[string]interface{} `json:"propertyValues"`
}

// ProcessMaterial translates one source material into a target .material
// document and returns its gem-style asset hint. A failed material is
// logged and reported unresolved, never fatal.
func (t *Translator) ProcessMaterial(guid string) (string, bool) {
	if hint, ok := t.processedMaterials[guid]; ok {
		return hint, true
	}

	path, ok := t.assets.Resolve(guid)
	if !ok || !strings.EqualFold(filepath.Ext(path), ".mat") {
		log.Printf("[materials] Material guid %s not found", guid)
		return "", false
	}

	mat, err := ParseFile(path)
	if err != nil {
		log.Printf("[materials] %v", err)
		return "", false
	}

	out := outputMaterial{
		MaterialType:        MATERIAL_TYPE,
		MaterialTypeVersion: MATERIAL_TYPE_VERSION,
		PropertyValues:      make(map[string]interface{}),
	}

	for target, texGUID := range mat.Textures {
		rel, ok := t.CopyTexture(texGUID)
		if !ok {
			continue
		}
		// materials live one level below the textures directory
		propName := target + ".textureMap"
		if target == "occlusion.specular" {
			propName = "occlusion.specularTextureMap"
		}
		out.PropertyValues[propName] = "../" + rel
	}
	for target, value := range mat.Properties {
		out.PropertyValues[target] = value
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(t.outputRoot, "Materials", name+".material")
	if err := writeJSON(outPath, &out); err != nil {
		log.Printf("[materials] %v", err)
		return "", false
	}

	hint := config.GetProjectName() + "/materials/" + name + ".azmaterial"
	t.processedMaterials[guid] = hint
	return hint, true
}

// CopyTexture copies the referenced texture into the output tree and
// returns its output-relative path.
func (t *Translator) CopyTexture(guid string) (string, bool) {
	if rel, ok := t.processedTextures[guid]; ok {
		return rel, true
	}

	path, ok := t.assets.ResolveExt(guid, assetdb.TextureExtensions)
	if !ok {
		return "", false
	}

	outPath := filepath.Join(t.outputRoot, "Textures", filepath.Base(path))
	if _, err := os.Stat(outPath); err != nil {
		if err := copyFile(path, outPath); err != nil {
			log.Printf("[materials] Failed to copy texture %q: %v", path, err)
			return "", false
		}
	}

	rel := "Textures/" + filepath.Base(path)
	t.processedTextures[guid] = rel
	return rel, true
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "Failed to marshal %q", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create %q", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return errors.Wrapf(err, "Failed to write %q", path)
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
