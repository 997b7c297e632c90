package prefab

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Component bodies are keyed by component name and carry a "$type"
// discriminator; their field sets differ per component, so the body stays
// an open map built by the typed constructors below.
type Component map[string]interface{}

type Entity struct {
	Id         string               `json:"Id"`
	Name       string               `json:"Name"`
	Components map[string]Component `json:"Components"`
}

// Patch is an RFC6902-style edit applied against the referenced document's
// default state at load time.
type Patch struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

type Instance struct {
	Source  string  `json:"Source"`
	Patches []Patch `json:"Patches"`
}

// Prefab is the nested target document: a single container entity, plain
// entities by id, and nested instances by id.
type Prefab struct {
	ContainerEntity *Entity              `json:"ContainerEntity"`
	Entities        map[string]*Entity   `json:"Entities"`
	Instances       map[string]*Instance `json:"Instances"`
}

func NewPrefab() *Prefab {
	return &Prefab{
		Entities:  make(map[string]*Entity),
		Instances: make(map[string]*Instance),
	}
}

func (p *Prefab) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal prefab")
	}
	return data, nil
}

func (p *Prefab) WriteFile(path string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create %q", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0666); err != nil {
		return errors.Wrapf(err, "Failed to write %q", path)
	}
	return nil
}
