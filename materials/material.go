package materials

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/unity2o3de/unity/anchordoc"
)

// textureTable maps source shader texture slots onto target property
// groups. _MetallicGlossMap additionally feeds roughness: the source packs
// smoothness into its alpha channel.
var textureTable = map[string]string{
	"_MainTex":          "baseColor",
	"_BaseMap":          "baseColor",
	"_BaseColorMap":     "baseColor",
	"_BumpMap":          "normal",
	"_NormalMap":        "normal",
	"_MetallicGlossMap": "metallic",
	"_MetallicMap":      "metallic",
	"_SpecGlossMap":     "specular",
	"_OcclusionMap":     "occlusion.specular",
	"_EmissionMap":      "emissive",
	"_HeightMap":        "height",
	"_ParallaxMap":      "height",
}

var propertyTable = map[string]string{
	"_Color":             "baseColor.color",
	"_BaseColor":         "baseColor.color",
	"_Metallic":          "metallic.factor",
	"_Smoothness":        "roughness.factor",
	"_Glossiness":        "roughness.factor",
	"_BumpScale":         "normal.factor",
	"_OcclusionStrength": "occlusion.specularFactor",
	"_EmissionColor":     "emissive.color",
}

// Material is the translated, target-space view of a source material.
type Material struct {
	Name       string
	Shader     string
	Textures   map[string]string      // target property group -> texture guid
	Properties map[string]interface{} // target property -> scalar/color/enum
}

type shaderRef struct {
	Name string `yaml:"m_Name"`
}

type colorValue struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

type texEnv struct {
	Texture anchordoc.FileRef `yaml:"m_Texture"`
}

type materialRecord struct {
	Name            string    `yaml:"m_Name"`
	Shader          shaderRef `yaml:"m_Shader"`
	SavedProperties struct {
		TexEnvs []map[string]texEnv     `yaml:"m_TexEnvs"`
		Floats  []map[string]float32    `yaml:"m_Floats"`
		Colors  []map[string]colorValue `yaml:"m_Colors"`
	} `yaml:"m_SavedProperties"`
}

// ParseFile parses a source .mat file (same anchor-document syntax as
// scenes) and translates its shader properties into target terms.
func ParseFile(path string) (*Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read material %q", path)
	}
	set, err := anchordoc.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse material %q", path)
	}
	for _, anchor := range set.Anchors() {
		doc := set.Get(anchor)
		if doc.Kind != "Material" {
			continue
		}
		var rec materialRecord
		if err := doc.Decode(&rec); err != nil {
			return nil, err
		}
		return translate(&rec), nil
	}
	return nil, errors.Errorf("No Material document in %q", path)
}

func translate(rec *materialRecord) *Material {
	m := &Material{
		Name:       rec.Name,
		Shader:     rec.Shader.Name,
		Textures:   make(map[string]string),
		Properties: make(map[string]interface{}),
	}
	if m.Name == "" {
		m.Name = "Material"
	}

	for _, env := range rec.SavedProperties.TexEnvs {
		for prop, tex := range env {
			if tex.Texture.GUID == "" {
				continue
			}
			if target, ok := textureTable[prop]; ok {
				m.Textures[target] = tex.Texture.GUID
				if prop == "_MetallicGlossMap" {
					m.Textures["roughness"] = tex.Texture.GUID
				}
			}
		}
	}

	rawFloats := make(map[string]float32)
	for _, group := range rec.SavedProperties.Floats {
		for prop, value := range group {
			rawFloats[prop] = value
			if target, ok := propertyTable[prop]; ok {
				// smoothness and roughness point opposite ways
				if prop == "_Smoothness" || prop == "_Glossiness" {
					value = 1.0 - value
				}
				m.Properties[target] = value
			}
		}
	}

	for _, group := range rec.SavedProperties.Colors {
		for prop, color := range group {
			if target, ok := propertyTable[prop]; ok {
				m.Properties[target] = []float32{color.R, color.G, color.B, color.A}
			}
		}
	}

	// transparency: _Surface=1 or _Mode>=2 means blended, _AlphaClip=1 or
	// _Mode=1 means clipping with _Cutoff threshold
	isTransparent := rawFloats["_Surface"] == 1 || rawFloats["_Mode"] >= 2
	hasAlphaClip := rawFloats["_AlphaClip"] == 1 || rawFloats["_Mode"] == 1
	if isTransparent || hasAlphaClip {
		m.Properties["opacity.mode"] = "Blended"
		if hasAlphaClip {
			cutoff := float32(0.5)
			if v, ok := rawFloats["_Cutoff"]; ok {
				cutoff = v
			}
			m.Properties["opacity.factor"] = cutoff
		}
	}

	return m
}
