package prefab

import (
	"github.com/go-gl/mathgl/mgl32"
)

const TRANSFORM_COMPONENT_TYPE = "{27F1E1A1-8D9D-4C3B-BD3A-AFB9762449C0} TransformComponent"

const CONTAINER_ENTITY_ID = "ContainerEntity"

// INVALID_PARENT is the "no parent yet" sentinel of the transform component.
const INVALID_PARENT = ""

func vecSlice(v mgl32.Vec3) []float32 {
	return []float32{v[0], v[1], v[2]}
}

func newComponent(g *IdGen, typeName string) Component {
	return Component{
		"$type": typeName,
		"Id":    g.ComponentId(),
	}
}

// TransformData is emitted only for non-identity transforms; each field is
// itself omitted when it equals its identity value.
type TransformData struct {
	Translate []float32   `json:"Translate,omitempty"`
	Rotate    []float32   `json:"Rotate,omitempty"`
	Scale     interface{} `json:"Scale,omitempty"`
}

func NewTransformComponent(g *IdGen, parentEntity string, data *TransformData) Component {
	c := newComponent(g, TRANSFORM_COMPONENT_TYPE)
	c["Parent Entity"] = parentEntity
	if data != nil {
		c["Transform Data"] = data
	}
	return c
}

func NewNonUniformScaleComponent(g *IdGen, scale mgl32.Vec3) Component {
	c := newComponent(g, "EditorNonUniformScaleComponent")
	c["Scale"] = vecSlice(scale)
	return c
}

func NewMeshComponent(g *IdGen, assetHint string) Component {
	c := newComponent(g, "AZ::Render::EditorMeshComponent")
	c["Controller"] = map[string]interface{}{
		"Configuration": map[string]interface{}{
			"ModelAsset": map[string]interface{}{
				"assetHint": assetHint,
			},
		},
	}
	return c
}

// NewMaterialComponent maps material asset hints to mesh slots; the slot
// key "{N}" addresses material index N of the model.
func NewMaterialComponent(g *IdGen, slots map[string]string) Component {
	materials := make(map[string]interface{}, len(slots))
	for slot, hint := range slots {
		materials[slot] = map[string]interface{}{
			"MaterialAsset": map[string]interface{}{
				"assetHint": hint,
			},
		}
	}
	c := newComponent(g, "EditorMaterialComponent")
	c["Controller"] = map[string]interface{}{
		"Configuration": map[string]interface{}{
			"materials": materials,
		},
	}
	return c
}

func NewEntitySortComponent(g *IdGen, childOrder []string) Component {
	c := newComponent(g, "EditorEntitySortComponent")
	c["Child Entity Order"] = childOrder
	return c
}

func NewStaticRigidBodyComponent(g *IdGen) Component {
	return newComponent(g, "EditorStaticRigidBodyComponent")
}

// RigidBodyConfig carries the translated dynamic body settings. Lock flags
// are already in target axis convention when this struct is built.
type RigidBodyConfig struct {
	Mass           float32 `json:"Mass"`
	LinearDamping  float32 `json:"Linear damping"`
	AngularDamping float32 `json:"Angular damping"`
	GravityEnabled bool    `json:"Gravity Enabled"`
	Kinematic      bool    `json:"Kinematic,omitempty"`

	LockLinearX  bool `json:"Lock Linear X,omitempty"`
	LockLinearY  bool `json:"Lock Linear Y,omitempty"`
	LockLinearZ  bool `json:"Lock Linear Z,omitempty"`
	LockAngularX bool `json:"Lock Angular X,omitempty"`
	LockAngularY bool `json:"Lock Angular Y,omitempty"`
	LockAngularZ bool `json:"Lock Angular Z,omitempty"`
}

func NewRigidBodyComponent(g *IdGen, cfg RigidBodyConfig) Component {
	c := newComponent(g, "EditorRigidBodyComponent")
	c["Configuration"] = cfg
	return c
}

func colliderConfiguration(trigger bool, offset []float32) map[string]interface{} {
	cfg := map[string]interface{}{
		"MaterialSlots": map[string]interface{}{
			"Slots": []map[string]interface{}{{"Name": "Entire object"}},
		},
	}
	if trigger {
		cfg["Trigger"] = true
	}
	if offset != nil {
		cfg["Position"] = offset
	}
	return cfg
}

// Shape colliders pair a shape component with an EditorShapeColliderComponent
// referencing the same dimensions.

func NewBoxShapeComponent(g *IdGen, dims mgl32.Vec3, offset []float32) Component {
	cfg := map[string]interface{}{"Dimensions": vecSlice(dims)}
	if offset != nil {
		cfg["TranslationOffset"] = offset
	}
	c := newComponent(g, "EditorBoxShapeComponent")
	c["BoxShape"] = map[string]interface{}{"Configuration": cfg}
	return c
}

func NewSphereShapeComponent(g *IdGen, radius float32, offset []float32) Component {
	cfg := map[string]interface{}{"Radius": radius}
	if offset != nil {
		cfg["TranslationOffset"] = offset
	}
	c := newComponent(g, "EditorSphereShapeComponent")
	c["SphereShape"] = map[string]interface{}{"Configuration": cfg}
	return c
}

func NewCapsuleShapeComponent(g *IdGen, height, radius float32, offset []float32) Component {
	cfg := map[string]interface{}{"Height": height, "Radius": radius}
	if offset != nil {
		cfg["TranslationOffset"] = offset
	}
	c := newComponent(g, "EditorCapsuleShapeComponent")
	c["CapsuleShape"] = map[string]interface{}{"Configuration": cfg}
	return c
}

func NewShapeColliderComponent(g *IdGen, trigger bool, offset []float32, shapeConfig map[string]interface{}) Component {
	c := newComponent(g, "EditorShapeColliderComponent")
	c["ColliderConfiguration"] = colliderConfiguration(trigger, offset)
	c["ShapeConfigs"] = []map[string]interface{}{shapeConfig}
	return c
}

// NewMeshColliderComponent references an already-baked physics mesh asset;
// physicsAssetHint may be empty when no mesh reference resolved.
func NewMeshColliderComponent(g *IdGen, trigger bool, physicsAssetHint string) Component {
	c := newComponent(g, "EditorMeshColliderComponent")
	c["ColliderConfiguration"] = colliderConfiguration(trigger, nil)
	if physicsAssetHint != "" {
		c["ShapeConfiguration"] = map[string]interface{}{
			"PhysicsAsset": map[string]interface{}{
				"Asset": map[string]interface{}{
					"assetHint": physicsAssetHint,
				},
				"Configuration": map[string]interface{}{
					"PhysicsAsset": map[string]interface{}{
						"loadBehavior": "QueueLoad",
						"assetHint":    physicsAssetHint,
					},
				},
			},
		}
	}
	return c
}

// editor bookkeeping components shared by every emitted entity
var plainEditorComponents = []string{
	"EditorDisabledCompositionComponent",
	"EditorEntityIconComponent",
	"EditorInspectorComponent",
	"EditorLockComponent",
	"EditorPendingCompositionComponent",
	"EditorVisibilityComponent",
}

// NewEntity creates an entity with the editor bookkeeping component set
// every plain entity carries.
func NewEntity(g *IdGen, id, name string) *Entity {
	e := &Entity{
		Id:         id,
		Name:       name,
		Components: make(map[string]Component),
	}
	for _, name := range plainEditorComponents {
		e.Components[name] = newComponent(g, name)
	}
	return e
}

// NewContainerEntity creates the document root entity; it additionally
// marks the document as a prefab and is editor-only.
func NewContainerEntity(g *IdGen, name string) *Entity {
	e := NewEntity(g, CONTAINER_ENTITY_ID, name)
	e.Components["EditorOnlyEntityComponent"] = newComponent(g, "EditorOnlyEntityComponent")
	e.Components["EditorOnlyEntityComponent"]["IsEditorOnly"] = true
	e.Components["EditorPrefabComponent"] = newComponent(g, "EditorPrefabComponent")
	e.Components["EditorEntitySortComponent"] = NewEntitySortComponent(g, []string{})
	e.Components["TransformComponent"] = NewTransformComponent(g, INVALID_PARENT, nil)
	return e
}
