package convert

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/unity2o3de/coords"
	"github.com/mogaika/unity2o3de/meshproc"
	"github.com/mogaika/unity2o3de/o3de/prefab"
	"github.com/mogaika/unity2o3de/scenegraph"
)

// Source rigid-body constraint bitmask.
const (
	CONSTRAINT_POS_X = 1 << 1
	CONSTRAINT_POS_Y = 1 << 2
	CONSTRAINT_POS_Z = 1 << 3
	CONSTRAINT_ROT_X = 1 << 4
	CONSTRAINT_ROT_Y = 1 << 5
	CONSTRAINT_ROT_Z = 1 << 6
)

// translateConstraints converts the source constraint bitmask into discrete
// lock flags. The Y and Z bits swap to stay consistent with the Y/Z axis
// swap applied to positions and scales.
func translateConstraints(mask uint32, cfg *prefab.RigidBodyConfig) {
	cfg.LockLinearX = mask&CONSTRAINT_POS_X != 0
	cfg.LockLinearZ = mask&CONSTRAINT_POS_Y != 0
	cfg.LockLinearY = mask&CONSTRAINT_POS_Z != 0
	cfg.LockAngularX = mask&CONSTRAINT_ROT_X != 0
	cfg.LockAngularZ = mask&CONSTRAINT_ROT_Y != 0
	cfg.LockAngularY = mask&CONSTRAINT_ROT_Z != 0
}

func hasOffset(v mgl32.Vec3) bool {
	return absf(v[0]) > coords.SCALE_TOLERANCE ||
		absf(v[1]) > coords.SCALE_TOLERANCE ||
		absf(v[2]) > coords.SCALE_TOLERANCE
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// capsuleAxisName maps the source capsule long axis (0=X 1=Y 2=Z) into the
// target convention after the Y/Z swap. Target capsules default to Z.
func capsuleAxisName(axis int) string {
	switch axis {
	case 0:
		return "X"
	case 2: // source Z becomes target Y
		return "Y"
	default: // source Y becomes target Z
		return "Z"
	}
}

// emitPhysics attaches collider and rigid-body components. The target
// component model allows one collider per entity: collider 0 stays on the
// primary entity, colliders 1..N-1 fan out into synthetic child entities.
// Returns ids of the synthetic children, in collider order.
func (c *Converter) emitPhysics(node *scenegraph.Node, entity *prefab.Entity, doc *prefab.Prefab, modelHint string) []string {
	if len(node.Colliders) == 0 && node.Body == nil {
		return nil
	}

	childIds := make([]string, 0)

	for idx, col := range node.Colliders {
		target := entity
		if idx > 0 {
			childId := c.ids.EntityId()
			child := prefab.NewEntity(c.ids, childId, fmt.Sprintf("%s_Collider_%d", node.Name, idx))
			child.Components["TransformComponent"] = prefab.NewTransformComponent(c.ids, entity.Id, nil)
			if node.Body == nil {
				child.Components["EditorStaticRigidBodyComponent"] = prefab.NewStaticRigidBodyComponent(c.ids)
			}
			doc.Entities[childId] = child
			childIds = append(childIds, childId)
			target = child
		}

		c.emitCollider(target, col, modelHint)
		c.sum.Colliders++
	}

	if node.Body != nil {
		body := node.Body
		cfg := prefab.RigidBodyConfig{
			Mass:           body.Mass,
			LinearDamping:  body.Drag,
			AngularDamping: body.AngularDrag,
			GravityEnabled: body.UseGravity,
			Kinematic:      body.Kinematic,
		}
		translateConstraints(body.Constraints, &cfg)
		entity.Components["EditorRigidBodyComponent"] = prefab.NewRigidBodyComponent(c.ids, cfg)
		c.sum.RigidBodies++
	} else if len(node.Colliders) > 0 {
		// colliders without a declared body still participate in
		// collision as static geometry
		entity.Components["EditorStaticRigidBodyComponent"] = prefab.NewStaticRigidBodyComponent(c.ids)
		c.sum.StaticBodies++
	}

	return childIds
}

func (c *Converter) emitCollider(entity *prefab.Entity, col scenegraph.Collider, modelHint string) {
	// collider offsets follow the same axis remap as positions
	center := coords.RemapPoint(col.Center)
	var offset []float32
	if hasOffset(center) {
		offset = []float32{center[0], center[1], center[2]}
	}

	switch col.Kind {
	case scenegraph.COLLIDER_BOX:
		dims := coords.RemapScale(col.Size)
		entity.Components["EditorBoxShapeComponent"] = prefab.NewBoxShapeComponent(c.ids, dims, offset)
		entity.Components["EditorShapeColliderComponent"] = prefab.NewShapeColliderComponent(
			c.ids, col.IsTrigger, offset, map[string]interface{}{
				"$type":         "BoxShapeConfiguration",
				"Configuration": []float32{dims[0], dims[1], dims[2]},
			})

	case scenegraph.COLLIDER_SPHERE:
		entity.Components["EditorSphereShapeComponent"] = prefab.NewSphereShapeComponent(c.ids, col.Radius, offset)
		entity.Components["EditorShapeColliderComponent"] = prefab.NewShapeColliderComponent(
			c.ids, col.IsTrigger, offset, map[string]interface{}{
				"$type":  "SphereShapeConfiguration",
				"Radius": col.Radius,
			})

	case scenegraph.COLLIDER_CAPSULE:
		shape := prefab.NewCapsuleShapeComponent(c.ids, col.Height, col.Radius, offset)
		if axis := capsuleAxisName(col.Axis); axis != "Z" {
			shape["CapsuleShape"].(map[string]interface{})["Configuration"].(map[string]interface{})["Axis"] = axis
		}
		entity.Components["EditorCapsuleShapeComponent"] = shape
		entity.Components["EditorShapeColliderComponent"] = prefab.NewShapeColliderComponent(
			c.ids, col.IsTrigger, offset, map[string]interface{}{
				"$type":  "CapsuleShapeConfiguration",
				"Height": col.Height,
				"Radius": col.Radius,
			})

	case scenegraph.COLLIDER_MESH:
		// the physics mesh derives from the collider's own mesh when set,
		// otherwise from the render mesh
		physicsHint := ""
		if col.MeshGUID != "" {
			if hint, ok := c.Meshes.ProcessMesh(col.MeshGUID); ok {
				physicsHint = meshproc.PhysicsHint(hint)
			}
		}
		if physicsHint == "" && modelHint != "" {
			physicsHint = meshproc.PhysicsHint(modelHint)
		}
		if physicsHint == "" {
			log.Printf("[convert] Mesh collider on %q has no resolvable mesh", entity.Name)
		}
		entity.Components["EditorMeshColliderComponent"] = prefab.NewMeshColliderComponent(c.ids, col.IsTrigger, physicsHint)
	}
}
