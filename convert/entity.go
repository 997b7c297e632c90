package convert

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/unity2o3de/config"
	"github.com/mogaika/unity2o3de/coords"
	"github.com/mogaika/unity2o3de/o3de/prefab"
	"github.com/mogaika/unity2o3de/scenegraph"
)

// emitNode serializes one graph node (and, depth-first, its subtree) into
// the document. Returns the child-order reference recorded in the parent:
// the entity id, or "Instance_[N]/ContainerEntity" for instance nodes.
func (c *Converter) emitNode(g *scenegraph.Graph, key string, doc *prefab.Prefab, parentEntityId string) string {
	node := g.Node(key)

	if node.IsInstance {
		if sourcePath, ok := c.Prefabs.ResolveInstance(node.SourceGUID, node.Name); ok {
			instanceId := c.ids.InstanceId()
			doc.Instances[instanceId] = c.buildInstance(node, sourcePath, parentEntityId)
			c.sum.Instances++
			return instanceId + "/" + prefab.CONTAINER_ENTITY_ID
		}
		// unresolved references degrade to a plain entity carrying the
		// transform; the miss is recorded by the resolver
	}

	entityId := c.ids.EntityId()
	entity := prefab.NewEntity(c.ids, entityId, node.Name)

	target, nonuniform := coords.ToO3DE(node.Transform)
	entity.Components["TransformComponent"] = prefab.NewTransformComponent(
		c.ids, parentEntityId, transformData(target, nonuniform))
	if nonuniform {
		entity.Components["EditorNonUniformScaleComponent"] = prefab.NewNonUniformScaleComponent(c.ids, target.Scale)
	}

	modelHint := ""
	if node.MeshGUID != "" {
		if hint, ok := c.Meshes.ProcessMesh(node.MeshGUID); ok {
			modelHint = hint
			entity.Components["AZ::Render::EditorMeshComponent"] = prefab.NewMeshComponent(c.ids, hint)
		} else {
			c.sum.UnresolvedRefs++
		}
	}

	if len(node.MaterialGUIDs) > 0 {
		// slot index = position in the source list; unresolved slots are
		// omitted without blocking the entity
		slots := make(map[string]string)
		for idx, guid := range node.MaterialGUIDs {
			if hint, ok := c.Materials.ProcessMaterial(guid); ok {
				slots[fmt.Sprintf("{%d}", idx)] = hint
			} else {
				c.sum.UnresolvedRefs++
			}
		}
		if len(slots) > 0 {
			entity.Components["EditorMaterialComponent"] = prefab.NewMaterialComponent(c.ids, slots)
		}
	}

	colliderChildIds := c.emitPhysics(node, entity, doc, modelHint)

	childOrder := make([]string, 0)
	for _, childKey := range g.Children(key) {
		childOrder = append(childOrder, c.emitNode(g, childKey, doc, entityId))
	}
	// synthetic collider children come after real children
	childOrder = append(childOrder, colliderChildIds...)

	if len(childOrder) > 0 {
		entity.Components["EditorEntitySortComponent"] = prefab.NewEntitySortComponent(c.ids, childOrder)
	}

	doc.Entities[entityId] = entity
	c.sum.Entities++
	return entityId
}

// transformData builds the optional Transform Data block. It is omitted
// entirely when the converted transform is identity; the decision uses the
// target-space values, never the source ones.
func transformData(target coords.Transform, nonuniform bool) *prefab.TransformData {
	euler := coords.QuatToEulerDegrees(target.Rotation)

	hasTranslation := hasOffset(target.Position)
	hasRotation := hasOffset(euler)
	hasScale := !nonuniform && absf(target.Scale[0]-1) > coords.SCALE_TOLERANCE

	if !hasTranslation && !hasRotation && !hasScale {
		return nil
	}

	td := &prefab.TransformData{}
	if hasTranslation {
		td.Translate = vecSlice(target.Position)
	}
	if hasRotation {
		td.Rotate = vecSlice(euler)
	}
	if hasScale {
		td.Scale = target.Scale[0]
	}
	return td
}

func vecSlice(v mgl32.Vec3) []float32 {
	return []float32{v[0], v[1], v[2]}
}

// buildInstance emits a reference to an externally converted document plus
// the patch list overriding its parent link and non-zero translation.
func (c *Converter) buildInstance(node *scenegraph.Node, sourcePath, parentEntityId string) *prefab.Instance {
	target, _ := coords.ToO3DE(node.Transform)

	patches := []prefab.Patch{{
		Op:    "replace",
		Path:  "/ContainerEntity/Components/TransformComponent/Parent Entity",
		Value: "../" + parentEntityId,
	}}

	if hasOffset(target.Position) {
		for i := 0; i < 3; i++ {
			patches = append(patches, prefab.Patch{
				Op:    "replace",
				Path:  fmt.Sprintf("/ContainerEntity/Components/TransformComponent/Transform Data/Translate/%d", i),
				Value: target.Position[i],
			})
		}
	}

	return &prefab.Instance{
		Source:  config.GetProjectName() + "/prefabs/" + filepath.Base(sourcePath),
		Patches: patches,
	}
}
