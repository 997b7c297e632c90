package scenegraph

import (
	"log"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mogaika/unity2o3de/coords"
	"github.com/mogaika/unity2o3de/unity/anchordoc"
)

// Build reassembles the entity hierarchy from a parsed anchor document set.
// Record problems are logged and skipped; the only errors are an empty
// graph or a graph with no root, which abandon the file (caller decides).
func Build(set *anchordoc.Set) (*Graph, error) {
	b := &builder{
		graph: &Graph{
			nodes:            make(map[string]*Node),
			declaredChildren: make(map[string][]string),
		},
		transformToGO:  make(map[string]string),
		pendingParent:  make(map[string]string),
		pendingChilds:  make(map[string][]string),
		instanceGUID:   make(map[string]string),
		pendingViaInst: make(map[string]string),
	}

	for _, anchor := range set.Anchors() {
		b.collect(set.Get(anchor))
	}
	return b.resolve()
}

type builder struct {
	graph *Graph

	// Transform anchors and GameObject anchors live in different
	// numbering spaces; this is the cross-map.
	transformToGO map[string]string

	pendingParent map[string]string   // node key -> parent transform anchor
	pendingChilds map[string][]string // node key -> child transform anchors

	instanceGUID   map[string]string // PrefabInstance anchor -> source guid
	pendingViaInst map[string]string // node key -> PrefabInstance anchor
}

func (b *builder) node(key string) *Node {
	if n, ok := b.graph.nodes[key]; ok {
		return n
	}
	n := &Node{Key: key, Transform: coords.Identity()}
	b.graph.nodes[key] = n
	b.graph.order = append(b.graph.order, key)
	return n
}

func (b *builder) collect(doc *anchordoc.Document) {
	warn := func(err error) {
		log.Printf("[scenegraph] Skipping %s &%s: %v", doc.Kind, doc.Anchor, err)
	}

	switch doc.Kind {
	case "GameObject":
		rec := anchordoc.NewGameObjectRecord()
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		n := b.node(doc.Anchor)
		n.Name = rec.Name
		if !rec.CorrespondingSourceObject.IsZero() {
			n.IsInstance = true
			switch {
			case rec.PrefabAsset.GUID != "":
				n.SourceGUID = rec.PrefabAsset.GUID
			case rec.CorrespondingSourceObject.GUID != "":
				n.SourceGUID = rec.CorrespondingSourceObject.GUID
			case !rec.PrefabInstance.IsZero():
				b.pendingViaInst[doc.Anchor] = rec.PrefabInstance.Anchor()
			}
		}

	case "Transform", "RectTransform":
		rec := anchordoc.NewTransformRecord()
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		if rec.GameObject.IsZero() {
			return
		}
		key := rec.GameObject.Anchor()
		b.transformToGO[doc.Anchor] = key

		n := b.node(key)
		n.Transform = coords.Transform{
			Position: rec.LocalPosition.Vec3(),
			Rotation: rec.LocalRotation.Quat(),
			Scale:    rec.LocalScale.Vec3(),
		}
		if !rec.Father.IsZero() {
			b.pendingParent[key] = rec.Father.Anchor()
		}
		for _, child := range rec.Children {
			if !child.IsZero() {
				b.pendingChilds[key] = append(b.pendingChilds[key], child.Anchor())
			}
		}

	case "MeshFilter":
		var rec anchordoc.MeshFilterRecord
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		if rec.GameObject.IsZero() || rec.Mesh.GUID == "" {
			return
		}
		b.node(rec.GameObject.Anchor()).MeshGUID = rec.Mesh.GUID

	case "MeshRenderer":
		var rec anchordoc.MeshRendererRecord
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		if rec.GameObject.IsZero() {
			return
		}
		n := b.node(rec.GameObject.Anchor())
		for _, mat := range rec.Materials {
			if mat.GUID != "" {
				n.MaterialGUIDs = append(n.MaterialGUIDs, mat.GUID)
			}
		}

	case "Rigidbody":
		rec := anchordoc.NewRigidbodyRecord()
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		if rec.GameObject.IsZero() {
			return
		}
		b.node(rec.GameObject.Anchor()).Body = &RigidBody{
			Mass:        rec.Mass,
			Drag:        rec.Drag,
			AngularDrag: rec.AngularDrag,
			UseGravity:  rec.UseGravity != 0,
			Kinematic:   rec.IsKinematic != 0,
			Constraints: rec.Constraints,
		}

	case "BoxCollider":
		rec := anchordoc.NewBoxColliderRecord()
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		b.addCollider(rec.GameObject, Collider{
			Kind:      COLLIDER_BOX,
			IsTrigger: rec.IsTrigger != 0,
			Center:    rec.Center.Vec3(),
			Size:      rec.Size.Vec3(),
		})

	case "SphereCollider":
		rec := anchordoc.NewSphereColliderRecord()
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		b.addCollider(rec.GameObject, Collider{
			Kind:      COLLIDER_SPHERE,
			IsTrigger: rec.IsTrigger != 0,
			Center:    rec.Center.Vec3(),
			Radius:    rec.Radius,
		})

	case "CapsuleCollider":
		rec := anchordoc.NewCapsuleColliderRecord()
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		b.addCollider(rec.GameObject, Collider{
			Kind:      COLLIDER_CAPSULE,
			IsTrigger: rec.IsTrigger != 0,
			Center:    rec.Center.Vec3(),
			Radius:    rec.Radius,
			Height:    rec.Height,
			Axis:      rec.Direction,
		})

	case "MeshCollider":
		var rec anchordoc.MeshColliderRecord
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		b.addCollider(rec.GameObject, Collider{
			Kind:      COLLIDER_MESH,
			IsTrigger: rec.IsTrigger != 0,
			MeshGUID:  rec.Mesh.GUID,
			Convex:    rec.Convex != 0,
		})

	case "PrefabInstance":
		var rec anchordoc.PrefabInstanceRecord
		if err := doc.Decode(&rec); err != nil {
			warn(err)
			return
		}
		if rec.SourcePrefab.GUID == "" {
			warn(errors.Errorf("PrefabInstance without source guid"))
			return
		}
		b.instanceGUID[doc.Anchor] = rec.SourcePrefab.GUID

		n := b.node(doc.Anchor)
		n.IsInstance = true
		n.SourceGUID = rec.SourcePrefab.GUID
		n.Name, n.Transform = extractModifications(rec.Modification.Modifications)
		if !rec.Modification.TransformParent.IsZero() {
			b.pendingParent[doc.Anchor] = rec.Modification.TransformParent.Anchor()
		}

	default:
		// Unrecognized tags stay available in the document set by anchor.
	}
}

func (b *builder) addCollider(owner anchordoc.FileRef, c Collider) {
	if owner.IsZero() {
		return
	}
	n := b.node(owner.Anchor())
	n.Colliders = append(n.Colliders, c)
}

// extractModifications scans the flat (propertyPath, value) override list
// of a nested instance for its transform and display name, defaulting
// missing fields to identity.
func extractModifications(mods []anchordoc.PropertyModification) (string, coords.Transform) {
	name := "PrefabInstance"
	t := coords.Identity()

	setf := func(dst *float32, value string, def float32) {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			*dst = float32(f)
		} else {
			*dst = def
		}
	}

	for _, mod := range mods {
		switch mod.PropertyPath {
		case "m_Name":
			if mod.Value != "" {
				name = mod.Value
			}
		case "m_LocalPosition.x":
			setf(&t.Position[0], mod.Value, 0)
		case "m_LocalPosition.y":
			setf(&t.Position[1], mod.Value, 0)
		case "m_LocalPosition.z":
			setf(&t.Position[2], mod.Value, 0)
		case "m_LocalRotation.x":
			setf(&t.Rotation.V[0], mod.Value, 0)
		case "m_LocalRotation.y":
			setf(&t.Rotation.V[1], mod.Value, 0)
		case "m_LocalRotation.z":
			setf(&t.Rotation.V[2], mod.Value, 0)
		case "m_LocalRotation.w":
			setf(&t.Rotation.W, mod.Value, 1)
		case "m_LocalScale.x":
			setf(&t.Scale[0], mod.Value, 1)
		case "m_LocalScale.y":
			setf(&t.Scale[1], mod.Value, 1)
		case "m_LocalScale.z":
			setf(&t.Scale[2], mod.Value, 1)
		}
	}
	return name, t
}

func (b *builder) resolve() (*Graph, error) {
	g := b.graph

	if len(g.order) == 0 {
		return nil, errors.Errorf("Empty graph: no entity records")
	}

	// instance guids routed through a PrefabInstance reference
	for key, instAnchor := range b.pendingViaInst {
		if guid, ok := b.instanceGUID[instAnchor]; ok && g.nodes[key].SourceGUID == "" {
			g.nodes[key].SourceGUID = guid
		}
	}

	// rewrite parent links from transform anchors to entity anchors;
	// dangling references are dropped and the child becomes a root
	for _, key := range g.order {
		parentTransform, ok := b.pendingParent[key]
		if !ok {
			continue
		}
		parentKey, ok := b.transformToGO[parentTransform]
		if !ok || g.nodes[parentKey] == nil {
			log.Printf("[scenegraph] Dangling parent anchor &%s on node &%s, node becomes a root", parentTransform, key)
			continue
		}
		g.nodes[key].Parent = parentKey
	}

	// declared children, remapped into entity anchor space; kept only as
	// ordering hints, the parent link stays authoritative
	for key, childTransforms := range b.pendingChilds {
		for _, ct := range childTransforms {
			if childKey, ok := b.transformToGO[ct]; ok && g.nodes[childKey] != nil {
				g.declaredChildren[key] = append(g.declaredChildren[key], childKey)
			}
		}
	}

	b.breakCycles()

	roots := make([]string, 0, 1)
	for _, key := range g.order {
		if g.nodes[key].Parent == "" {
			roots = append(roots, key)
		}
	}
	if len(roots) == 0 {
		return nil, errors.Errorf("No root node found")
	}
	if len(roots) > 1 {
		log.Printf("[scenegraph] %d root nodes, using first &%s", len(roots), roots[0])
	}
	g.root = roots[0]

	return g, nil
}

// breakCycles walks every parent chain; the first node seen twice is on a
// cycle and has its parent link cut, turning the cycle into a rooted chain.
func (b *builder) breakCycles() {
	g := b.graph
	for _, key := range g.order {
		visited := map[string]bool{key: true}
		for cur := g.nodes[key].Parent; cur != ""; cur = g.nodes[cur].Parent {
			if visited[cur] {
				log.Printf("[scenegraph] Parent cycle through &%s, cutting link", cur)
				g.nodes[cur].Parent = ""
				break
			}
			visited[cur] = true
		}
	}
}
