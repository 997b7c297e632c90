package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/unity2o3de/coords"
)

type ColliderKind int

const (
	COLLIDER_BOX ColliderKind = iota
	COLLIDER_SPHERE
	COLLIDER_CAPSULE
	COLLIDER_MESH
)

func (k ColliderKind) String() string {
	switch k {
	case COLLIDER_BOX:
		return "box"
	case COLLIDER_SPHERE:
		return "sphere"
	case COLLIDER_CAPSULE:
		return "capsule"
	case COLLIDER_MESH:
		return "mesh"
	}
	return "unknown"
}

// Collider is a tagged variant: only the fields of its Kind are meaningful.
type Collider struct {
	Kind      ColliderKind
	IsTrigger bool
	Center    mgl32.Vec3 // source space, remapped at synthesis time

	Size mgl32.Vec3 // box

	Radius float32 // sphere, capsule
	Height float32 // capsule
	Axis   int     // capsule long axis, source convention: 0=X 1=Y 2=Z

	MeshGUID string // mesh
	Convex   bool   // mesh
}

type RigidBody struct {
	Mass        float32
	Drag        float32
	AngularDrag float32
	UseGravity  bool
	Kinematic   bool
	Constraints uint32 // source bitmask, remapped at synthesis time
}

// Node is one scene object of the reconstructed hierarchy. Parent is the
// single authoritative link; children are always derived from it.
type Node struct {
	Key  string // GameObject anchor within the source file
	Name string

	Transform coords.Transform // source coordinate space

	Parent string // "" = root

	MeshGUID      string
	MaterialGUIDs []string // slot index = position
	Colliders     []Collider
	Body          *RigidBody

	// Instance nodes reference an external prefab instead of owning
	// components of their own.
	IsInstance bool
	SourceGUID string
}

type Graph struct {
	nodes map[string]*Node
	order []string
	root  string

	declaredChildren map[string][]string
}

func (g *Graph) Node(key string) *Node { return g.nodes[key] }

func (g *Graph) Root() *Node { return g.nodes[g.root] }

func (g *Graph) Len() int { return len(g.order) }

// Keys returns node keys in source document order.
func (g *Graph) Keys() []string { return g.order }

// Children derives the child list of key: declared sibling order first,
// restricted to nodes whose parent link agrees, then any remaining nodes
// parented here, in document order. The parent declaration always wins
// over a stale children list.
func (g *Graph) Children(key string) []string {
	seen := make(map[string]bool)
	children := make([]string, 0)
	for _, child := range g.declaredChildren[key] {
		if node := g.nodes[child]; node != nil && node.Parent == key && !seen[child] {
			children = append(children, child)
			seen[child] = true
		}
	}
	for _, child := range g.order {
		if child == key || seen[child] {
			continue
		}
		if node := g.nodes[child]; node != nil && node.Parent == key {
			children = append(children, child)
			seen[child] = true
		}
	}
	return children
}
