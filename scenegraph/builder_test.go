package scenegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/unity2o3de/scenegraph"
	"github.com/mogaika/unity2o3de/unity/anchordoc"
)

func parse(t *testing.T, text string) *anchordoc.Set {
	t.Helper()
	set, err := anchordoc.Parse([]byte(text))
	require.NoError(t, err)
	return set
}

// Transform anchors (2xx) and GameObject anchors (1xx) are separate
// numbering spaces; the builder must cross-map the parent links.
const hierarchyScene = `--- !u!1 &100
GameObject:
  m_Name: Root
--- !u!4 &200
Transform:
  m_GameObject: {fileID: 100}
  m_LocalPosition: {x: 0, y: 0, z: 0}
  m_LocalRotation: {x: 0, y: 0, z: 0, w: 1}
  m_LocalScale: {x: 1, y: 1, z: 1}
  m_Father: {fileID: 0}
  m_Children:
  - {fileID: 201}
--- !u!1 &101
GameObject:
  m_Name: Child
--- !u!4 &201
Transform:
  m_GameObject: {fileID: 101}
  m_LocalPosition: {x: 1, y: 2, z: 3}
  m_LocalRotation: {x: 0, y: 0, z: 0, w: 1}
  m_LocalScale: {x: 1, y: 1, z: 1}
  m_Father: {fileID: 200}
`

func TestBuildCrossMapsAnchors(t *testing.T) {
	g, err := scenegraph.Build(parse(t, hierarchyScene))
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	root := g.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Root", root.Name)
	assert.Equal(t, "", root.Parent)

	child := g.Node("101")
	require.NotNil(t, child)
	assert.Equal(t, "100", child.Parent)
	assert.Equal(t, float32(3), child.Transform.Position[2])

	assert.Equal(t, []string{"101"}, g.Children("100"))
}

func TestBuildDanglingParentBecomesRoot(t *testing.T) {
	scene := `--- !u!1 &100
GameObject:
  m_Name: Orphan
--- !u!4 &200
Transform:
  m_GameObject: {fileID: 100}
  m_Father: {fileID: 999}
`
	g, err := scenegraph.Build(parse(t, scene))
	require.NoError(t, err)
	assert.Equal(t, "Orphan", g.Root().Name)
	assert.Equal(t, "", g.Root().Parent)
}

func TestBuildMultipleRootsPicksFirst(t *testing.T) {
	scene := `--- !u!1 &100
GameObject:
  m_Name: First
--- !u!4 &200
Transform:
  m_GameObject: {fileID: 100}
  m_Father: {fileID: 0}
--- !u!1 &101
GameObject:
  m_Name: Second
--- !u!4 &201
Transform:
  m_GameObject: {fileID: 101}
  m_Father: {fileID: 0}
`
	g, err := scenegraph.Build(parse(t, scene))
	require.NoError(t, err)
	assert.Equal(t, "First", g.Root().Name)
}

func TestBuildParentCycleIsBroken(t *testing.T) {
	scene := `--- !u!1 &100
GameObject:
  m_Name: A
--- !u!4 &200
Transform:
  m_GameObject: {fileID: 100}
  m_Father: {fileID: 201}
--- !u!1 &101
GameObject:
  m_Name: B
--- !u!4 &201
Transform:
  m_GameObject: {fileID: 101}
  m_Father: {fileID: 200}
`
	g, err := scenegraph.Build(parse(t, scene))
	require.NoError(t, err)
	require.NotNil(t, g.Root())
	// one of the two links was cut, the other survives
	a, b := g.Node("100"), g.Node("101")
	assert.True(t, (a.Parent == "" && b.Parent == "100") || (b.Parent == "" && a.Parent == "101"))
}

func TestBuildComponentsAttachToOwner(t *testing.T) {
	scene := `--- !u!1 &100
GameObject:
  m_Name: Crate
--- !u!4 &200
Transform:
  m_GameObject: {fileID: 100}
--- !u!33 &300
MeshFilter:
  m_GameObject: {fileID: 100}
  m_Mesh: {fileID: 1, guid: aaaa1111}
--- !u!23 &301
MeshRenderer:
  m_GameObject: {fileID: 100}
  m_Materials:
  - {fileID: 2, guid: bbbb2222}
  - {fileID: 2, guid: cccc3333}
--- !u!54 &302
Rigidbody:
  m_GameObject: {fileID: 100}
  m_Mass: 5
  m_UseGravity: 1
  m_Constraints: 84
--- !u!65 &303
BoxCollider:
  m_GameObject: {fileID: 100}
  m_Size: {x: 2, y: 1, z: 1}
--- !u!136 &304
CapsuleCollider:
  m_GameObject: {fileID: 100}
  m_Radius: 0.5
  m_Height: 2
  m_Direction: 0
`
	g, err := scenegraph.Build(parse(t, scene))
	require.NoError(t, err)

	n := g.Node("100")
	require.NotNil(t, n)
	assert.Equal(t, "aaaa1111", n.MeshGUID)
	assert.Equal(t, []string{"bbbb2222", "cccc3333"}, n.MaterialGUIDs)

	require.NotNil(t, n.Body)
	assert.Equal(t, float32(5), n.Body.Mass)
	assert.True(t, n.Body.UseGravity)
	assert.Equal(t, uint32(84), n.Body.Constraints)

	require.Len(t, n.Colliders, 2)
	assert.Equal(t, scenegraph.COLLIDER_BOX, n.Colliders[0].Kind)
	assert.Equal(t, float32(2), n.Colliders[0].Size[0])
	assert.Equal(t, scenegraph.COLLIDER_CAPSULE, n.Colliders[1].Kind)
	assert.Equal(t, 0, n.Colliders[1].Axis)
}

func TestBuildPrefabInstanceModifications(t *testing.T) {
	scene := `--- !u!1 &100
GameObject:
  m_Name: Root
--- !u!4 &200
Transform:
  m_GameObject: {fileID: 100}
  m_Father: {fileID: 0}
--- !u!1001 &400
PrefabInstance:
  m_SourcePrefab: {fileID: 100100000, guid: dddd4444}
  m_Modification:
    m_TransformParent: {fileID: 200}
    m_Modifications:
    - target: {fileID: 400001}
      propertyPath: m_Name
      value: Barrel (2)
    - target: {fileID: 400001}
      propertyPath: m_LocalPosition.x
      value: 4
    - target: {fileID: 400001}
      propertyPath: m_LocalPosition.z
      value: -1.5
`
	g, err := scenegraph.Build(parse(t, scene))
	require.NoError(t, err)

	inst := g.Node("400")
	require.NotNil(t, inst)
	assert.True(t, inst.IsInstance)
	assert.Equal(t, "dddd4444", inst.SourceGUID)
	assert.Equal(t, "Barrel (2)", inst.Name)
	assert.Equal(t, "100", inst.Parent)
	assert.Equal(t, float32(4), inst.Transform.Position[0])
	assert.Equal(t, float32(0), inst.Transform.Position[1])
	assert.Equal(t, float32(-1.5), inst.Transform.Position[2])
	assert.Equal(t, float32(1), inst.Transform.Rotation.W)
}

func TestBuildEmptySetFails(t *testing.T) {
	scene := `--- !u!9999 &100
SomethingElse:
  m_Value: 1
`
	_, err := scenegraph.Build(parse(t, scene))
	assert.Error(t, err)
}
