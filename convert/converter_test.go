package convert_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/unity2o3de/config"
	"github.com/mogaika/unity2o3de/convert"
	"github.com/mogaika/unity2o3de/materials"
	"github.com/mogaika/unity2o3de/meshproc"
	"github.com/mogaika/unity2o3de/o3de/prefabdb"
	"github.com/mogaika/unity2o3de/unity/assetdb"
)

const testScene = `--- !u!1 &100
GameObject:
  m_Name: Level
--- !u!4 &200
Transform:
  m_GameObject: {fileID: 100}
  m_Father: {fileID: 0}
--- !u!1 &101
GameObject:
  m_Name: Crate
--- !u!4 &201
Transform:
  m_GameObject: {fileID: 101}
  m_LocalPosition: {x: 1, y: 2, z: 3}
  m_LocalRotation: {x: 0, y: 0, z: 0, w: 1}
  m_LocalScale: {x: 1, y: 1, z: 1}
  m_Father: {fileID: 200}
--- !u!65 &301
BoxCollider:
  m_GameObject: {fileID: 101}
  m_Size: {x: 1, y: 2, z: 3}
--- !u!135 &302
SphereCollider:
  m_GameObject: {fileID: 101}
  m_Radius: 0.5
--- !u!135 &303
SphereCollider:
  m_GameObject: {fileID: 101}
  m_Radius: 1.5
--- !u!1 &102
GameObject:
  m_Name: Ball
--- !u!4 &202
Transform:
  m_GameObject: {fileID: 102}
  m_Father: {fileID: 200}
--- !u!54 &304
Rigidbody:
  m_GameObject: {fileID: 102}
  m_Mass: 5
  m_UseGravity: 1
  m_Constraints: 4
--- !u!135 &305
SphereCollider:
  m_GameObject: {fileID: 102}
  m_Radius: 1
--- !u!1001 &400
PrefabInstance:
  m_SourcePrefab: {fileID: 100100000, guid: ffff9999}
  m_Modification:
    m_TransformParent: {fileID: 200}
    m_Modifications:
    - target: {fileID: 400001}
      propertyPath: m_Name
      value: Barrel (1)
`

func newTestConverter(t *testing.T) (*convert.Converter, string, string) {
	t.Helper()
	src := t.TempDir()
	out := t.TempDir()

	config.SetProjectName("testproject")

	scenePath := filepath.Join(src, "Scene.unity")
	require.NoError(t, os.WriteFile(scenePath, []byte(testScene), 0666))

	assets, err := assetdb.Build(src)
	require.NoError(t, err)

	c := convert.NewConverter(assets, prefabdb.New(),
		materials.NewTranslator(assets, out),
		meshproc.NewProcessor(assets, out, ""), out)
	return c, scenePath, out
}

func loadPrefab(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func entities(doc map[string]interface{}) map[string]interface{} {
	return doc["Entities"].(map[string]interface{})
}

func findEntity(doc map[string]interface{}, name string) (string, map[string]interface{}) {
	for id, raw := range entities(doc) {
		e := raw.(map[string]interface{})
		if e["Name"] == name {
			return id, e
		}
	}
	return "", nil
}

func components(e map[string]interface{}) map[string]interface{} {
	return e["Components"].(map[string]interface{})
}

func TestProcessFileWritesPrefab(t *testing.T) {
	c, scenePath, out := newTestConverter(t)
	require.NoError(t, c.ProcessFile(scenePath))

	doc := loadPrefab(t, filepath.Join(out, "Prefabs", "Scene.prefab"))
	require.NotNil(t, doc["ContainerEntity"])

	_, level := findEntity(doc, "Level")
	require.NotNil(t, level)

	sum := c.Summary()
	assert.Equal(t, 4, sum.Colliders)
	assert.Equal(t, 1, sum.RigidBodies)
	assert.Equal(t, 1, sum.StaticBodies)
	// Level, Crate, Ball and the degraded instance
	assert.Equal(t, 4, sum.Entities)
	assert.Len(t, entities(doc), 6)
}

func TestConvertedTranslation(t *testing.T) {
	c, scenePath, out := newTestConverter(t)
	require.NoError(t, c.ProcessFile(scenePath))
	doc := loadPrefab(t, filepath.Join(out, "Prefabs", "Scene.prefab"))

	_, crate := findEntity(doc, "Crate")
	require.NotNil(t, crate)

	tc := components(crate)["TransformComponent"].(map[string]interface{})
	td := tc["Transform Data"].(map[string]interface{})
	assert.Equal(t, []interface{}{-1.0, 3.0, 2.0}, td["Translate"].([]interface{}))
	// identity rotation and scale stay omitted
	assert.NotContains(t, td, "Rotate")
	assert.NotContains(t, td, "Scale")
}

func TestColliderFanOut(t *testing.T) {
	c, scenePath, out := newTestConverter(t)
	require.NoError(t, c.ProcessFile(scenePath))
	doc := loadPrefab(t, filepath.Join(out, "Prefabs", "Scene.prefab"))

	crateId, crate := findEntity(doc, "Crate")
	require.NotNil(t, crate)

	// collider 0 stays on the primary entity
	assert.Contains(t, components(crate), "EditorBoxShapeComponent")
	assert.Contains(t, components(crate), "EditorShapeColliderComponent")
	// colliders without a rigidbody participate as static geometry
	assert.Contains(t, components(crate), "EditorStaticRigidBodyComponent")

	for _, name := range []string{"Crate_Collider_1", "Crate_Collider_2"} {
		_, child := findEntity(doc, name)
		require.NotNil(t, child, "missing synthetic collider child %q", name)
		cs := components(child)
		assert.Contains(t, cs, "EditorSphereShapeComponent")
		assert.Contains(t, cs, "EditorStaticRigidBodyComponent")
		tc := cs["TransformComponent"].(map[string]interface{})
		assert.Equal(t, crateId, tc["Parent Entity"])
	}

	// synthetic children are listed after real children in the sort order
	sort := components(crate)["EditorEntitySortComponent"].(map[string]interface{})
	order := sort["Child Entity Order"].([]interface{})
	require.Len(t, order, 2)
}

func TestRigidBodyConstraints(t *testing.T) {
	c, scenePath, out := newTestConverter(t)
	require.NoError(t, c.ProcessFile(scenePath))
	doc := loadPrefab(t, filepath.Join(out, "Prefabs", "Scene.prefab"))

	_, ball := findEntity(doc, "Ball")
	require.NotNil(t, ball)
	cs := components(ball)

	body := cs["EditorRigidBodyComponent"].(map[string]interface{})
	cfg := body["Configuration"].(map[string]interface{})
	assert.Equal(t, 5.0, cfg["Mass"])
	// source Y lock lands on the target Z axis
	assert.Equal(t, true, cfg["Lock Linear Z"])
	assert.NotContains(t, cfg, "Lock Linear Y")
	assert.NotContains(t, cfg, "Lock Linear X")

	// a dynamic body precludes the static marker
	assert.NotContains(t, cs, "EditorStaticRigidBodyComponent")
}

func TestMissingInstanceDegrades(t *testing.T) {
	c, scenePath, out := newTestConverter(t)
	require.NoError(t, c.ProcessFile(scenePath))
	doc := loadPrefab(t, filepath.Join(out, "Prefabs", "Scene.prefab"))

	// the unresolvable reference becomes a plain named entity
	_, barrel := findEntity(doc, "Barrel (1)")
	require.NotNil(t, barrel)
	assert.Empty(t, doc["Instances"])

	assert.Equal(t, []string{"Barrel (1)"}, c.Prefabs.Missing())
}

func TestInstanceResolvedWithinRun(t *testing.T) {
	c, scenePath, out := newTestConverter(t)

	// a prior conversion of the referenced prefab makes the guid resolvable
	c.Prefabs.Register("ffff9999", "Barrel", filepath.Join(out, "Prefabs", "Barrel.prefab"))

	require.NoError(t, c.ProcessFile(scenePath))
	doc := loadPrefab(t, filepath.Join(out, "Prefabs", "Scene.prefab"))

	instances := doc["Instances"].(map[string]interface{})
	require.Len(t, instances, 1)
	for id, raw := range instances {
		assert.True(t, strings.HasPrefix(id, "Instance_["))
		inst := raw.(map[string]interface{})
		assert.Equal(t, "testproject/prefabs/Barrel.prefab", inst["Source"])

		patches := inst["Patches"].([]interface{})
		require.NotEmpty(t, patches)
		parent := patches[0].(map[string]interface{})
		assert.Equal(t, "replace", parent["op"])
		assert.Equal(t, "/ContainerEntity/Components/TransformComponent/Parent Entity", parent["path"])
		assert.True(t, strings.HasPrefix(parent["value"].(string), "../Entity_["))
	}

	_, barrel := findEntity(doc, "Barrel (1)")
	assert.Nil(t, barrel)
}

// Summary and resolver lookups are what the web handlers call while a run
// is in progress; they must be safe against the conversion goroutine.
func TestSummaryConcurrentWithConversion(t *testing.T) {
	c, scenePath, _ := newTestConverter(t)

	stop := make(chan struct{})
	readsDone := make(chan struct{})
	go func() {
		defer close(readsDone)
		for {
			select {
			case <-stop:
				return
			default:
				c.Summary()
				c.Prefabs.Missing()
			}
		}
	}()

	for i := 0; i < 20; i++ {
		require.NoError(t, c.ProcessFile(scenePath))
	}
	close(stop)
	<-readsDone

	assert.Equal(t, 80, c.Summary().Entities)
}

// Converting the same input through two fresh converters yields identical
// documents: ids restart from the base counter and component ids come from
// a reseeded source.
func TestRepeatedConversionIsIdentical(t *testing.T) {
	c1, scene1, out1 := newTestConverter(t)
	require.NoError(t, c1.ProcessFile(scene1))
	first, err := os.ReadFile(filepath.Join(out1, "Prefabs", "Scene.prefab"))
	require.NoError(t, err)

	c2, scene2, out2 := newTestConverter(t)
	require.NoError(t, c2.ProcessFile(scene2))
	second, err := os.ReadFile(filepath.Join(out2, "Prefabs", "Scene.prefab"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestContainerSortReferencesRoot(t *testing.T) {
	c, scenePath, out := newTestConverter(t)
	require.NoError(t, c.ProcessFile(scenePath))
	doc := loadPrefab(t, filepath.Join(out, "Prefabs", "Scene.prefab"))

	container := doc["ContainerEntity"].(map[string]interface{})
	sort := components(container)["EditorEntitySortComponent"].(map[string]interface{})
	order := sort["Child Entity Order"].([]interface{})
	require.Len(t, order, 1)

	levelId, _ := findEntity(doc, "Level")
	assert.Equal(t, levelId, order[0])
}
