package anchordoc

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// FileRef is how Unity documents point at each other: a document-local
// anchor plus an optional cross-file GUID.
type FileRef struct {
	FileID int64  `yaml:"fileID"`
	GUID   string `yaml:"guid"`
}

func (r FileRef) Anchor() string { return strconv.FormatInt(r.FileID, 10) }

// IsZero reports the "no reference" convention (fileID 0).
func (r FileRef) IsZero() bool { return r.FileID == 0 }

type Vector3 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

func (v Vector3) Vec3() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

type Quaternion struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
	W float32 `yaml:"w"`
}

func (q Quaternion) Quat() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

type TransformRecord struct {
	GameObject    FileRef    `yaml:"m_GameObject"`
	LocalRotation Quaternion `yaml:"m_LocalRotation"`
	LocalPosition Vector3    `yaml:"m_LocalPosition"`
	LocalScale    Vector3    `yaml:"m_LocalScale"`
	Children      []FileRef  `yaml:"m_Children"`
	Father        FileRef    `yaml:"m_Father"`
}

func NewTransformRecord() TransformRecord {
	return TransformRecord{
		LocalRotation: Quaternion{W: 1},
		LocalScale:    Vector3{X: 1, Y: 1, Z: 1},
	}
}

type ComponentEntry struct {
	Component FileRef `yaml:"component"`
}

type GameObjectRecord struct {
	Name                      string           `yaml:"m_Name"`
	Component                 []ComponentEntry `yaml:"m_Component"`
	CorrespondingSourceObject FileRef          `yaml:"m_CorrespondingSourceObject"`
	PrefabInstance            FileRef          `yaml:"m_PrefabInstance"`
	PrefabAsset               FileRef          `yaml:"m_PrefabAsset"`
}

func NewGameObjectRecord() GameObjectRecord {
	return GameObjectRecord{Name: "GameObject"}
}

type MeshFilterRecord struct {
	GameObject FileRef `yaml:"m_GameObject"`
	Mesh       FileRef `yaml:"m_Mesh"`
}

type MeshRendererRecord struct {
	GameObject FileRef   `yaml:"m_GameObject"`
	Materials  []FileRef `yaml:"m_Materials"`
}

type RigidbodyRecord struct {
	GameObject  FileRef `yaml:"m_GameObject"`
	Mass        float32 `yaml:"m_Mass"`
	Drag        float32 `yaml:"m_Drag"`
	AngularDrag float32 `yaml:"m_AngularDrag"`
	UseGravity  int     `yaml:"m_UseGravity"`
	IsKinematic int     `yaml:"m_IsKinematic"`
	Constraints uint32  `yaml:"m_Constraints"`
}

func NewRigidbodyRecord() RigidbodyRecord {
	return RigidbodyRecord{Mass: 1, AngularDrag: 0.05, UseGravity: 1}
}

type BoxColliderRecord struct {
	GameObject FileRef `yaml:"m_GameObject"`
	IsTrigger  int     `yaml:"m_IsTrigger"`
	Center     Vector3 `yaml:"m_Center"`
	Size       Vector3 `yaml:"m_Size"`
}

func NewBoxColliderRecord() BoxColliderRecord {
	return BoxColliderRecord{Size: Vector3{X: 1, Y: 1, Z: 1}}
}

type SphereColliderRecord struct {
	GameObject FileRef `yaml:"m_GameObject"`
	IsTrigger  int     `yaml:"m_IsTrigger"`
	Center     Vector3 `yaml:"m_Center"`
	Radius     float32 `yaml:"m_Radius"`
}

func NewSphereColliderRecord() SphereColliderRecord {
	return SphereColliderRecord{Radius: 0.5}
}

type CapsuleColliderRecord struct {
	GameObject FileRef `yaml:"m_GameObject"`
	IsTrigger  int     `yaml:"m_IsTrigger"`
	Center     Vector3 `yaml:"m_Center"`
	Radius     float32 `yaml:"m_Radius"`
	Height     float32 `yaml:"m_Height"`
	Direction  int     `yaml:"m_Direction"`
}

func NewCapsuleColliderRecord() CapsuleColliderRecord {
	return CapsuleColliderRecord{Radius: 0.5, Height: 2, Direction: 1}
}

type MeshColliderRecord struct {
	GameObject FileRef `yaml:"m_GameObject"`
	IsTrigger  int     `yaml:"m_IsTrigger"`
	Convex     int     `yaml:"m_Convex"`
	Mesh       FileRef `yaml:"m_Mesh"`
}

type PropertyModification struct {
	Target          FileRef `yaml:"target"`
	PropertyPath    string  `yaml:"propertyPath"`
	Value           string  `yaml:"value"`
	ObjectReference FileRef `yaml:"objectReference"`
}

type ModificationList struct {
	TransformParent FileRef                `yaml:"m_TransformParent"`
	Modifications   []PropertyModification `yaml:"m_Modifications"`
}

type PrefabInstanceRecord struct {
	SourcePrefab FileRef          `yaml:"m_SourcePrefab"`
	Modification ModificationList `yaml:"m_Modification"`
}
