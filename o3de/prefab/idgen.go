package prefab

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

const ID_COUNTER_BASE = 1000000

// IdGen issues entity and instance identifiers for one conversion run.
// The counter is monotonic and never reused, across every file of the run,
// so ids cannot collide between sibling subtrees or between files.
// Component ids only need to be unique-ish inside one document; they come
// from a seeded source so repeated runs produce identical output.
type IdGen struct {
	counter int64
}

func NewIdGen() *IdGen {
	randomdata.CustomRand(rand.New(rand.NewSource(0)))
	return &IdGen{counter: ID_COUNTER_BASE}
}

func (g *IdGen) EntityId() string {
	g.counter++
	return fmt.Sprintf("Entity_[%d]", g.counter)
}

func (g *IdGen) InstanceId() string {
	g.counter++
	return fmt.Sprintf("Instance_[%d]", g.counter)
}

func (g *IdGen) ComponentId() int64 {
	return int64(randomdata.Number(1000000000000000, 9999999999999999))
}
