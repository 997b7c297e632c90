package anchordoc

import (
	"log"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Unity serialized class ids we recognize. Everything else is retained raw.
const (
	CLASS_GAME_OBJECT      = 1
	CLASS_TRANSFORM        = 4
	CLASS_MESH_RENDERER    = 23
	CLASS_MESH_FILTER      = 33
	CLASS_RIGIDBODY        = 54
	CLASS_MESH_COLLIDER    = 64
	CLASS_BOX_COLLIDER     = 65
	CLASS_SPHERE_COLLIDER  = 135
	CLASS_CAPSULE_COLLIDER = 136
	CLASS_PREFAB_INSTANCE  = 1001
)

var headerRegexp = regexp.MustCompile(`^--- !u!(\d+) &(\d+)( stripped)?\s*$`)

// Document is one anchor-indexed block of a Unity scene/prefab file.
type Document struct {
	ClassID  int
	Anchor   string
	Stripped bool
	Kind     string // top level key of the body, e.g. "Transform"

	body *yaml.Node
}

// Decode unmarshals the document body into out. Fields absent from the
// body are left untouched, so out can be pre-filled with defaults.
func (d *Document) Decode(out interface{}) error {
	if d.body == nil {
		return errors.Errorf("Document &%s has no body", d.Anchor)
	}
	if err := d.body.Decode(out); err != nil {
		return errors.Wrapf(err, "Failed to decode &%s (%s)", d.Anchor, d.Kind)
	}
	return nil
}

// Set holds every successfully parsed document of one source file, keyed
// by anchor, preserving document order.
type Set struct {
	docs    map[string]*Document
	anchors []string
	Skipped int
}

func (s *Set) Get(anchor string) *Document { return s.docs[anchor] }

// Anchors returns anchors in original document order.
func (s *Set) Anchors() []string { return s.anchors }

func (s *Set) Len() int { return len(s.anchors) }

// Parse splits raw scene/prefab text into anchor-indexed documents. An
// unparseable block is skipped with a warning; the rest of the file still
// parses. Only a file with no recognizable header at all is an error.
func Parse(data []byte) (*Set, error) {
	set := &Set{docs: make(map[string]*Document)}

	lines := strings.Split(string(data), "\n")

	var header []string
	var body []string
	flush := func() {
		if header == nil {
			return
		}
		if err := set.add(header, strings.Join(body, "\n")); err != nil {
			log.Printf("[anchordoc] Skipping block &%s: %v", header[2], err)
			set.Skipped++
		}
		header, body = nil, nil
	}

	for _, line := range lines {
		if m := headerRegexp.FindStringSubmatch(line); m != nil {
			flush()
			header = m
			body = body[:0]
			continue
		}
		if header != nil {
			body = append(body, line)
		}
		// lines before the first header (%YAML directive, %TAG) are dropped
	}
	flush()

	if len(set.anchors) == 0 && set.Skipped == 0 {
		return nil, errors.Errorf("No anchor documents found")
	}
	return set, nil
}

func (s *Set) add(header []string, body string) error {
	classID := 0
	for _, c := range header[1] {
		classID = classID*10 + int(c-'0')
	}
	anchor := header[2]

	var root map[string]yaml.Node
	if err := yaml.Unmarshal([]byte(body), &root); err != nil {
		return errors.Wrapf(err, "Bad yaml body")
	}

	doc := &Document{
		ClassID:  classID,
		Anchor:   anchor,
		Stripped: header[3] != "",
	}
	for kind, node := range root {
		n := node
		doc.Kind = kind
		doc.body = &n
		break
	}
	if doc.Kind == "" {
		return errors.Errorf("Empty document body")
	}

	if _, exists := s.docs[anchor]; exists {
		return errors.Errorf("Duplicate anchor &%s", anchor)
	}
	s.docs[anchor] = doc
	s.anchors = append(s.anchors, anchor)
	return nil
}
