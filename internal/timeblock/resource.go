package timeblock

import "fmt"

// ResourceKind names the variant of a Resource as stored in resource_type.
type ResourceKind string

const (
	ResourceRoom      ResourceKind = "room"
	ResourceEquipment ResourceKind = "equipment"
)

// Resource is the optional room or equipment a block occupies.
// A nil Resource means the block only occupies the provider.
// The interface is sealed; Room and Equipment are the only variants.
type Resource interface {
	ResourceID() string
	ResourceKind() ResourceKind
	isResource()
}

type Room struct{ ID string }

func (r Room) ResourceID() string       { return r.ID }
func (Room) ResourceKind() ResourceKind { return ResourceRoom }
func (Room) isResource()                {}

type Equipment struct{ ID string }

func (e Equipment) ResourceID() string       { return e.ID }
func (Equipment) ResourceKind() ResourceKind { return ResourceEquipment }
func (Equipment) isResource()                {}

// ParseResource builds a Resource from its stored kind and id. Both empty yields nil.
func ParseResource(kind, id string) (Resource, error) {
	switch {
	case kind == "" && id == "":
		return nil, nil
	case kind == "" || id == "":
		return nil, fmt.Errorf("resource type and id must be set together")
	}
	switch ResourceKind(kind) {
	case ResourceRoom:
		return Room{ID: id}, nil
	case ResourceEquipment:
		return Equipment{ID: id}, nil
	}
	return nil, fmt.Errorf("unknown resource type %q", kind)
}

// resourceColumns splits r into nullable resource_type and resource_id values.
func resourceColumns(r Resource) (*string, *string) {
	if r == nil {
		return nil, nil
	}
	kind, id := string(r.ResourceKind()), r.ResourceID()
	return &kind, &id
}

func resourceFromColumns(kind, id *string) (Resource, error) {
	var k, i string
	if kind != nil {
		k = *kind
	}
	if id != nil {
		i = *id
	}
	return ParseResource(k, i)
}
