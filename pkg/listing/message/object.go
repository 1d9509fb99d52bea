package message

import (
	"encoding/json"
	"fmt"

	"github.com/LoneWolf367/particl-market/pkg/listing/model"
)

// Object is a custom listing field. Implemented by TableObject, DropdownObject and UnsupportedObject.
type Object interface {
	ObjectType() model.ObjectType
	isObject()
}

// TableObject rows are keyed key/value on the wire.
type TableObject struct {
	Description string     `json:"description"`
	Table       []KeyValue `json:"table"`
}

// DropdownObject options are keyed name/value on the wire, unlike TableObject rows.
// TODO: align option keys with TableObject once every node understands key/value options.
type DropdownObject struct {
	Description string      `json:"description"`
	ObjectID    string      `json:"objectId,omitempty"`
	ForceInput  bool        `json:"forceInput"`
	Options     []NameValue `json:"options"`
}

type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UnsupportedObject carries an object whose type tag has no wire variant.
type UnsupportedObject struct {
	Type model.ObjectType
	Raw  json.RawMessage
}

func (TableObject) ObjectType() model.ObjectType         { return model.ObjectTypeTable }
func (DropdownObject) ObjectType() model.ObjectType      { return model.ObjectTypeDropdown }
func (o UnsupportedObject) ObjectType() model.ObjectType { return o.Type }

func (TableObject) isObject()       {}
func (DropdownObject) isObject()    {}
func (UnsupportedObject) isObject() {}

func (o TableObject) MarshalJSON() ([]byte, error) {
	type alias TableObject
	return json.Marshal(struct {
		Type model.ObjectType `json:"type"`
		alias
	}{model.ObjectTypeTable, alias(o)})
}

func (o DropdownObject) MarshalJSON() ([]byte, error) {
	type alias DropdownObject
	return json.Marshal(struct {
		Type model.ObjectType `json:"type"`
		alias
	}{model.ObjectTypeDropdown, alias(o)})
}

func (o UnsupportedObject) MarshalJSON() ([]byte, error) {
	if len(o.Raw) > 0 {
		return o.Raw, nil
	}
	return json.Marshal(struct {
		Type model.ObjectType `json:"type"`
	}{o.Type})
}

func decodeObject(raw json.RawMessage) (Object, error) {
	tag, err := peekType(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to read object type: %w", err)
	}

	switch model.ObjectType(tag) {
	case model.ObjectTypeTable:
		var o TableObject
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("failed to decode table object: %w", err)
		}
		return o, nil
	case model.ObjectTypeDropdown:
		var o DropdownObject
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("failed to decode dropdown object: %w", err)
		}
		return o, nil
	default:
		return UnsupportedObject{Type: model.ObjectType(tag), Raw: raw}, nil
	}
}
