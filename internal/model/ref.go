package model

import (
	"bytes"
	"encoding/json"
)

// TagKind identifies which shape a TagField arrived in.
type TagKind int

const (
	TagAbsent TagKind = iota
	TagText
	TagList
	TagUnsupported
)

// TagElemKind identifies the shape of a single element of a tag list.
type TagElemKind int

const (
	// TagElemNamed is an object carrying a string "name".
	TagElemNamed TagElemKind = iota
	// TagElemScalar is a string, number or boolean.
	TagElemScalar
	// TagElemOther is anything else (null, nameless object, nested array).
	TagElemOther
)

// TagElem is one element of a tag list.
type TagElem struct {
	Kind  TagElemKind
	ID    string
	Value string
}

// TagField holds a tags value as sent by the platform API. The API uses
// a comma-separated string, a list of strings, or a list of {id, name}
// objects depending on the endpoint, sometimes mixing the last two.
type TagField struct {
	Kind  TagKind
	Text  string
	Elems []TagElem
}

// TagsText builds a comma-separated TagField.
func TagsText(s string) TagField {
	return TagField{Kind: TagText, Text: s}
}

// TagsList builds a list TagField.
func TagsList(elems ...TagElem) TagField {
	return TagField{Kind: TagList, Elems: elems}
}

// NamedTag builds an {id, name} list element.
func NamedTag(id, name string) TagElem {
	return TagElem{Kind: TagElemNamed, ID: id, Value: name}
}

// ScalarTag builds a plain list element.
func ScalarTag(v string) TagElem {
	return TagElem{Kind: TagElemScalar, Value: v}
}

// UnmarshalJSON decodes any JSON value into a TagField. It never fails:
// shapes that cannot carry tags decode as TagUnsupported.
func (f *TagField) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	*f = TagField{}

	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			f.Kind = TagUnsupported
			return nil
		}
		f.Kind = TagText
		f.Text = s
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			f.Kind = TagUnsupported
			return nil
		}
		f.Kind = TagList
		f.Elems = make([]TagElem, 0, len(items))
		for _, item := range items {
			f.Elems = append(f.Elems, decodeTagElem(item))
		}
	default:
		f.Kind = TagUnsupported
	}
	return nil
}

// MarshalJSON encodes the field back into the closest wire shape.
func (f TagField) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case TagText:
		return json.Marshal(f.Text)
	case TagList:
		out := make([]any, 0, len(f.Elems))
		for _, e := range f.Elems {
			switch e.Kind {
			case TagElemNamed:
				out = append(out, map[string]string{"id": e.ID, "name": e.Value})
			case TagElemScalar:
				out = append(out, e.Value)
			default:
				out = append(out, nil)
			}
		}
		return json.Marshal(out)
	default:
		return []byte("null"), nil
	}
}

func decodeTagElem(raw json.RawMessage) TagElem {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return TagElem{Kind: TagElemOther}
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return TagElem{Kind: TagElemOther}
		}
		return ScalarTag(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return TagElem{Kind: TagElemOther}
		}
		name, ok := stringField(obj, "name")
		if !ok {
			return TagElem{Kind: TagElemOther}
		}
		id, _ := stringField(obj, "id")
		if id == "" {
			id, _ = stringField(obj, "_id")
		}
		return NamedTag(id, name)
	case 't', 'f', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		// Numbers and booleans keep their literal text.
		return ScalarTag(string(raw))
	default:
		return TagElem{Kind: TagElemOther}
	}
}

// NameRefKind identifies which shape a NameRef arrived in.
type NameRefKind int

const (
	RefAbsent NameRefKind = iota
	RefText
	RefObject
	RefUnsupported
)

// NameRef is a subject or author reference: either a plain string or a
// populated object exposing a "name".
type NameRef struct {
	Kind NameRefKind
	Text string
	ID   string
	Name string
}

// TextRef builds a plain string reference.
func TextRef(s string) NameRef {
	return NameRef{Kind: RefText, Text: s}
}

// ObjectRef builds a populated object reference.
func ObjectRef(id, name string) NameRef {
	return NameRef{Kind: RefObject, ID: id, Name: name}
}

// UnmarshalJSON decodes any JSON value into a NameRef without failing.
func (r *NameRef) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	*r = NameRef{}

	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			r.Kind = RefUnsupported
			return nil
		}
		r.Kind = RefText
		r.Text = s
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			r.Kind = RefUnsupported
			return nil
		}
		r.Kind = RefObject
		r.Name, _ = stringField(obj, "name")
		r.ID, _ = stringField(obj, "_id")
		if r.ID == "" {
			r.ID, _ = stringField(obj, "id")
		}
	default:
		r.Kind = RefUnsupported
	}
	return nil
}

// MarshalJSON encodes the reference back into its wire shape.
func (r NameRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RefText:
		return json.Marshal(r.Text)
	case RefObject:
		return json.Marshal(map[string]string{"_id": r.ID, "name": r.Name})
	default:
		return []byte("null"), nil
	}
}

// IDList is a list of user references such as likes or upvotes. The API
// returns either bare ids or populated user objects.
type IDList []string

// UnmarshalJSON accepts a list of strings or objects with an "_id"/"id".
// Anything that is not a list decodes as empty.
func (l *IDList) UnmarshalJSON(b []byte) error {
	*l = nil

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil || items == nil {
		return nil
	}

	ids := make(IDList, 0, len(items))
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			ids = append(ids, s)
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		id, ok := stringField(obj, "_id")
		if !ok {
			id, _ = stringField(obj, "id")
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}

// Contains reports whether id is in the list.
func (l IDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Truthy is a flag the API may send as a boolean, a number or a string.
// It follows JavaScript truthiness: true, a non-zero number, a non-empty
// string, an object or a list are set; false, 0, "", null and a missing
// field are not.
type Truthy bool

// UnmarshalJSON never fails; input that is not valid JSON decodes as false.
func (f *Truthy) UnmarshalJSON(b []byte) error {
	*f = false

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch v := v.(type) {
	case bool:
		*f = Truthy(v)
	case float64:
		*f = v != 0
	case string:
		*f = v != ""
	case []any, map[string]any:
		*f = true
	}
	return nil
}

// stringField reads key from obj when it holds a JSON string.
func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
