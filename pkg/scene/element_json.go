package scene

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

type elementAlias Element

var knownElementKeys = sync.OnceValue(func() map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeFor[elementAlias]()
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
})

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (e *Element) UnmarshalJSON(data []byte) error {
	var a elementAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	known := knownElementKeys()
	for k, v := range raw {
		if known[k] {
			continue
		}
		if a.Extra == nil {
			a.Extra = map[string]json.RawMessage{}
		}
		a.Extra[k] = v
	}
	*e = Element(a)
	return nil
}

// MarshalJSON encodes known fields followed by Extra.
func (e Element) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(elementAlias(e))
	if err != nil || len(e.Extra) == 0 {
		return data, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, v := range e.Extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}
