package entities

import "encoding/json"

// splitAttributes moves the string-valued core keys out of raw. Everything
// else, including a core key holding a non-string value, stays in the
// returned attribute map.
func splitAttributes(raw map[string]any, core map[string]*string) map[string]any {
	for key, dst := range core {
		if s, ok := raw[key].(string); ok {
			*dst = s
			delete(raw, key)
		}
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// flatten merges attributes and the non-empty core fields into one object.
// Core fields win on key collisions.
func flatten(attributes map[string]any, core map[string]any) map[string]any {
	out := make(map[string]any, len(attributes)+len(core))
	for k, v := range attributes {
		out[k] = v
	}
	for k, v := range core {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func decodeObject(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
