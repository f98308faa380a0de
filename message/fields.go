package message

import (
	"dvrip/dverr"
)

// object is a JSON object mid-decode: as each expected member is popped,
// it disappears from the map, so a non-empty object at the end of
// decoding means the payload carried an unrecognized extra member.
type object map[string]any

func asObject(datum any, description string) (object, error) {
	m, ok := datum.(map[string]any)
	if !ok {
		return nil, dverr.Decodef("%s is not an object", description)
	}
	out := make(object, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

func (o object) pop(key string) (any, bool) {
	v, ok := o[key]
	if ok {
		delete(o, key)
	}
	return v, ok
}

func (o object) done(description string) error {
	for k := range o {
		return dverr.Decodef("extra member %q in %s", k, description)
	}
	return nil
}

func popRequired(o object, key, description string) (any, error) {
	v, ok := o.pop(key)
	if !ok {
		return nil, dverr.Decodef("missing member %q in %s", key, description)
	}
	return v, nil
}

func popString(o object, key, description string) (string, error) {
	v, err := popRequired(o, key, description)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", dverr.Decodef("member %q in %s is not a string", key, description)
	}
	return s, nil
}

func popOptionalString(o object, key string, def string) string {
	v, ok := o.pop(key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func popInt(o object, key, description string) (int, error) {
	v, err := popRequired(o, key, description)
	if err != nil {
		return 0, err
	}
	return asInt(v, key, description)
}

func asInt(v any, key, description string) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, dverr.Decodef("member %q in %s is not an integer", key, description)
	}
	return int(f), nil
}

// popFixedString pops key and verifies its value equals want exactly, the
// decode-side half of a fixedmember: a device that sends anything else is
// speaking a protocol variant this client doesn't understand.
func popFixedString(o object, key, want, description string) error {
	s, err := popString(o, key, description)
	if err != nil {
		return err
	}
	if s != want {
		return dverr.Decodef("member %q in %s must be %q, got %q", key, description, want, s)
	}
	return nil
}

func popFixedInt(o object, key string, want int, description string) error {
	v, err := popInt(o, key, description)
	if err != nil {
		return err
	}
	if v != want {
		return dverr.Decodef("member %q in %s must be %d, got %d", key, description, want, v)
	}
	return nil
}

func popFixedBool(o object, key string, want bool, description string) error {
	v, err := popRequired(o, key, description)
	if err != nil {
		return err
	}
	b, ok := v.(bool)
	if !ok {
		return dverr.Decodef("member %q in %s is not a boolean", key, description)
	}
	if b != want {
		return dverr.Decodef("member %q in %s must be %v, got %v", key, description, want, b)
	}
	return nil
}

func popBool(o object, key, description string, def bool) (bool, error) {
	v, ok := o.pop(key)
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, dverr.Decodef("member %q in %s is not a boolean", key, description)
	}
	return b, nil
}

func popArray(o object, key, description string) ([]any, bool, error) {
	v, ok := o.pop(key)
	if !ok {
		return nil, false, nil
	}
	a, ok := v.([]any)
	if !ok {
		return nil, false, dverr.Decodef("member %q in %s is not an array", key, description)
	}
	return a, true, nil
}

func popObject(o object, key, description string) (object, error) {
	v, err := popRequired(o, key, description)
	if err != nil {
		return nil, err
	}
	return asObject(v, description+"."+key)
}

func errNotString(key, description string) error {
	return dverr.Decodef("member %q in %s is not a string", key, description)
}
