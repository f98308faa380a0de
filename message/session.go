package message

import "dvrip/wire"

// Session identifies an authenticated DVRIP connection. A zero Session is
// the placeholder used before login succeeds.
type Session struct {
	ID uint32
}

func (s Session) forJSON() string { return wire.HexString(s.ID) }

func sessionFromJSON(v any, key, description string) (Session, error) {
	s, err := popString(object{key: v}, key, description)
	if err != nil {
		return Session{}, err
	}
	id, err := wire.ParseHex(s)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: id}, nil
}

func popSession(o object, key, description string) (Session, error) {
	v, err := popRequired(o, key, description)
	if err != nil {
		return Session{}, err
	}
	return sessionFromJSON(v, key, description)
}
