package packet

import (
	"bytes"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	p := Packet{
		Session: 0x12345678,
		Number:  42,
		A:       0,
		B:       0,
		Type:    1000,
		Payload: []byte(`{"hello":"world"}`),
	}

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.Session != p.Session {
		t.Errorf("Session mismatch: got %#x, want %#x", got.Session, p.Session)
	}
	if got.Number != p.Number {
		t.Errorf("Number mismatch: got %d, want %d", got.Number, p.Number)
	}
	if got.Type != p.Type {
		t.Errorf("Type mismatch: got %d, want %d", got.Type, p.Type)
	}
	if !bytes.Equal(got.Payload, p.Payload) {
		t.Errorf("Payload mismatch: got %s, want %s", got.Payload, p.Payload)
	}
}

func TestEncodeDecodeEmptyPayload(t *testing.T) {
	p := Packet{Session: 1, Number: 1, Type: 1530}

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got.Payload) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(got.Payload))
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, headerSize))
	if _, err := Decode(&buf); err == nil {
		t.Fatal("expected an error for invalid magic byte")
	}
}

func TestEncodeRejectsOversizePayload(t *testing.T) {
	p := Packet{Session: 1, Number: 1, Type: 1000, Payload: make([]byte, MaxPayload+1)}
	var buf bytes.Buffer
	if err := Encode(&buf, p); err == nil {
		t.Fatal("expected an error for oversize payload")
	}
}

func TestFragmentStreamAccessors(t *testing.T) {
	control := Packet{A: 3, B: 1}
	if control.Fragments() != 3 || control.Fragment() != 1 {
		t.Errorf("unexpected fragment accessors: %+v", control)
	}

	stream := Packet{A: 0, B: 1}
	if stream.Channel() != 0 || !stream.End() {
		t.Errorf("unexpected stream accessors: %+v", stream)
	}
}
