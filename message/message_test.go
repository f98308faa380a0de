package message

import (
	"testing"

	"dvrip/packet"
)

func TestClientLoginRoundTrip(t *testing.T) {
	req := ClientLogin{Username: "admin", PassHash: XMMD5("tluafed"), Service: "DVRIP-Web"}
	packets, err := ToPackets(Session{}, 1, req)
	if err != nil {
		t.Fatalf("ToPackets: %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("expected a single packet, got %d", len(packets))
	}
	if packets[0].Type != 1000 {
		t.Errorf("unexpected packet type %d", packets[0].Type)
	}

	got, err := FromPackets(packets, func(fields map[string]any) (Message, error) {
		const desc = "client login"
		o, err := asObject(fields, desc)
		if err != nil {
			return nil, err
		}
		username, err := popString(o, "UserName", desc)
		if err != nil {
			return nil, err
		}
		passhash, err := popString(o, "PassWord", desc)
		if err != nil {
			return nil, err
		}
		if _, err := popRequired(o, "EncryptType", desc); err != nil {
			return nil, err
		}
		service, err := popString(o, "LoginType", desc)
		if err != nil {
			return nil, err
		}
		if err := o.done(desc); err != nil {
			return nil, err
		}
		return ClientLogin{Username: username, PassHash: passhash, Service: service}, nil
	})
	if err != nil {
		t.Fatalf("FromPackets: %v", err)
	}
	back := got.(ClientLogin)
	if back.Username != req.Username || back.PassHash != req.PassHash || back.Service != req.Service {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, req)
	}
}

func TestClientLoginReplyRoundTrip(t *testing.T) {
	reply := ClientLoginReply{
		Status: OK, Session: Session{ID: 0xCAFEBABE}, Timeout: 21, Channels: 4,
		Views: 1, Chassis: "NVR", Encrypt: false,
	}
	packets, err := ToPackets(reply.Session, 2, reply)
	if err != nil {
		t.Fatalf("ToPackets: %v", err)
	}
	got, err := FromPackets(packets, ClientLogin{}.DecodeReply)
	if err != nil {
		t.Fatalf("FromPackets: %v", err)
	}
	back, ok := got.(ClientLoginReply)
	if !ok {
		t.Fatalf("unexpected type %T", got)
	}
	if back != reply {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, reply)
	}
}

func TestGetFilesReplyNilFilesMeansExhausted(t *testing.T) {
	reply := GetFilesReply{Status: SRCHNONE, Command: "OPFileQuery", Session: Session{ID: 1}}
	fields, err := reply.ForJSON()
	if err != nil {
		t.Fatalf("ForJSON: %v", err)
	}
	if _, ok := fields["OPFileQuery"]; ok {
		t.Error("expected no OPFileQuery key when Files is nil")
	}
}

func TestControlFilterReassemblesFragments(t *testing.T) {
	reply := ClientLoginReply{Status: OK, Session: Session{ID: 7}, Timeout: 30, Channels: 1, Views: 0, Chassis: "DVR"}
	all, err := ToPackets(reply.Session, 4, reply)
	if err != nil {
		t.Fatalf("ToPackets: %v", err)
	}
	// Force fragmentation by splitting the single packet payload in two.
	payload := all[0].Payload
	mid := len(payload) / 2
	frag0 := packet.Packet{Session: all[0].Session, Number: all[0].Number, A: 2, B: 0, Type: all[0].Type, Payload: payload[:mid]}
	frag1 := packet.Packet{Session: all[0].Session, Number: all[0].Number, A: 2, B: 1, Type: all[0].Type, Payload: payload[mid:]}

	f := NewControlFilter(1001, 4, ClientLogin{}.DecodeReply)
	outcome, msg, err := f.Step(frag0)
	if err != nil {
		t.Fatalf("Step(frag0): %v", err)
	}
	if outcome != Consumed || msg != nil {
		t.Fatalf("expected Consumed/nil after first fragment, got %v/%v", outcome, msg)
	}
	outcome, msg, err = f.Step(frag1)
	if err != nil {
		t.Fatalf("Step(frag1): %v", err)
	}
	if outcome != Ready {
		t.Fatalf("expected Ready after final fragment, got %v", outcome)
	}
	if msg.(ClientLoginReply) != reply {
		t.Errorf("reassembled message mismatch: got %+v, want %+v", msg, reply)
	}
}

func TestControlFilterRejectsOverlappingFragments(t *testing.T) {
	f := NewControlFilter(1001, 4, ClientLogin{}.DecodeReply)
	p := packet.Packet{Session: 0, Number: 4, A: 2, B: 0, Type: 1001, Payload: []byte(`{}`)}
	if _, _, err := f.Step(p); err != nil {
		t.Fatalf("first fragment: %v", err)
	}
	if _, _, err := f.Step(p); err == nil {
		t.Error("expected an error for an overlapping fragment")
	}
}

func TestControlFilterReportsForeignPacket(t *testing.T) {
	f := NewControlFilter(1001, 4, ClientLogin{}.DecodeReply)
	foreign := packet.Packet{Session: 0, Number: 4, Type: 1441, Payload: []byte(`{}`)}
	outcome, _, err := f.Step(foreign)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Foreign {
		t.Errorf("expected Foreign for mismatched type, got %v", outcome)
	}
}

func TestStreamFilterSignalsEnd(t *testing.T) {
	f := NewStreamFilter(1412)
	chunk := packet.Packet{Type: 1412, A: 0, B: 0, Payload: []byte("frame-1")}
	outcome, data, end, err := f.Step(chunk)
	if err != nil || outcome != Ready || end || string(data) != "frame-1" {
		t.Fatalf("unexpected result for first chunk: %v %v %v %v", outcome, data, end, err)
	}

	last := packet.Packet{Type: 1412, A: 0, B: 1, Payload: []byte("frame-2")}
	outcome, data, end, err = f.Step(last)
	if err != nil || outcome != Ready || !end || string(data) != "frame-2" {
		t.Fatalf("unexpected result for final chunk: %v %v %v %v", outcome, data, end, err)
	}
	if !f.Ended() {
		t.Error("expected Ended() to report true after end-of-stream packet")
	}
}

func TestStatusPolarity(t *testing.T) {
	for _, s := range []Status{SRCHCOMP, SRCHPART, SRCHNONE, OK} {
		if !s.Success {
			t.Errorf("status %+v expected to be successful", s)
		}
	}
	errStatus, err := StatusFromCode(105)
	if err != nil {
		t.Fatalf("StatusFromCode(105): %v", err)
	}
	if errStatus.Success {
		t.Error("NOLOGIN status should not be successful")
	}
}
