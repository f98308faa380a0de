package message

import (
	"encoding/json"
	"testing"
)

// viaWire round-trips a ForJSON map through an actual JSON encode/decode,
// since real device replies preserve network number semantics (numbers
// decode back to float64) that native Go map literals do not.
func viaWire(t *testing.T, fields map[string]any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var datum map[string]any
	if err := json.Unmarshal(raw, &datum); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	return datum
}

func TestDoPTZTypeCodes(t *testing.T) {
	if got := (DoPTZ{}).Type(); got != 1400 {
		t.Errorf("DoPTZ.Type() = %d, want 1400", got)
	}
	if got := (DoPTZ{}).ReplyType(); got != 1401 {
		t.Errorf("DoPTZ.ReplyType() = %d, want 1401", got)
	}
}

func TestPTZParamsCarriesFixedMembers(t *testing.T) {
	fields := PTZParams{Channel: 2}.forJSON()
	for _, key := range []string{"Channel", "AUX", "MenuOpts", "POINT", "Pattern", "Preset", "Step", "Tour"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("PTZParams.forJSON() missing member %q", key)
		}
	}
	if _, ok := fields["Speed"]; ok {
		t.Error("PTZParams.forJSON() should not emit a Speed member")
	}
}

func TestDoPTZReplyRejectsNonEmptyName(t *testing.T) {
	fields := map[string]any{"Ret": float64(100), "Name": "unexpected", "SessionID": "0x00000001"}
	if _, err := doPTZReplyFromJSON(fields); err == nil {
		t.Error("expected an error for a non-empty Name member")
	}
}

func TestPlaybackClaimTypeCodes(t *testing.T) {
	if got := (PlaybackClaim{}).Type(); got != 1424 {
		t.Errorf("PlaybackClaim.Type() = %d, want 1424", got)
	}
	if got := (PlaybackClaim{}).ReplyType(); got != 1425 {
		t.Errorf("PlaybackClaim.ReplyType() = %d, want 1425", got)
	}
	if got := (PlaybackClaim{}).DataType(); got != 1426 {
		t.Errorf("PlaybackClaim.DataType() = %d, want 1426", got)
	}
}

func TestPlaybackClaimUsesSharedCommandName(t *testing.T) {
	claim := PlaybackClaim{Session: Session{ID: 1}, Playback: Playback{Action: PlaybackDownloadStart, Params: PlaybackParams{Name: "f.264"}}}
	fields, err := claim.ForJSON()
	if err != nil {
		t.Fatalf("ForJSON: %v", err)
	}
	if fields["Name"] != "OPPlayBack" {
		t.Errorf("PlaybackClaim Name = %v, want OPPlayBack", fields["Name"])
	}
}

func TestPlaybackParamsCarriesFixedTransMode(t *testing.T) {
	fields := PlaybackParams{Name: "f.264"}.forJSON()
	if fields["TransMode"] != "TCP" {
		t.Errorf("PlaybackParams TransMode = %v, want TCP", fields["TransMode"])
	}
}

func TestHostRoundTrip(t *testing.T) {
	host := Host{
		Serial: "DVRSIM0001", MAC: "00:11:22:33:44:55",
		Gateway: "192.168.1.1", Address: "192.168.1.108", MaskPrefix: 24,
		Name: "NVR", TCPPort: 34567, UDPPort: 34568, HTTPPort: 80, HTTPSPort: 443,
		Channels: 4, MaxConnections: 10, MaxBitrate: 8192, ConnectState: 1,
	}
	fields, err := host.forJSON()
	if err != nil {
		t.Fatalf("forJSON: %v", err)
	}
	if fields["HostIP"] != "0x6C01A8C0" {
		t.Errorf("HostIP = %v, want 0x6C01A8C0", fields["HostIP"])
	}
	if fields["Submask"] != "0x00FFFFFF" {
		t.Errorf("Submask = %v, want 0x00FFFFFF", fields["Submask"])
	}
	back, err := hostFromJSON(viaWire(t, fields))
	if err != nil {
		t.Fatalf("hostFromJSON: %v", err)
	}
	if back != host {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, host)
	}
}

func TestDiscoverReplyPopsStatusAndSession(t *testing.T) {
	host := Host{Serial: "X", MAC: "00:00:00:00:00:00", Gateway: "10.0.0.1", Address: "10.0.0.2", MaskPrefix: 24, Name: "N"}
	reply := DiscoverReply{Status: OK, Session: Session{ID: 5}, Host: host}
	fields, err := reply.ForJSON()
	if err != nil {
		t.Fatalf("ForJSON: %v", err)
	}
	msg, err := discoverReplyFromJSON(viaWire(t, fields))
	if err != nil {
		t.Fatalf("discoverReplyFromJSON: %v", err)
	}
	back := msg.(DiscoverReply)
	if back.Status != reply.Status || back.Session != reply.Session {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, reply)
	}
}

func TestOperationResetWireValue(t *testing.T) {
	if OperationReset != "OPDefaultConfig" {
		t.Errorf("OperationReset = %q, want OPDefaultConfig", OperationReset)
	}
	if OperationLog != "OPLogManager" {
		t.Errorf("OperationLog = %q, want OPLogManager", OperationLog)
	}
}

func TestDoOperationResetCarriesAreaFlags(t *testing.T) {
	op := DoOperation{
		Session: Session{ID: 1}, Command: OperationReset,
		Reset: &ResetOperation{Account: true, Record: true},
	}
	fields, err := op.ForJSON()
	if err != nil {
		t.Fatalf("ForJSON: %v", err)
	}
	reset, ok := fields["OPDefaultConfig"].(map[string]any)
	if !ok {
		t.Fatal("expected an OPDefaultConfig member")
	}
	if reset["Account"] != true || reset["Record"] != true || reset["Alarm"] != false {
		t.Errorf("unexpected reset flags: %+v", reset)
	}
}

func TestLogEntryWireKeys(t *testing.T) {
	fields, err := entryForJSON(Entry{Position: 3, Type: EntryLogIn, Data: "admin,DVRIP-Web"})
	if err != nil {
		t.Fatalf("entryForJSON: %v", err)
	}
	if _, ok := fields["Position"]; !ok {
		t.Error("expected a Position member")
	}
	if _, ok := fields["Number"]; ok {
		t.Error("did not expect a Number member")
	}
	if fields["User"] != entryUser {
		t.Errorf("User = %v, want %v", fields["User"], entryUser)
	}
}

func TestLogQueryWireKeysAndFixedType(t *testing.T) {
	fields, err := LogQuery{Offset: 7}.forJSON()
	if err != nil {
		t.Fatalf("forJSON: %v", err)
	}
	if fields["LogPosition"] != 7 {
		t.Errorf("LogPosition = %v, want 7", fields["LogPosition"])
	}
	if fields["Type"] != logQueryType {
		t.Errorf("Type = %v, want %v", fields["Type"], logQueryType)
	}
}

func TestParseConnectionEntry(t *testing.T) {
	c, err := ParseConnectionEntry("admin,DVRIP-Web:192.168.1.50")
	if err != nil {
		t.Fatalf("ParseConnectionEntry: %v", err)
	}
	if c.User != "admin" || c.Service != "DVRIP-Web" || c.Host != "192.168.1.50" {
		t.Errorf("unexpected parse result: %+v", c)
	}
	if c.String() != "admin,DVRIP-Web:192.168.1.50" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestSystemInfoWireKeys(t *testing.T) {
	fields := systemInfoForJSON(SystemInfo{Serial: "X", SoftwareVersion: "1.0", HardwareVersion: "1.0", Uptime: 60})
	if _, ok := fields["DeviceRunTime"]; !ok {
		t.Error("expected a DeviceRunTime member")
	}
	if _, ok := fields["Uptime"]; ok {
		t.Error("did not expect an Uptime member")
	}
	if _, ok := fields["HardWareVersion"]; !ok {
		t.Error("expected a HardWareVersion member")
	}
	if _, ok := fields["ChannelNum"]; ok {
		t.Error("did not expect a fabricated ChannelNum member")
	}
}
