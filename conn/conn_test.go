package conn_test

import (
	"context"
	"io"
	"testing"

	"dvrip/conn"
	"dvrip/internal/devicesim"
	"dvrip/message"
)

func TestLoginKeepAliveLogout(t *testing.T) {
	dev, err := devicesim.New("admin", "")
	if err != nil {
		t.Fatalf("devicesim.New: %v", err)
	}
	defer dev.Close()

	c, err := conn.Dial(context.Background(), dev.Address())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.Login("admin", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if c.Session().ID == 0 {
		t.Fatal("expected a non-zero session after login")
	}

	if err := c.KeepAlive(); err != nil {
		t.Fatalf("KeepAlive: %v", err)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if c.Session().ID != 0 {
		t.Fatalf("expected session cleared after logout, got %v", c.Session())
	}
}

func TestGetInfoFragmentedReply(t *testing.T) {
	dev, err := devicesim.New("admin", "")
	if err != nil {
		t.Fatalf("devicesim.New: %v", err)
	}
	dev.FragmentInfo = true
	defer dev.Close()

	c, err := conn.Dial(context.Background(), dev.Address())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.Login("admin", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	reply, err := c.Request(message.GetInfo{Command: message.InfoSystem, Session: c.Session()})
	if err != nil {
		t.Fatalf("Request(GetInfo): %v", err)
	}
	info := reply.(message.GetInfoReply)
	if info.System == nil {
		t.Fatal("expected System info in reply")
	}
	if len(info.System.SoftwareVersion) != 20000 {
		t.Fatalf("expected fragmented payload to survive reassembly intact, got %d bytes", len(info.System.SoftwareVersion))
	}
}

func TestMonitorClaimDataStream(t *testing.T) {
	dev, err := devicesim.New("admin", "")
	if err != nil {
		t.Fatalf("devicesim.New: %v", err)
	}
	defer dev.Close()

	c, err := conn.Dial(context.Background(), dev.Address())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.Login("admin", ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	params := message.MonitorParams{Channel: 0, Stream: message.StreamMain}
	claim := message.MonitorClaim{Session: c.Session(), Monitor: message.Monitor{Action: message.MonitorStart, Params: params}}
	request := message.DoMonitor{Session: c.Session(), Monitor: message.Monitor{Action: message.MonitorStart, Params: params}}

	reader, err := c.Reader(context.Background(), dev.Address(), claim, request)
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "frame-oneframe-two" {
		t.Fatalf("unexpected stream contents: %q", data)
	}
}
