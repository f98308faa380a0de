package wire

import (
	"testing"
	"time"
)

func TestXMMD5Vectors(t *testing.T) {
	cases := map[string]string{
		"":        "tlJwpbo6",
		"tluafed": "OxhlwSG8",
	}
	for in, want := range cases {
		if got := XMMD5(in); got != want {
			t.Errorf("XMMD5(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF} {
		s := HexString(v)
		got, err := ParseHex(s)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", s, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %q -> %d", v, s, got)
		}
	}
}

func TestParseHexRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "0x", "0xZZZZZZZZ", "1234", "0x123"} {
		if _, err := ParseHex(s); err == nil {
			t.Errorf("ParseHex(%q) should have failed", s)
		}
	}
}

func TestIPv4RoundTrip(t *testing.T) {
	s := IPv4String(192, 168, 1, 100)
	a, b, c, d, err := ParseIPv4(s)
	if err != nil {
		t.Fatalf("ParseIPv4(%q): %v", s, err)
	}
	if a != 192 || b != 168 || c != 1 || d != 100 {
		t.Errorf("got %d.%d.%d.%d, want 192.168.1.100", a, b, c, d)
	}
}

func TestNetmaskRoundTrip(t *testing.T) {
	for bits := 0; bits <= 32; bits++ {
		s, err := NetmaskPrefix(bits)
		if err != nil {
			t.Fatalf("NetmaskPrefix(%d): %v", bits, err)
		}
		got, err := ParseNetmask(s)
		if err != nil {
			t.Fatalf("ParseNetmask(%q): %v", s, err)
		}
		if got != bits {
			t.Errorf("round trip %d -> %q -> %d", bits, s, got)
		}
	}
}

func TestParseNetmaskRejectsNonContiguous(t *testing.T) {
	if _, err := ParseNetmask(HexString(0xFF00FF00)); err == nil {
		t.Error("expected error for non-contiguous netmask")
	}
}

func TestDatetimeSentinels(t *testing.T) {
	s, err := DatetimeString(nil)
	if err != nil || s != noDatetime {
		t.Errorf("DatetimeString(nil) = %q, %v", s, err)
	}
	got, err := ParseDatetime(s)
	if err != nil || got != nil {
		t.Errorf("ParseDatetime(%q) = %v, %v", s, got, err)
	}

	epoch := Epoch
	s, err = DatetimeString(&epoch)
	if err != nil || s != epochDatetime {
		t.Errorf("DatetimeString(epoch) = %q, %v", s, err)
	}
	got, err = ParseDatetime(s)
	if err != nil || got == nil || !got.Equal(Epoch) {
		t.Errorf("ParseDatetime(%q) = %v, %v", s, got, err)
	}
}

func TestDatetimeRoundTrip(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	s, err := DatetimeString(&want)
	if err != nil {
		t.Fatalf("DatetimeString: %v", err)
	}
	got, err := ParseDatetime(s)
	if err != nil {
		t.Fatalf("ParseDatetime(%q): %v", s, err)
	}
	if got == nil || !got.Equal(want) {
		t.Errorf("round trip %v -> %q -> %v", want, s, got)
	}
}

func TestDatetimeBeforeEpochRejected(t *testing.T) {
	before := Epoch.Add(-time.Hour)
	if _, err := DatetimeString(&before); err == nil {
		t.Error("expected error for datetime before epoch")
	}
}

func TestVersionSentinel(t *testing.T) {
	if VersionString("") != "Unknown" {
		t.Error("empty version should render as Unknown")
	}
	if ParseVersion("Unknown") != "" {
		t.Error("Unknown should parse back to empty version")
	}
	if VersionString("1.2.3") != "1.2.3" || ParseVersion("1.2.3") != "1.2.3" {
		t.Error("non-empty version should pass through unchanged")
	}
}
