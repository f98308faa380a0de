// Package wire implements the scalar value encodings used inside DVRIP
// JSON payloads: hex-integers, little-endian hex IPv4 addresses, netmasks,
// datetimes with their absent/epoch sentinels, "Unknown"-sentinel version
// strings, and the XMMD5 password hash.
package wire

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Epoch is the DVRIP datetime epoch sentinel, 2000-01-01 00:00:00.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const dateLayout = "2006-01-02 15:04:05"

const noDatetime = "0000-00-00 00:00:00"
const epochDatetime = "2000-00-00 00:00:00"

const unknownVersion = "Unknown"

// HexString renders v as the "0x"-prefixed, zero-padded, uppercase
// 8-digit hex string used throughout DVRIP for session IDs, addresses,
// lengths and similar 32-bit quantities.
func HexString(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

// ParseHex parses a hex-integer string of the form produced by HexString.
func ParseHex(s string) (uint32, error) {
	if len(s) != 10 || s[0:2] != "0x" {
		return 0, fmt.Errorf("wire: %q is not a hex-integer", s)
	}
	hex := s[2:]
	for _, c := range hex {
		if !isHexDigit(byte(c)) {
			return 0, fmt.Errorf("wire: %q is not a hex-integer", s)
		}
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("wire: %q is not a hex-integer: %w", s, err)
	}
	return uint32(v), nil
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'F'
}

// IPv4String renders a net.IP-style 4-byte address as the little-endian
// hex-integer DVRIP uses on the wire: the dotted quad is assembled from
// the address bytes in reverse order.
func IPv4String(a, b, c, d byte) string {
	return HexString(uint32(d)<<24 | uint32(c)<<16 | uint32(b)<<8 | uint32(a))
}

// ParseIPv4 parses a little-endian hex-integer IPv4 address into its four
// dotted-quad bytes, in normal (not reversed) order.
func ParseIPv4(s string) (a, b, c, d byte, err error) {
	v, err := ParseHex(s)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	d = byte(v >> 24)
	c = byte(v >> 16)
	b = byte(v >> 8)
	a = byte(v)
	return a, b, c, d, nil
}

// NetmaskPrefix converts a prefix length (0-32) to the hex-integer
// contiguous-bit-run netmask DVRIP expects.
func NetmaskPrefix(bits int) (string, error) {
	if bits < 0 || bits > 32 {
		return "", fmt.Errorf("wire: %d is not a valid netmask prefix length", bits)
	}
	var v uint32
	if bits > 0 {
		v = ^uint32(0) << uint(32-bits)
	}
	return HexString(v), nil
}

// ParseNetmask parses a hex-integer netmask and returns its prefix length.
// It is an error for the mask to not be a contiguous run of one-bits from
// the most significant bit.
func ParseNetmask(s string) (int, error) {
	v, err := ParseHex(s)
	if err != nil {
		return 0, err
	}
	bits := 0
	for i := 31; i >= 0; i-- {
		if v&(1<<uint(i)) == 0 {
			break
		}
		bits++
	}
	want, _ := NetmaskPrefix(bits)
	if got := HexString(v); got != want {
		return 0, fmt.Errorf("wire: %q is not a contiguous netmask", s)
	}
	return bits, nil
}

// DatetimeString renders t in DVRIP's "YYYY-MM-DD hh:mm:ss" format. A nil
// t renders as the all-zero absent sentinel; t equal to Epoch renders as
// the "2000-00-00 ..." epoch sentinel.
func DatetimeString(t *time.Time) (string, error) {
	if t == nil {
		return noDatetime, nil
	}
	if t.Equal(Epoch) {
		return epochDatetime, nil
	}
	if !t.After(Epoch) {
		return "", fmt.Errorf("wire: datetime %v is not after the epoch", t)
	}
	return t.Format(dateLayout), nil
}

// ParseDatetime parses a DVRIP datetime string, recognizing the absent and
// epoch sentinels.
func ParseDatetime(s string) (*time.Time, error) {
	if s == noDatetime {
		return nil, nil
	}
	if s == epochDatetime {
		t := Epoch
		return &t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("wire: %q is not a datetime string", s)
	}
	if !t.After(Epoch) {
		return nil, fmt.Errorf("wire: datetime %q is not after the epoch", s)
	}
	return &t, nil
}

// VersionString renders a version string, mapping an empty string to the
// "Unknown" absence sentinel.
func VersionString(v string) string {
	if v == "" {
		return unknownVersion
	}
	return v
}

// ParseVersion parses a version string, mapping the "Unknown" sentinel
// back to the empty string.
func ParseVersion(s string) string {
	if s == unknownVersion {
		return ""
	}
	return s
}

const xmmd5Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// XMMD5 computes the DVRIP login password hash: the MD5 digest of
// password is folded into 8 characters by pairing consecutive digest
// bytes and indexing into a 62-character alphabet.
func XMMD5(password string) string {
	sum := md5.Sum([]byte(password))
	var out strings.Builder
	out.Grow(8)
	for i := 0; i < 8; i++ {
		idx := (int(sum[2*i]) + int(sum[2*i+1])) % len(xmmd5Alphabet)
		out.WriteByte(xmmd5Alphabet[idx])
	}
	return out.String()
}
