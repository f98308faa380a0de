package message

import (
	"fmt"
	"net"

	"dvrip/wire"
)

// DiscoverRequestType and DiscoverReplyType are the packet types used by
// UDP discovery. The request carries an entirely empty payload — not even
// an empty JSON object — so it is built directly as a packet.Packet by
// the conn package rather than through the Message/ForJSON machinery.
const (
	DiscoverRequestType uint16 = 1530
	DiscoverReplyType   uint16 = 1531
)

// Host is the network descriptor a device reports in response to
// discovery. DeviceType, MonMode, TransferPlan and UseHSDownLoad are not
// exposed as fields: every known firmware sends the same fixed values for
// them, so decoding verifies them rather than surfacing them.
type Host struct {
	Serial         string
	MAC            string
	Gateway        string // dotted-quad
	Address        string // dotted-quad
	MaskPrefix     int    // netmask prefix length, e.g. 24 for 255.255.255.0
	Name           string
	TCPPort        int
	UDPPort        int
	HTTPPort       int
	HTTPSPort      int
	Channels       int
	MaxConnections int
	MaxBitrate     int
	ConnectState   int
	OtherFunction  string
}

func dottedToWireIPv4(dotted string) (string, error) {
	ip := net.ParseIP(dotted).To4()
	if ip == nil {
		return "", fmt.Errorf("dvrip: %q is not an IPv4 address", dotted)
	}
	return wire.IPv4String(ip[0], ip[1], ip[2], ip[3]), nil
}

func wireIPv4ToDotted(s string) (string, error) {
	a, b, c, d, err := wire.ParseIPv4(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%d.%d.%d", a, b, c, d), nil
}

// netmaskForJSON and netmaskFromJSON translate a prefix length to/from the
// wire's netmask encoding. The device folds the standard contiguous-bit
// mask through the same byte layout an IPv4 address uses, so a /24 mask
// (0xFFFFFF00 as a plain integer) is reinterpreted as the address bytes
// 255.255.255.0 and re-encoded with IPv4String, landing on 0x00FFFFFF.
func netmaskForJSON(bits int) (string, error) {
	standard, err := wire.NetmaskPrefix(bits)
	if err != nil {
		return "", err
	}
	v, err := wire.ParseHex(standard)
	if err != nil {
		return "", err
	}
	return wire.IPv4String(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)), nil
}

func netmaskFromJSON(s string) (int, error) {
	a, b, c, d, err := wire.ParseIPv4(s)
	if err != nil {
		return 0, err
	}
	standard := wire.HexString(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
	return wire.ParseNetmask(standard)
}

func (h Host) forJSON() (map[string]any, error) {
	gateway, err := dottedToWireIPv4(h.Gateway)
	if err != nil {
		return nil, err
	}
	address, err := dottedToWireIPv4(h.Address)
	if err != nil {
		return nil, err
	}
	mask, err := netmaskForJSON(h.MaskPrefix)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"DeviceType":      1,
		"SN":              h.Serial,
		"MAC":             h.MAC,
		"GateWay":         gateway,
		"HostIP":          address,
		"Submask":         mask,
		"HostName":        h.Name,
		"TCPPort":         h.TCPPort,
		"UDPPort":         h.UDPPort,
		"HttpPort":        h.HTTPPort,
		"SSLPort":         h.HTTPSPort,
		"ChannelNum":      h.Channels,
		"TCPMaxConn":      h.MaxConnections,
		"MonMode":         "TCP",
		"MaxBps":          h.MaxBitrate,
		"TransferPlan":    "AutoAdapt",
		"UseHSDownLoad":   false,
		"NetConnectState": h.ConnectState,
		"OtherFunction":   h.OtherFunction,
	}, nil
}

func hostFromJSON(datum any) (Host, error) {
	const desc = "discovered host"
	o, err := asObject(datum, desc)
	if err != nil {
		return Host{}, err
	}
	if err := popFixedInt(o, "DeviceType", 1, desc); err != nil {
		return Host{}, err
	}
	serial, err := popString(o, "SN", desc)
	if err != nil {
		return Host{}, err
	}
	mac, err := popString(o, "MAC", desc)
	if err != nil {
		return Host{}, err
	}
	gatewayStr, err := popString(o, "GateWay", desc)
	if err != nil {
		return Host{}, err
	}
	gateway, err := wireIPv4ToDotted(gatewayStr)
	if err != nil {
		return Host{}, err
	}
	addressStr, err := popString(o, "HostIP", desc)
	if err != nil {
		return Host{}, err
	}
	address, err := wireIPv4ToDotted(addressStr)
	if err != nil {
		return Host{}, err
	}
	maskStr, err := popString(o, "Submask", desc)
	if err != nil {
		return Host{}, err
	}
	mask, err := netmaskFromJSON(maskStr)
	if err != nil {
		return Host{}, err
	}
	name, err := popString(o, "HostName", desc)
	if err != nil {
		return Host{}, err
	}
	tcpPort, err := popInt(o, "TCPPort", desc)
	if err != nil {
		return Host{}, err
	}
	udpPort, err := popInt(o, "UDPPort", desc)
	if err != nil {
		return Host{}, err
	}
	httpPort, err := popInt(o, "HttpPort", desc)
	if err != nil {
		return Host{}, err
	}
	httpsPort, err := popInt(o, "SSLPort", desc)
	if err != nil {
		return Host{}, err
	}
	channels, err := popInt(o, "ChannelNum", desc)
	if err != nil {
		return Host{}, err
	}
	maxConn, err := popInt(o, "TCPMaxConn", desc)
	if err != nil {
		return Host{}, err
	}
	if err := popFixedString(o, "MonMode", "TCP", desc); err != nil {
		return Host{}, err
	}
	maxBps, err := popInt(o, "MaxBps", desc)
	if err != nil {
		return Host{}, err
	}
	if err := popFixedString(o, "TransferPlan", "AutoAdapt", desc); err != nil {
		return Host{}, err
	}
	if err := popFixedBool(o, "UseHSDownLoad", false, desc); err != nil {
		return Host{}, err
	}
	connectState, err := popInt(o, "NetConnectState", desc)
	if err != nil {
		return Host{}, err
	}
	other, err := popString(o, "OtherFunction", desc)
	if err != nil {
		return Host{}, err
	}
	if err := o.done(desc); err != nil {
		return Host{}, err
	}
	return Host{
		Serial: serial, MAC: mac, Gateway: gateway, Address: address,
		MaskPrefix: mask, Name: name, TCPPort: tcpPort, UDPPort: udpPort,
		HTTPPort: httpPort, HTTPSPort: httpsPort, Channels: channels,
		MaxConnections: maxConn, MaxBitrate: maxBps, ConnectState: connectState,
		OtherFunction: other,
	}, nil
}

// DiscoverReply is the broadcast response a device sends to a Discover
// probe.
type DiscoverReply struct {
	Status  Status
	Session Session
	Host    Host
}

func (DiscoverReply) Type() uint16 { return DiscoverReplyType }

func (m DiscoverReply) ForJSON() (map[string]any, error) {
	host, err := m.Host.forJSON()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Ret":               m.Status.Code,
		"SessionID":         m.Session.forJSON(),
		"NetWork.NetCommon": host,
	}, nil
}

func discoverReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "discover reply"
	o, err := asObject(fields, desc)
	if err != nil {
		return nil, err
	}
	status, err := popStatus(o, "Ret", desc)
	if err != nil {
		return nil, err
	}
	session, err := popSession(o, "SessionID", desc)
	if err != nil {
		return nil, err
	}
	hostDatum, err := popRequired(o, "NetWork.NetCommon", desc)
	if err != nil {
		return nil, err
	}
	host, err := hostFromJSON(hostDatum)
	if err != nil {
		return nil, err
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return DiscoverReply{Status: status, Session: session, Host: host}, nil
}

// DecodeDiscoverReply decodes a DiscoverReply from already-unmarshalled
// JSON fields. It is exported for conn's UDP discovery loop, which
// bypasses the control-filter reassembly path (discovery packets are
// never fragmented).
func DecodeDiscoverReply(fields map[string]any) (Message, error) {
	return discoverReplyFromJSON(fields)
}
