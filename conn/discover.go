package conn

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"os"
	"time"

	"dvrip/dverr"
	"dvrip/message"
	"dvrip/packet"
)

// DiscoverPort is the UDP port DVRIP devices listen for broadcast
// discovery probes on.
const DiscoverPort = 34569

// Discover broadcasts a discovery probe on iface and collects replies
// until timeout elapses. Each reply's reported address is checked against
// the socket address it actually arrived from, rejecting a spoofed
// response from a host impersonating another device's identity.
func Discover(iface string, timeout time.Duration) ([]message.Host, error) {
	local := &net.UDPAddr{IP: net.ParseIP(iface), Port: DiscoverPort}
	sock, err := net.ListenUDP("udp4", local)
	if err != nil {
		return nil, err
	}
	defer sock.Close()

	var req bytes.Buffer
	if err := packet.Encode(&req, packet.Packet{Type: message.DiscoverRequestType}); err != nil {
		return nil, err
	}
	broadcast := &net.UDPAddr{IP: net.IPv4bcast, Port: DiscoverPort}
	if _, err := sock.WriteToUDP(req.Bytes(), broadcast); err != nil {
		return nil, err
	}

	if err := sock.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	var hosts []message.Host
	buf := make([]byte, packet.MaxPayload+64)
	for {
		n, raddr, err := sock.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				break
			}
			return hosts, err
		}

		p, err := packet.Decode(bytes.NewReader(buf[:n]))
		if err != nil {
			continue
		}
		if len(p.Payload) == 0 {
			continue
		}

		var datum any
		if err := json.Unmarshal(p.Payload, &datum); err != nil {
			continue
		}
		fields, ok := datum.(map[string]any)
		if !ok {
			continue
		}
		msg, err := message.DecodeDiscoverReply(fields)
		if err != nil {
			return hosts, err
		}
		reply := msg.(message.DiscoverReply)

		if reply.Host.Address != raddr.IP.String() {
			return hosts, dverr.Decode("discovery reply reported an address different from its sender")
		}
		hosts = append(hosts, reply.Host)
	}
	return hosts, nil
}
