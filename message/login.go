package message

import "dvrip/wire"

// ClientLogin is the first request sent on a new connection. Password is
// transmitted pre-hashed with wire.XMMD5, never in the clear.
type ClientLogin struct {
	Username string
	PassHash string
	Service  string // defaults to "DVRIP-Web" when empty
}

func (ClientLogin) Type() uint16 { return 1000 }

func (m ClientLogin) service() string {
	if m.Service == "" {
		return "DVRIP-Web"
	}
	return m.Service
}

func (m ClientLogin) ForJSON() (map[string]any, error) {
	return map[string]any{
		"UserName":    m.Username,
		"PassWord":    m.PassHash,
		"EncryptType": "MD5",
		"LoginType":   m.service(),
	}, nil
}

func (ClientLogin) ReplyType() uint16 { return 1001 }

func (ClientLogin) DecodeReply(fields map[string]any) (Message, error) {
	return clientLoginReplyFromJSON(fields)
}

// ClientLoginReply carries the negotiated session and channel counts.
// Chassis is read from the "DeviceType " key, trailing space included, as
// the device actually sends it.
type ClientLoginReply struct {
	Status   Status
	Session  Session
	Timeout  int
	Channels int
	Views    int
	Chassis  string
	Encrypt  bool
}

func (ClientLoginReply) Type() uint16 { return 1001 }

func (m ClientLoginReply) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Ret":           m.Status.Code,
		"SessionID":     m.Session.forJSON(),
		"AliveInterval": m.Timeout,
		"ChannelNum":    m.Channels,
		"ExtraChannel":  m.Views,
		"DeviceType ":   m.Chassis,
		"DataUseAES":    m.Encrypt,
	}, nil
}

func clientLoginReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "client login reply"
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
	timeout, err := popInt(o, "AliveInterval", desc)
	if err != nil {
		return nil, err
	}
	channels, err := popInt(o, "ChannelNum", desc)
	if err != nil {
		return nil, err
	}
	views, err := popInt(o, "ExtraChannel", desc)
	if err != nil {
		return nil, err
	}
	chassis, err := popString(o, "DeviceType ", desc)
	if err != nil {
		return nil, err
	}
	encrypt, err := popBool(o, "DataUseAES", desc, false)
	if err != nil {
		return nil, err
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return ClientLoginReply{
		Status: status, Session: session, Timeout: timeout,
		Channels: channels, Views: views, Chassis: chassis, Encrypt: encrypt,
	}, nil
}

// ClientLogout ends a session.
type ClientLogout struct {
	Username string
	Session  Session
}

func (ClientLogout) Type() uint16 { return 1002 }

func (m ClientLogout) ForJSON() (map[string]any, error) {
	return map[string]any{"Name": m.Username, "SessionID": m.Session.forJSON()}, nil
}

func (ClientLogout) ReplyType() uint16 { return 1003 }

func (ClientLogout) DecodeReply(fields map[string]any) (Message, error) {
	return clientLogoutReplyFromJSON(fields)
}

// ClientLogoutReply confirms a logout.
type ClientLogoutReply struct {
	Status   Status
	Username string
	Session  Session
}

func (ClientLogoutReply) Type() uint16 { return 1003 }

func (m ClientLogoutReply) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Ret":       m.Status.Code,
		"Name":      m.Username,
		"SessionID": m.Session.forJSON(),
	}, nil
}

func clientLogoutReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "client logout reply"
	o, err := asObject(fields, desc)
	if err != nil {
		return nil, err
	}
	status, err := popStatus(o, "Ret", desc)
	if err != nil {
		return nil, err
	}
	username, err := popString(o, "Name", desc)
	if err != nil {
		return nil, err
	}
	session, err := popSession(o, "SessionID", desc)
	if err != nil {
		return nil, err
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return ClientLogoutReply{Status: status, Username: username, Session: session}, nil
}

// KeepAlive pings a session so the device does not expire it.
type KeepAlive struct {
	Session Session
}

func (KeepAlive) Type() uint16 { return 1006 }

func (m KeepAlive) ForJSON() (map[string]any, error) {
	return map[string]any{"Name": "KeepAlive", "SessionID": m.Session.forJSON()}, nil
}

func (KeepAlive) ReplyType() uint16 { return 1007 }

func (KeepAlive) DecodeReply(fields map[string]any) (Message, error) {
	return keepAliveReplyFromJSON(fields)
}

// KeepAliveReply confirms a keep-alive ping.
type KeepAliveReply struct {
	Status  Status
	Session Session
}

func (KeepAliveReply) Type() uint16 { return 1007 }

func (m KeepAliveReply) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Ret":       m.Status.Code,
		"Name":      "KeepAlive",
		"SessionID": m.Session.forJSON(),
	}, nil
}

func keepAliveReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "keep-alive reply"
	o, err := asObject(fields, desc)
	if err != nil {
		return nil, err
	}
	status, err := popStatus(o, "Ret", desc)
	if err != nil {
		return nil, err
	}
	if _, err := popRequired(o, "Name", desc); err != nil {
		return nil, err
	}
	session, err := popSession(o, "SessionID", desc)
	if err != nil {
		return nil, err
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return KeepAliveReply{Status: status, Session: session}, nil
}

// XMMD5 hashes password the way a client login must before sending it.
func XMMD5(password string) string { return wire.XMMD5(password) }
