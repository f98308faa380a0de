package message

import "dvrip/wire"

// Info selects which system information block GetInfo asks for. The
// device exposes only the system block; storage and link-status queries
// are present in some firmware as unimplemented stubs and have no defined
// wire schema, so this client does not offer them.
type Info string

const (
	InfoSystem Info = "SystemInfo"
)

// GetInfo requests the system information block.
type GetInfo struct {
	Command Info
	Session Session
}

func (GetInfo) Type() uint16 { return 1020 }

func (m GetInfo) ForJSON() (map[string]any, error) {
	return map[string]any{"Name": string(m.Command), "SessionID": m.Session.forJSON()}, nil
}

func (GetInfo) ReplyType() uint16 { return 1021 }

func (GetInfo) DecodeReply(fields map[string]any) (Message, error) {
	return getInfoReplyFromJSON(fields)
}

// SystemInfo describes the recorder's channel layout and firmware.
// Chassis is not part of the wire reply — callers fill it in from the
// login reply, as it is the only place the device reports it.
type SystemInfo struct {
	AlarmInChannels  int
	AlarmOutChannels int
	Build            string
	EncryptVersion   string
	HardwareVersion  string
	Serial           string
	SoftwareVersion  string
	TalkInChannels   int
	TalkOutChannels  int
	VideoInChannels  int
	VideoOutChannels int
	Views            int
	AudioInChannels  int
	Uptime           uint32 // minutes
	Chassis          string
}

func systemInfoForJSON(s SystemInfo) map[string]any {
	return map[string]any{
		"AlarmInChannel":  s.AlarmInChannels,
		"AlarmOutChannel": s.AlarmOutChannels,
		"BuildTime":       s.Build,
		"EncryptVersion":  wire.VersionString(s.EncryptVersion),
		"HardWareVersion": wire.VersionString(s.HardwareVersion),
		"SerialNo":        s.Serial,
		"SoftWareVersion": wire.VersionString(s.SoftwareVersion),
		"TalkInChannel":   s.TalkInChannels,
		"TalkOutChannel":  s.TalkOutChannels,
		"VideoInChannel":  s.VideoInChannels,
		"VideoOutChannel": s.VideoOutChannels,
		"ExtraChannel":    s.Views,
		"AudioInChannel":  s.AudioInChannels,
		"DeviceRunTime":   wire.HexString(s.Uptime),
	}
}

func systemInfoFromJSON(datum any) (SystemInfo, error) {
	const desc = "system info"
	o, err := asObject(datum, desc)
	if err != nil {
		return SystemInfo{}, err
	}
	alarmIn, err := popInt(o, "AlarmInChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	alarmOut, err := popInt(o, "AlarmOutChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	build, err := popString(o, "BuildTime", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	cryptoVer, err := popString(o, "EncryptVersion", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	hw, err := popString(o, "HardWareVersion", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	serial, err := popString(o, "SerialNo", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	sw, err := popString(o, "SoftWareVersion", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	talkIn, err := popInt(o, "TalkInChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	talkOut, err := popInt(o, "TalkOutChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	videoIn, err := popInt(o, "VideoInChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	videoOut, err := popInt(o, "VideoOutChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	views, err := popInt(o, "ExtraChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	audioIn, err := popInt(o, "AudioInChannel", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	uptimeStr, err := popString(o, "DeviceRunTime", desc)
	if err != nil {
		return SystemInfo{}, err
	}
	uptime, err := wire.ParseHex(uptimeStr)
	if err != nil {
		return SystemInfo{}, err
	}
	if err := o.done(desc); err != nil {
		return SystemInfo{}, err
	}
	return SystemInfo{
		AlarmInChannels: alarmIn, AlarmOutChannels: alarmOut, Build: build,
		EncryptVersion: wire.ParseVersion(cryptoVer), HardwareVersion: wire.ParseVersion(hw),
		Serial: serial, SoftwareVersion: wire.ParseVersion(sw),
		TalkInChannels: talkIn, TalkOutChannels: talkOut,
		VideoInChannels: videoIn, VideoOutChannels: videoOut,
		Views: views, AudioInChannels: audioIn, Uptime: uptime,
	}, nil
}

// GetInfoReply carries the requested system information block. System is
// nil when the reply has no SystemInfo member; SystemInfo is the only
// block this client requests.
type GetInfoReply struct {
	Status  Status
	Command Info
	Session Session
	System  *SystemInfo
}

func (GetInfoReply) Type() uint16 { return 1021 }

func (m GetInfoReply) ForJSON() (map[string]any, error) {
	fields := map[string]any{
		"Ret":       m.Status.Code,
		"Name":      string(m.Command),
		"SessionID": m.Session.forJSON(),
	}
	if m.System != nil {
		fields["SystemInfo"] = systemInfoForJSON(*m.System)
	}
	return fields, nil
}

func getInfoReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "get info reply"
	o, err := asObject(fields, desc)
	if err != nil {
		return nil, err
	}
	status, err := popStatus(o, "Ret", desc)
	if err != nil {
		return nil, err
	}
	name, err := popString(o, "Name", desc)
	if err != nil {
		return nil, err
	}
	session, err := popSession(o, "SessionID", desc)
	if err != nil {
		return nil, err
	}
	reply := GetInfoReply{Status: status, Command: Info(name), Session: session}
	if v, ok := o.pop("SystemInfo"); ok {
		sys, err := systemInfoFromJSON(v)
		if err != nil {
			return nil, err
		}
		reply.System = &sys
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return reply, nil
}
