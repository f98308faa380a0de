package message

import "time"

// PlaybackAction starts or stops a recorded-file download.
type PlaybackAction string

const (
	PlaybackDownloadStart PlaybackAction = "DownloadStart"
	PlaybackDownloadStop  PlaybackAction = "DownloadStop"
)

// PlaybackParams names the file to download. TransMode is fixed to "TCP"
// on the wire; downloads over UDP are not something this client offers.
type PlaybackParams struct {
	Name string
}

func (p PlaybackParams) forJSON() map[string]any {
	return map[string]any{"FileName": p.Name, "TransMode": "TCP"}
}

func playbackParamsFromJSON(datum any) (PlaybackParams, error) {
	const desc = "playback parameters"
	o, err := asObject(datum, desc)
	if err != nil {
		return PlaybackParams{}, err
	}
	name, err := popString(o, "FileName", desc)
	if err != nil {
		return PlaybackParams{}, err
	}
	if err := popFixedString(o, "TransMode", "TCP", desc); err != nil {
		return PlaybackParams{}, err
	}
	if err := o.done(desc); err != nil {
		return PlaybackParams{}, err
	}
	return PlaybackParams{Name: name}, nil
}

// Playback is the action/window/file triple shared by DoPlayback and
// PlaybackClaim.
type Playback struct {
	Action PlaybackAction
	Start  *time.Time
	End    *time.Time
	Params PlaybackParams
}

func (p Playback) forJSON() (map[string]any, error) {
	start, err := timeForJSON(p.Start)
	if err != nil {
		return nil, err
	}
	end, err := timeForJSON(p.End)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Action":    string(p.Action),
		"BeginTime": start,
		"EndTime":   end,
		"Parameter": p.Params.forJSON(),
	}, nil
}

// DoPlayback starts or stops a download on the control connection.
type DoPlayback struct {
	Session  Session
	Playback Playback
}

func (DoPlayback) Type() uint16 { return 1420 }

func (m DoPlayback) ForJSON() (map[string]any, error) {
	pb, err := m.Playback.forJSON()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Name":       "OPPlayBack",
		"SessionID":  m.Session.forJSON(),
		"OPPlayBack": pb,
	}, nil
}

func (DoPlayback) ReplyType() uint16 { return 1421 }

func (DoPlayback) DecodeReply(fields map[string]any) (Message, error) {
	return doPlaybackReplyFromJSON(fields)
}

// DoPlaybackReply confirms a download start/stop.
type DoPlaybackReply struct {
	Status  Status
	Session Session
}

func (DoPlaybackReply) Type() uint16 { return 1421 }

func (m DoPlaybackReply) ForJSON() (map[string]any, error) {
	return map[string]any{"Ret": m.Status.Code, "Name": "OPPlayBack", "SessionID": m.Session.forJSON()}, nil
}

func doPlaybackReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "do playback reply"
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
	return DoPlaybackReply{Status: status, Session: session}, nil
}

// PlaybackClaim opens the paired data connection a download streams over.
type PlaybackClaim struct {
	Session  Session
	Playback Playback
}

func (PlaybackClaim) Type() uint16 { return 1424 }

func (m PlaybackClaim) ForJSON() (map[string]any, error) {
	pb, err := m.Playback.forJSON()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Name":       "OPPlayBack",
		"SessionID":  m.Session.forJSON(),
		"OPPlayBack": pb,
	}, nil
}

func (PlaybackClaim) ReplyType() uint16 { return 1425 }

func (PlaybackClaim) DataType() uint16 { return 1426 }

func (PlaybackClaim) DecodeReply(fields map[string]any) (Message, error) {
	return playbackClaimReplyFromJSON(fields)
}

// PlaybackClaimReply confirms a download data connection claim. It shares
// DoPlaybackReply's wire shape, including its "OPPlayBack" command name —
// the claim is a DoPlayback variant, not a distinct command.
type PlaybackClaimReply struct {
	Status  Status
	Session Session
}

func (PlaybackClaimReply) Type() uint16 { return 1425 }

func (m PlaybackClaimReply) ForJSON() (map[string]any, error) {
	return map[string]any{"Ret": m.Status.Code, "Name": "OPPlayBack", "SessionID": m.Session.forJSON()}, nil
}

func playbackClaimReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "playback claim reply"
	o, err := asObject(fields, desc)
	if err != nil {
		return nil, err
	}
	status, err := popStatus(o, "Ret", desc)
	if err != nil {
		return nil, err
	}
	if err := popFixedString(o, "Name", "OPPlayBack", desc); err != nil {
		return nil, err
	}
	session, err := popSession(o, "SessionID", desc)
	if err != nil {
		return nil, err
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return PlaybackClaimReply{Status: status, Session: session}, nil
}
