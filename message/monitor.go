package message

// Stream selects which encoded quality of a channel to view or record.
type Stream string

const (
	StreamMain  Stream = "Main"
	StreamExtra Stream = "Extra"
)

// MonitorAction starts or stops live view on a claimed data connection.
type MonitorAction string

const (
	MonitorStart MonitorAction = "Start"
	MonitorStop  MonitorAction = "Stop"
)

// MonitorParams names the channel and stream quality to view.
type MonitorParams struct {
	Channel int
	Stream  Stream
}

func (p MonitorParams) forJSON() map[string]any {
	return map[string]any{"Channel": p.Channel, "StreamType": string(p.Stream)}
}

func monitorParamsFromJSON(datum any) (MonitorParams, error) {
	const desc = "monitor parameters"
	o, err := asObject(datum, desc)
	if err != nil {
		return MonitorParams{}, err
	}
	channel, err := popInt(o, "Channel", desc)
	if err != nil {
		return MonitorParams{}, err
	}
	stream, err := popString(o, "StreamType", desc)
	if err != nil {
		return MonitorParams{}, err
	}
	if err := o.done(desc); err != nil {
		return MonitorParams{}, err
	}
	return MonitorParams{Channel: channel, Stream: Stream(stream)}, nil
}

// Monitor is the action/parameter pair shared by DoMonitor and
// MonitorClaim — both requests describe the same live view, one to start
// it, the other to open the data connection that carries it.
type Monitor struct {
	Action MonitorAction
	Params MonitorParams
}

func (m Monitor) forJSON() map[string]any {
	return map[string]any{"Action": string(m.Action), "Parameter": m.Params.forJSON()}
}

// DoMonitor starts or stops live view on the control connection.
type DoMonitor struct {
	Session Session
	Monitor Monitor
}

func (DoMonitor) Type() uint16 { return 1410 }

func (m DoMonitor) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Name":      "OPMonitor",
		"SessionID": m.Session.forJSON(),
		"OPMonitor": m.Monitor.forJSON(),
	}, nil
}

func (DoMonitor) ReplyType() uint16 { return 1411 }

func (DoMonitor) DecodeReply(fields map[string]any) (Message, error) {
	return doMonitorReplyFromJSON(fields)
}

// DoMonitorReply confirms a live-view start/stop.
type DoMonitorReply struct {
	Status  Status
	Session Session
}

func (DoMonitorReply) Type() uint16 { return 1411 }

func (m DoMonitorReply) ForJSON() (map[string]any, error) {
	return map[string]any{"Ret": m.Status.Code, "Name": "OPMonitor", "SessionID": m.Session.forJSON()}, nil
}

func doMonitorReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "do monitor reply"
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
	return DoMonitorReply{Status: status, Session: session}, nil
}

// MonitorClaim opens the paired data connection a live view streams over.
// Its reply confirms the claim; the raw video then arrives as data
// packets of DataType on that same connection.
type MonitorClaim struct {
	Session Session
	Monitor Monitor
}

func (MonitorClaim) Type() uint16 { return 1413 }

func (m MonitorClaim) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Name":      "OPMonitorClaim",
		"SessionID": m.Session.forJSON(),
		"OPMonitor": m.Monitor.forJSON(),
	}, nil
}

func (MonitorClaim) ReplyType() uint16 { return 1414 }

func (MonitorClaim) DataType() uint16 { return 1412 }

func (MonitorClaim) DecodeReply(fields map[string]any) (Message, error) {
	return monitorClaimReplyFromJSON(fields)
}

// MonitorClaimReply confirms a live-view data connection claim.
type MonitorClaimReply struct {
	Status  Status
	Session Session
}

func (MonitorClaimReply) Type() uint16 { return 1414 }

func (m MonitorClaimReply) ForJSON() (map[string]any, error) {
	return map[string]any{"Ret": m.Status.Code, "Name": "OPMonitorClaim", "SessionID": m.Session.forJSON()}, nil
}

func monitorClaimReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "monitor claim reply"
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
	return MonitorClaimReply{Status: status, Session: session}, nil
}
