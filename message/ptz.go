package message

// PTZButton is a pan/tilt/zoom control command.
type PTZButton string

const (
	PTZMenu        PTZButton = "Menu"
	PTZRight       PTZButton = "DirectionRight"
	PTZRightUp     PTZButton = "DirectionRightUp"
	PTZUp          PTZButton = "DirectionUp"
	PTZLeftUp      PTZButton = "DirectionLeftUp"
	PTZLeft        PTZButton = "DirectionLeft"
	PTZLeftDown    PTZButton = "DirectionLeftDown"
	PTZDown        PTZButton = "DirectionDown"
	PTZRightDown   PTZButton = "DirectionRightDown"
	PTZZoomIn      PTZButton = "ZoomTile" // sic: the firmware's own wire value is misspelled
	PTZZoomOut     PTZButton = "ZoomWide"
	PTZFocusNear   PTZButton = "FocusNear"
	PTZFocusFar    PTZButton = "FocusFar"
	PTZIrisOpen    PTZButton = "IrisLarge"
	PTZIrisClose   PTZButton = "IrisSmall"
	PTZAutoPanStop PTZButton = "AutoPanOff"
	PTZAutoPanGo   PTZButton = "AutoPanOn"
)

// PTZParams names the channel a PTZ command applies to. Every other member
// the wire requires (AUX, MenuOpts, POINT, Pattern, Preset, Step, Tour) is
// a fixed device parameter every command carries unchanged; the client has
// no way to vary them.
type PTZParams struct {
	Channel int
}

func (p PTZParams) forJSON() map[string]any {
	return map[string]any{
		"Channel":  p.Channel,
		"AUX":      map[string]any{"Number": 0, "Status": "On"},
		"MenuOpts": "Enter",
		"POINT":    map[string]any{"bottom": 0, "left": 0, "right": 0, "top": 0},
		"Pattern":  "SetBegin",
		"Preset":   65535,
		"Step":     5,
		"Tour":     0,
	}
}

// PTZ pairs a control button with the channel it applies to.
type PTZ struct {
	Button PTZButton
	Params PTZParams
}

// DoPTZ issues one pan/tilt/zoom command.
type DoPTZ struct {
	Session Session
	PTZ     PTZ
}

func (DoPTZ) Type() uint16 { return 1400 }

func (m DoPTZ) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Name":      "OPPTZControl",
		"SessionID": m.Session.forJSON(),
		"OPPTZControl": map[string]any{
			"Command":   string(m.PTZ.Button),
			"Parameter": m.PTZ.Params.forJSON(),
		},
	}, nil
}

func (DoPTZ) ReplyType() uint16 { return 1401 }

func (DoPTZ) DecodeReply(fields map[string]any) (Message, error) {
	return doPTZReplyFromJSON(fields)
}

// DoPTZReply confirms a PTZ command. Unlike most replies, its Name member
// is always empty rather than an echo of the request command.
type DoPTZReply struct {
	Status  Status
	Session Session
}

func (DoPTZReply) Type() uint16 { return 1401 }

func (m DoPTZReply) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Ret":       m.Status.Code,
		"Name":      "",
		"SessionID": m.Session.forJSON(),
	}, nil
}

func doPTZReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "do PTZ reply"
	o, err := asObject(fields, desc)
	if err != nil {
		return nil, err
	}
	status, err := popStatus(o, "Ret", desc)
	if err != nil {
		return nil, err
	}
	if err := popFixedString(o, "Name", "", desc); err != nil {
		return nil, err
	}
	session, err := popSession(o, "SessionID", desc)
	if err != nil {
		return nil, err
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return DoPTZReply{Status: status, Session: session}, nil
}
