package message

import (
	"time"

	"dvrip/dverr"
)

// Operation selects which device operation DoOperation performs.
type Operation string

const (
	OperationMachine Operation = "OPMachine"
	OperationLog     Operation = "OPLogManager"
	OperationReset   Operation = "OPDefaultConfig"
	OperationSetTime Operation = "OPTimeSetting"
)

// Machine is a power-state action for MachineOperation. The real protocol
// only exposes a reboot; there is no remote power-off.
type Machine string

const (
	MachineReboot Machine = "Reboot"
)

// MachineOperation reboots the device.
type MachineOperation struct {
	Action Machine
}

// Log is the action LogOperation performs.
type Log string

const (
	LogClear Log = "RemoveAll"
)

// LogOperation clears the device's event log.
type LogOperation struct {
	Action Log
}

// ResetOperation restores factory configuration. Each field selects
// whether that configuration area is reset; the device has no bulk
// "reset everything" flag, so callers set the areas they want cleared.
type ResetOperation struct {
	Account   bool
	Alarm     bool
	CommPtz   bool
	Encode    bool
	General   bool
	NetCommon bool
	NetServer bool
	Preview   bool
	Record    bool
}

func (r ResetOperation) forJSON() map[string]any {
	return map[string]any{
		"Account":   r.Account,
		"Alarm":     r.Alarm,
		"CommPtz":   r.CommPtz,
		"Encode":    r.Encode,
		"General":   r.General,
		"NetCommon": r.NetCommon,
		"NetServer": r.NetServer,
		"Preview":   r.Preview,
		"Record":    r.Record,
	}
}

func resetOperationFromJSON(datum any) (ResetOperation, error) {
	const desc = "reset operation"
	o, err := asObject(datum, desc)
	if err != nil {
		return ResetOperation{}, err
	}
	account, err := popBool(o, "Account", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	alarm, err := popBool(o, "Alarm", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	commPtz, err := popBool(o, "CommPtz", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	encode, err := popBool(o, "Encode", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	general, err := popBool(o, "General", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	netCommon, err := popBool(o, "NetCommon", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	netServer, err := popBool(o, "NetServer", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	preview, err := popBool(o, "Preview", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	record, err := popBool(o, "Record", desc, false)
	if err != nil {
		return ResetOperation{}, err
	}
	if err := o.done(desc); err != nil {
		return ResetOperation{}, err
	}
	return ResetOperation{
		Account: account, Alarm: alarm, CommPtz: commPtz, Encode: encode,
		General: general, NetCommon: netCommon, NetServer: netServer,
		Preview: preview, Record: record,
	}, nil
}

// DoOperation performs exactly one of a reboot, a log clear, a factory
// reset, or a clock set, selected by Command.
type DoOperation struct {
	Session Session
	Command Operation
	Machine *MachineOperation
	Log     *LogOperation
	Reset   *ResetOperation
	SetTime *time.Time
}

func (DoOperation) Type() uint16 { return 1450 }

func (m DoOperation) ForJSON() (map[string]any, error) {
	fields := map[string]any{
		"Name":      string(m.Command),
		"SessionID": m.Session.forJSON(),
	}
	switch m.Command {
	case OperationMachine:
		if m.Machine == nil {
			dverr.Programmer("DoOperation command OPMachine without a MachineOperation")
		}
		fields[string(m.Command)] = map[string]any{"Action": string(m.Machine.Action)}
	case OperationLog:
		if m.Log == nil {
			dverr.Programmer("DoOperation command OPLogManager without a LogOperation")
		}
		fields[string(m.Command)] = map[string]any{"Action": string(m.Log.Action)}
	case OperationReset:
		if m.Reset == nil {
			dverr.Programmer("DoOperation command OPDefaultConfig without a ResetOperation")
		}
		fields[string(m.Command)] = m.Reset.forJSON()
	case OperationSetTime:
		s, err := timeForJSON(m.SetTime)
		if err != nil {
			return nil, err
		}
		fields[string(m.Command)] = s
	default:
		dverr.Programmer("unknown DoOperation command %q", m.Command)
	}
	return fields, nil
}

func (DoOperation) ReplyType() uint16 { return 1451 }

func (DoOperation) DecodeReply(fields map[string]any) (Message, error) {
	return doOperationReplyFromJSON(fields)
}

// DoOperationReply confirms an operation request.
type DoOperationReply struct {
	Status  Status
	Command Operation
	Session Session
}

func (DoOperationReply) Type() uint16 { return 1451 }

func (m DoOperationReply) ForJSON() (map[string]any, error) {
	return map[string]any{
		"Ret":       m.Status.Code,
		"Name":      string(m.Command),
		"SessionID": m.Session.forJSON(),
	}, nil
}

func doOperationReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "do operation reply"
	o, err := asObject(fields, desc)
	if err != nil {
		return nil, err
	}
	status, err := popStatus(o, "Ret", desc)
	if err != nil {
		return nil, err
	}
	command, err := popString(o, "Name", desc)
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
	return DoOperationReply{Status: status, Command: Operation(command), Session: session}, nil
}

// GetTime reads the device's current clock.
type GetTime struct {
	Session Session
}

func (GetTime) Type() uint16 { return 1452 }

func (m GetTime) ForJSON() (map[string]any, error) {
	return map[string]any{"Name": "OPTimeQuery", "SessionID": m.Session.forJSON()}, nil
}

func (GetTime) ReplyType() uint16 { return 1453 }

func (GetTime) DecodeReply(fields map[string]any) (Message, error) {
	return getTimeReplyFromJSON(fields)
}

// GetTimeReply returns the device's current clock value.
type GetTimeReply struct {
	Status  Status
	Session Session
	Time    *time.Time
}

func (GetTimeReply) Type() uint16 { return 1453 }

func (m GetTimeReply) ForJSON() (map[string]any, error) {
	t, err := timeForJSON(m.Time)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Ret":         m.Status.Code,
		"Name":        "OPTimeQuery",
		"SessionID":   m.Session.forJSON(),
		"OPTimeQuery": t,
	}, nil
}

func getTimeReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "get time reply"
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
	t, err := popTime(o, "OPTimeQuery", desc)
	if err != nil {
		return nil, err
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return GetTimeReply{Status: status, Session: session, Time: t}, nil
}
