package message

import (
	"fmt"
	"strings"
	"time"
)

// EntryType classifies a log entry.
type EntryType string

const (
	EntryReboot     EntryType = "Reboot"
	EntryShutDown   EntryType = "ShutDown"
	EntryLogIn      EntryType = "LogIn"
	EntryLogOut     EntryType = "LogOut"
	EntryEventStart EntryType = "EventStart"
	EntryEventStop  EntryType = "EventStop"
	EntrySetTime    EntryType = "SetTime"
)

// ConnectionEntry is the "user,service" or "user,service:host" payload a
// LogIn/LogOut entry packs into its Data field. It is not a separate wire
// member — callers parse it out of Entry.Data when Type indicates a login
// event.
type ConnectionEntry struct {
	User    string
	Service string
	Host    string // empty if the entry carried no host part
}

// ParseConnectionEntry unpacks a log entry's Data field into its
// user/service/host parts.
func ParseConnectionEntry(data string) (ConnectionEntry, error) {
	userService, host, hasHost := strings.Cut(data, ":")
	user, service, ok := strings.Cut(userService, ",")
	if !ok {
		return ConnectionEntry{}, fmt.Errorf("dvrip: %q is not a user,service log entry", data)
	}
	c := ConnectionEntry{User: user, Service: service}
	if hasHost {
		c.Host = host
	}
	return c, nil
}

func (c ConnectionEntry) String() string {
	if c.Host == "" {
		return c.User + "," + c.Service
	}
	return c.User + "," + c.Service + ":" + c.Host
}

// Entry is one record out of the device's event log. User is always
// "System" on the wire; Data's interpretation depends on Type.
type Entry struct {
	Position int
	Time     *time.Time
	Type     EntryType
	Data     string
}

const entryUser = "System"

func entryForJSON(e Entry) (map[string]any, error) {
	t, err := timeForJSON(e.Time)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Position": e.Position,
		"Time":     t,
		"User":     entryUser,
		"Type":     string(e.Type),
		"Data":     e.Data,
	}, nil
}

func entryFromJSON(datum any) (Entry, error) {
	const desc = "log entry"
	o, err := asObject(datum, desc)
	if err != nil {
		return Entry{}, err
	}
	position, err := popInt(o, "Position", desc)
	if err != nil {
		return Entry{}, err
	}
	t, err := popTime(o, "Time", desc)
	if err != nil {
		return Entry{}, err
	}
	if err := popFixedString(o, "User", entryUser, desc); err != nil {
		return Entry{}, err
	}
	kind, err := popString(o, "Type", desc)
	if err != nil {
		return Entry{}, err
	}
	data := popOptionalString(o, "Data", "")
	if err := o.done(desc); err != nil {
		return Entry{}, err
	}
	return Entry{Position: position, Time: t, Type: EntryType(kind), Data: data}, nil
}

// LogQuery searches the device's event log over a time window, with Offset
// paginating through results. The device's query category is fixed to
// "all entries" — there is no server-side filter by EntryType.
type LogQuery struct {
	Offset int
	Start  *time.Time
	End    *time.Time
}

const logQueryType = "LogAll"

func (q LogQuery) forJSON() (map[string]any, error) {
	start, err := timeForJSON(q.Start)
	if err != nil {
		return nil, err
	}
	end, err := timeForJSON(q.End)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"BeginTime":   start,
		"EndTime":     end,
		"LogPosition": q.Offset,
		"Type":        logQueryType,
	}, nil
}

// GetLog searches the device's event log.
type GetLog struct {
	Session Session
	Query   LogQuery
}

func (GetLog) Type() uint16 { return 1442 }

func (m GetLog) ForJSON() (map[string]any, error) {
	query, err := m.Query.forJSON()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Name":       "OPLogQuery",
		"SessionID":  m.Session.forJSON(),
		"OPLogQuery": query,
	}, nil
}

func (GetLog) ReplyType() uint16 { return 1443 }

func (GetLog) DecodeReply(fields map[string]any) (Message, error) {
	return getLogReplyFromJSON(fields)
}

// GetLogReply returns a page of matching log entries. Entries is nil once
// the search is exhausted.
type GetLogReply struct {
	Status  Status
	Command string
	Session Session
	Entries []Entry
}

func (GetLogReply) Type() uint16 { return 1443 }

func (m GetLogReply) ForJSON() (map[string]any, error) {
	fields := map[string]any{
		"Ret":       m.Status.Code,
		"Name":      m.Command,
		"SessionID": m.Session.forJSON(),
	}
	if m.Entries != nil {
		entries := make([]any, len(m.Entries))
		for i, e := range m.Entries {
			je, err := entryForJSON(e)
			if err != nil {
				return nil, err
			}
			entries[i] = je
		}
		fields["OPLogQuery"] = entries
	}
	return fields, nil
}

func getLogReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "get log reply"
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
	var entries []Entry
	if arr, ok, err := popArray(o, "OPLogQuery", desc); err != nil {
		return nil, err
	} else if ok {
		entries = make([]Entry, len(arr))
		for i, v := range arr {
			e, err := entryFromJSON(v)
			if err != nil {
				return nil, err
			}
			entries[i] = e
		}
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return GetLogReply{Status: status, Command: command, Session: session, Entries: entries}, nil
}
