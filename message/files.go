package message

import (
	"time"

	"dvrip/wire"
)

// File describes one recorded file entry a search can return.
type File struct {
	Name   string
	Disk   int
	Part   int
	Length uint32 // bytes, hex-integer on the wire
	Start  *time.Time
	End    *time.Time
}

func fileForJSON(f File) (map[string]any, error) {
	start, err := timeForJSON(f.Start)
	if err != nil {
		return nil, err
	}
	end, err := timeForJSON(f.End)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"FileName":   f.Name,
		"DiskNo":     f.Disk,
		"SerialNo":   f.Part,
		"FileLength": wire.HexString(f.Length),
		"BeginTime":  start,
		"EndTime":    end,
	}, nil
}

func fileFromJSON(datum any) (File, error) {
	const desc = "file entry"
	o, err := asObject(datum, desc)
	if err != nil {
		return File{}, err
	}
	name, err := popString(o, "FileName", desc)
	if err != nil {
		return File{}, err
	}
	disk, err := popInt(o, "DiskNo", desc)
	if err != nil {
		return File{}, err
	}
	part, err := popInt(o, "SerialNo", desc)
	if err != nil {
		return File{}, err
	}
	lengthStr, err := popString(o, "FileLength", desc)
	if err != nil {
		return File{}, err
	}
	length, err := wire.ParseHex(lengthStr)
	if err != nil {
		return File{}, err
	}
	start, err := popTime(o, "BeginTime", desc)
	if err != nil {
		return File{}, err
	}
	end, err := popTime(o, "EndTime", desc)
	if err != nil {
		return File{}, err
	}
	if err := o.done(desc); err != nil {
		return File{}, err
	}
	return File{Name: name, Disk: disk, Part: part, Length: length, Start: start, End: end}, nil
}

// FileType distinguishes video from still-image recordings.
type FileType string

const (
	FileVideo FileType = "h264"
	FileImage FileType = "jpg"
)

// FileQuery is the search filter used by GetFiles. Channel and Type select
// which recordings to search; Start/End bound the search window.
type FileQuery struct {
	Start   *time.Time
	End     *time.Time
	Channel int
	Type    FileType
}

func (q FileQuery) forJSON() (map[string]any, error) {
	start, err := timeForJSON(q.Start)
	if err != nil {
		return nil, err
	}
	end, err := timeForJSON(q.End)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"BeginTime": start,
		"EndTime":   end,
		"Channel":   q.Channel,
		"Event":     "*",
		"Type":      string(q.Type),
	}, nil
}

// GetFiles searches for recorded files in the given query window.
type GetFiles struct {
	Session Session
	Query   FileQuery
}

func (GetFiles) Type() uint16 { return 1440 }

func (m GetFiles) ForJSON() (map[string]any, error) {
	query, err := m.Query.forJSON()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"Name":        "OPFileQuery",
		"SessionID":   m.Session.forJSON(),
		"OPFileQuery": query,
	}, nil
}

func (GetFiles) ReplyType() uint16 { return 1441 }

func (GetFiles) DecodeReply(fields map[string]any) (Message, error) {
	return getFilesReplyFromJSON(fields)
}

// GetFilesReply returns a page of matching files. Files is nil once the
// search has been exhausted; Status distinguishes a complete result
// (SRCHCOMP), a partial one that needs another page (SRCHPART), and no
// results at all (SRCHNONE).
type GetFilesReply struct {
	Status  Status
	Command string
	Session Session
	Files   []File
}

func (GetFilesReply) Type() uint16 { return 1441 }

func (m GetFilesReply) ForJSON() (map[string]any, error) {
	fields := map[string]any{
		"Ret":       m.Status.Code,
		"Name":      m.Command,
		"SessionID": m.Session.forJSON(),
	}
	if m.Files != nil {
		files := make([]any, len(m.Files))
		for i, f := range m.Files {
			jf, err := fileForJSON(f)
			if err != nil {
				return nil, err
			}
			files[i] = jf
		}
		fields["OPFileQuery"] = files
	}
	return fields, nil
}

func getFilesReplyFromJSON(fields map[string]any) (Message, error) {
	const desc = "get files reply"
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
	var files []File
	if arr, ok, err := popArray(o, "OPFileQuery", desc); err != nil {
		return nil, err
	} else if ok {
		files = make([]File, len(arr))
		for i, v := range arr {
			f, err := fileFromJSON(v)
			if err != nil {
				return nil, err
			}
			files[i] = f
		}
	}
	if err := o.done(desc); err != nil {
		return nil, err
	}
	return GetFilesReply{Status: status, Command: command, Session: session, Files: files}, nil
}
