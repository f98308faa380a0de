package message

// Outcomer is implemented by every reply message, exposing its status so
// a connection can turn a failure status into a request error uniformly
// regardless of reply type.
type Outcomer interface {
	Outcome() Status
}

func (m ClientLoginReply) Outcome() Status    { return m.Status }
func (m ClientLogoutReply) Outcome() Status   { return m.Status }
func (m KeepAliveReply) Outcome() Status      { return m.Status }
func (m GetInfoReply) Outcome() Status        { return m.Status }
func (m GetFilesReply) Outcome() Status       { return m.Status }
func (m GetLogReply) Outcome() Status         { return m.Status }
func (m DoOperationReply) Outcome() Status    { return m.Status }
func (m GetTimeReply) Outcome() Status        { return m.Status }
func (m DoPTZReply) Outcome() Status          { return m.Status }
func (m DoMonitorReply) Outcome() Status      { return m.Status }
func (m MonitorClaimReply) Outcome() Status   { return m.Status }
func (m DoPlaybackReply) Outcome() Status     { return m.Status }
func (m PlaybackClaimReply) Outcome() Status  { return m.Status }
