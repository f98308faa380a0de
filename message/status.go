package message

import "dvrip/dverr"

// Status is one of the fixed reply status codes a DVRIP device returns.
// Success does not always mean "done": SRCHCOMP, SRCHPART and SRCHNONE are
// all successful but additionally tell a paging caller whether to keep
// requesting more pages.
type Status struct {
	Code    int
	Success bool
	Message string
}

// Bool reports whether the status indicates success, mirroring the
// original library's __bool__ on its status enum.
func (s Status) Bool() bool { return s.Success }

func (s Status) String() string { return s.Message }

var statusTable = []Status{
	{100, true, "OK"},
	{101, false, "Unknown error"},
	{102, false, "Invalid version"},
	{103, false, "Invalid request"},
	{104, false, "Already logged in"},
	{105, false, "Not logged in"},
	{106, false, "Wrong username or password"},
	{107, false, "Access denied"},
	{108, false, "Timed out"},
	{109, false, "File not found"},
	{110, true, "Complete search results"},
	{111, true, "Partial search results"},
	{112, false, "User already exists"},
	{113, false, "User does not exist"},
	{114, false, "Group already exists"},
	{115, false, "Group does not exist"},
	{117, false, "Invalid message"},
	{118, false, "PTZ protocol not set"},
	{119, true, "No search results"},
	{120, false, "Disabled"},
	{121, false, "Channel not connected"},
	{150, true, "Reboot required"},
	{202, false, "Error 202"},
	{203, false, "Wrong password"},
	{204, false, "Wrong username"},
	{205, false, "Locked out"},
	{206, false, "Banned"},
	{207, false, "Already logged in"},
	{208, false, "Illegal value"},
	{209, false, "Error 209"},
	{210, false, "Error 210"},
	{211, false, "Object does not exist"},
	{212, false, "Account in use"},
	{213, false, "Subset larger than superset"},
	{214, false, "Illegal characters in password"},
	{215, false, "Passwords do not match"},
	{216, false, "Username reserved"},
	{502, false, "Illegal command"},
	{503, true, "Intercom turned on"},
	{504, true, "Intercom turned off"},
	{511, true, "Upgrade started"},
	{512, false, "Upgrade not started"},
	{513, false, "Invalid upgrade data"},
	{514, true, "Upgrade successful"},
	{515, false, "Upgrade failed"},
	{521, false, "Reset failed"},
	{522, true, "Reset successful--reboot required"},
	{523, false, "Reset data invalid"},
	{602, true, "Import successful--restart required"},
	{603, true, "Import successful--reboot required"},
	{604, false, "Configuration write failed"},
	{605, false, "Unsupported feature in configuration"},
	{606, false, "Configuration read failed"},
	{607, false, "Configuration not found"},
	{608, false, "Illegal configuration syntax"},
}

var statusByCode = func() map[int]Status {
	m := make(map[int]Status, len(statusTable))
	for _, s := range statusTable {
		m[s.Code] = s
	}
	return m
}()

// SRCHCOMP, SRCHPART and SRCHNONE are the three successful statuses a
// paginated search reply can carry, distinguishing "no more pages" from
// "more pages available" from "no results at all".
var (
	SRCHCOMP = statusByCode[110]
	SRCHPART = statusByCode[111]
	SRCHNONE = statusByCode[119]
	OK       = statusByCode[100]
)

// StatusFromCode looks up a Status by its wire code.
func StatusFromCode(code int) (Status, error) {
	s, ok := statusByCode[code]
	if !ok {
		return Status{}, dverr.Decodef("%d is not a known status code", code)
	}
	return s, nil
}

func popStatus(o object, key, description string) (Status, error) {
	code, err := popInt(o, key, description)
	if err != nil {
		return Status{}, err
	}
	return StatusFromCode(code)
}
