package models

// NoticeCreate is the POST body for appending a notice.
type NoticeCreate struct {
	Text string `json:"text"`
}

// NoticeUpdate is the PATCH body for replacing a single notice.
type NoticeUpdate struct {
	Text string `json:"text"`
}

// NoticesReplace is the PUT body for replacing the whole list.
// Revision, when set, must match the persisted revision or the write is
// rejected with a conflict. The If-Match header takes precedence.
type NoticesReplace struct {
	Notices  NoticeList `json:"notices"`
	Revision string     `json:"revision,omitempty"`
}

// LoginRequest is the POST body for the JSON admin login.
type LoginRequest struct {
	Password string `json:"password"`
}

// Info is the response body of GET /api/info.
type Info struct {
	Hostname string `json:"hostname"`
	Version  string `json:"version"`
	Notices  int    `json:"notices"`
	Revision string `json:"revision"`
}

// StatusLevel classifies a user-facing status message.
type StatusLevel string

// Status levels shown in the admin view.
const (
	StatusSuccess StatusLevel = "success"
	StatusInfo    StatusLevel = "info"
	StatusWarning StatusLevel = "warning"
)

// Status is a one-shot feedback message rendered after an admin action.
type Status struct {
	Level   StatusLevel `json:"level"`
	Message string      `json:"message"`
}
