package mail

// Recipient is one addressee of a bulk send.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SendRequest is the body of the send-email endpoint. It is a bulk request
// when recipients or htmlTemplate is present, otherwise a single send.
type SendRequest struct {
	To           string      `json:"to"`
	Subject      string      `json:"subject"`
	HTML         string      `json:"html"`
	From         string      `json:"from"`
	Recipients   []Recipient `json:"recipients"`
	HTMLTemplate string      `json:"htmlTemplate"`
}

// IsBulk reports whether the request targets a recipient list.
func (r *SendRequest) IsBulk() bool {
	return len(r.Recipients) > 0 || r.HTMLTemplate != ""
}

// SendResponse is the provider response for one message.
type SendResponse struct {
	ID string `json:"id"`
}

// Result statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// BulkResult is the outcome for one recipient.
type BulkResult struct {
	Email  string        `json:"email"`
	Status string        `json:"status"`
	Data   *SendResponse `json:"data,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// BulkResponse lists per-recipient outcomes in request order.
type BulkResponse struct {
	Results []BulkResult `json:"results"`
}
