package api

// WebhookMessage is the body posted to an incoming chat webhook.
type WebhookMessage struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

type Attachment struct {
	Text string `json:"text"`
}
