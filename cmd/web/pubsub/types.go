package pubsub

import "github.com/Dynom/mxprobe/validator"

type Notification struct {
	SenderID string `json:"sid"`
	Data     Data   `json:"data"`
}

// Data is a completed check. The recipient is the hashed local part, as it's archived.
type Data struct {
	Domain    string              `json:"domain"`
	Recipient []byte              `json:"recipient"`
	Valid     bool                `json:"valid"`
	Kind      validator.ErrorKind `json:"kind"`
	Code      int                 `json:"code,omitempty"`
	MXHost    string              `json:"mx_host,omitempty"`
}
