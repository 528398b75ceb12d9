package model

// ResolutionResponse is the outcome of a successful dnslink resolution.
// At least one field is always populated.
type ResolutionResponse struct {
	Skylink string `json:"skylink,omitempty"`
	Sponsor string `json:"sponsor,omitempty"`
	Path    string `json:"path,omitempty"`
}

type ErrorResponse struct {
	Status  int         `json:"status,omitempty"`
	Message string      `json:"msg,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
