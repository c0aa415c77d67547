// types.go — Network request records produced from protocol traffic.
// Request is the second input to the artifact builder: issues that
// reference a request are kept only when the referenced ID appears in
// the supplied records.
package netlog

// Request is one network request observed during a window, assembled
// from Network.* protocol events. RequestID is the protocol request
// identifier and is the only field artifact filtering consults; the
// rest is descriptive.
type Request struct {
	RequestID     string  `json:"requestId"`
	URL           string  `json:"url"`
	Method        string  `json:"method"`
	DocumentURL   string  `json:"documentUrl,omitempty"`
	ResourceType  string  `json:"resourceType,omitempty"`
	Status        int64   `json:"status,omitempty"`
	StatusText    string  `json:"statusText,omitempty"`
	MimeType      string  `json:"mimeType,omitempty"`
	Protocol      string  `json:"protocol,omitempty"`
	RemoteAddr    string  `json:"remoteAddr,omitempty"`
	Redirects     int     `json:"redirects,omitempty"`
	EncodedBytes  float64 `json:"encodedBytes,omitempty"`
	Finished      bool    `json:"finished"`
	Failed        bool    `json:"failed,omitempty"`
	Canceled      bool    `json:"canceled,omitempty"`
	ErrorText     string  `json:"errorText,omitempty"`
	BlockedReason string  `json:"blockedReason,omitempty"`
}

// IDs returns the request identifiers of records, in order. Convenience
// for callers that only need membership material.
func IDs(records []Request) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RequestID
	}
	return out
}
