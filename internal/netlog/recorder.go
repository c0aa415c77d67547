// recorder.go — Replays Network.* protocol events into request records.
// One record per protocol request ID, first-seen order preserved.
// Redirect hops reuse the original ID, so they update the existing
// record instead of opening a new one.
package netlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/network"

	"github.com/issuetap/issuetap/internal/devtools"
)

// Recorder assembles Request records from a stream of protocol
// messages. Not safe for concurrent use; feed it from one goroutine or
// replay a Log snapshot.
type Recorder struct {
	order []string
	byID  map[string]*Request
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{byID: make(map[string]*Request)}
}

// Observe folds one protocol message into the recorder state. Messages
// that are not network events, or that do not decode, are ignored.
func (r *Recorder) Observe(m devtools.Message) {
	switch m.Method {
	case devtools.EventRequestWillBeSent:
		var ev network.EventRequestWillBeSent
		if err := json.Unmarshal(m.Params, &ev); err != nil || ev.RequestID == "" || ev.Request == nil {
			return
		}
		id := string(ev.RequestID)
		req := r.byID[id]
		if req == nil {
			req = &Request{RequestID: id}
			r.byID[id] = req
			r.order = append(r.order, id)
		} else if ev.RedirectResponse != nil {
			// The hop that just ended answered with the redirect
			// response; carry its status until the final response
			// arrives.
			req.Redirects++
			req.Status = ev.RedirectResponse.Status
			req.StatusText = ev.RedirectResponse.StatusText
		}
		req.URL = ev.Request.URL
		req.Method = ev.Request.Method
		if ev.DocumentURL != "" {
			req.DocumentURL = ev.DocumentURL
		}
		if ev.Type != "" {
			req.ResourceType = string(ev.Type)
		}

	case devtools.EventResponseReceived:
		var ev network.EventResponseReceived
		if err := json.Unmarshal(m.Params, &ev); err != nil || ev.RequestID == "" || ev.Response == nil {
			return
		}
		req := r.byID[string(ev.RequestID)]
		if req == nil {
			return
		}
		req.Status = ev.Response.Status
		req.StatusText = ev.Response.StatusText
		req.MimeType = ev.Response.MimeType
		req.Protocol = ev.Response.Protocol
		if ev.Response.RemoteIPAddress != "" {
			req.RemoteAddr = fmt.Sprintf("%s:%d", ev.Response.RemoteIPAddress, ev.Response.RemotePort)
		}

	case devtools.EventLoadingFinished:
		var ev network.EventLoadingFinished
		if err := json.Unmarshal(m.Params, &ev); err != nil || ev.RequestID == "" {
			return
		}
		req := r.byID[string(ev.RequestID)]
		if req == nil {
			return
		}
		req.Finished = true
		req.EncodedBytes = ev.EncodedDataLength

	case devtools.EventLoadingFailed:
		var ev network.EventLoadingFailed
		if err := json.Unmarshal(m.Params, &ev); err != nil || ev.RequestID == "" {
			return
		}
		req := r.byID[string(ev.RequestID)]
		if req == nil {
			return
		}
		req.Failed = true
		req.Canceled = ev.Canceled
		req.ErrorText = ev.ErrorText
		req.BlockedReason = string(ev.BlockedReason)
	}
}

// Records returns the assembled requests in first-seen order. The
// returned slice is a copy; the recorder may keep observing afterwards.
func (r *Recorder) Records() []Request {
	out := make([]Request, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// Resolve replays every message of log into request records. It is the
// standard resolver an observation window uses between stopping
// collection and building the artifact.
func Resolve(ctx context.Context, log *Log) ([]Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := NewRecorder()
	for _, m := range log.Messages() {
		rec.Observe(m)
	}
	return rec.Records(), nil
}
