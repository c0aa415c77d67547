// recorder_test.go — Tests for network event replay.

package netlog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/issuetap/issuetap/internal/devtools"
)

func msg(t *testing.T, method, params string) devtools.Message {
	t.Helper()
	if !json.Valid([]byte(params)) {
		t.Fatalf("fixture params for %s is not valid JSON: %s", method, params)
	}
	return devtools.Message{Method: method, Params: json.RawMessage(params)}
}

func TestRecorder_RequestLifecycle(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.Observe(msg(t, devtools.EventRequestWillBeSent,
		`{"requestId":"R1","documentURL":"https://site.test/","request":{"url":"https://site.test/app.js","method":"GET"},"type":"Script"}`))
	rec.Observe(msg(t, devtools.EventResponseReceived,
		`{"requestId":"R1","type":"Script","response":{"url":"https://site.test/app.js","status":200,"statusText":"OK","mimeType":"text/javascript","protocol":"h2","remoteIPAddress":"93.184.216.34","remotePort":443}}`))
	rec.Observe(msg(t, devtools.EventLoadingFinished,
		`{"requestId":"R1","timestamp":1234.5,"encodedDataLength":2048}`))

	records := rec.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.RequestID != "R1" {
		t.Errorf("RequestID = %q, want R1", r.RequestID)
	}
	if r.URL != "https://site.test/app.js" || r.Method != "GET" {
		t.Errorf("URL/Method = %q %q, want request fields from requestWillBeSent", r.URL, r.Method)
	}
	if r.DocumentURL != "https://site.test/" {
		t.Errorf("DocumentURL = %q, want https://site.test/", r.DocumentURL)
	}
	if r.ResourceType != "Script" {
		t.Errorf("ResourceType = %q, want Script", r.ResourceType)
	}
	if r.Status != 200 || r.StatusText != "OK" || r.MimeType != "text/javascript" {
		t.Errorf("response fields = %d %q %q, want 200 OK text/javascript", r.Status, r.StatusText, r.MimeType)
	}
	if r.Protocol != "h2" {
		t.Errorf("Protocol = %q, want h2", r.Protocol)
	}
	if r.RemoteAddr != "93.184.216.34:443" {
		t.Errorf("RemoteAddr = %q, want 93.184.216.34:443", r.RemoteAddr)
	}
	if !r.Finished || r.EncodedBytes != 2048 {
		t.Errorf("Finished/EncodedBytes = %v/%v, want true/2048", r.Finished, r.EncodedBytes)
	}
}

func TestRecorder_RedirectReusesRecord(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.Observe(msg(t, devtools.EventRequestWillBeSent,
		`{"requestId":"R1","request":{"url":"https://old.test/","method":"GET"},"type":"Document"}`))
	rec.Observe(msg(t, devtools.EventRequestWillBeSent,
		`{"requestId":"R1","request":{"url":"https://new.test/","method":"GET"},"type":"Document","redirectResponse":{"url":"https://old.test/","status":301,"statusText":"Moved Permanently"}}`))

	records := rec.Records()
	if len(records) != 1 {
		t.Fatalf("redirect produced %d records, want 1", len(records))
	}
	r := records[0]
	if r.Redirects != 1 {
		t.Errorf("Redirects = %d, want 1", r.Redirects)
	}
	if r.URL != "https://new.test/" {
		t.Errorf("URL after redirect = %q, want https://new.test/", r.URL)
	}
	// The redirect response finalizes the prior hop; its status stands
	// in until the final response arrives, then gives way to it.
	if r.Status != 301 || r.StatusText != "Moved Permanently" {
		t.Errorf("status after redirect = %d %q, want 301 Moved Permanently", r.Status, r.StatusText)
	}

	rec.Observe(msg(t, devtools.EventResponseReceived,
		`{"requestId":"R1","response":{"url":"https://new.test/","status":200,"statusText":"OK"}}`))
	r = rec.Records()[0]
	if r.Status != 200 {
		t.Errorf("status after final response = %d, want 200", r.Status)
	}
	if r.Redirects != 1 {
		t.Errorf("Redirects after final response = %d, want 1", r.Redirects)
	}
}

func TestRecorder_LoadingFailed(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.Observe(msg(t, devtools.EventRequestWillBeSent,
		`{"requestId":"R2","request":{"url":"https://blocked.test/ad.js","method":"GET"},"type":"Script"}`))
	rec.Observe(msg(t, devtools.EventLoadingFailed,
		`{"requestId":"R2","type":"Script","errorText":"net::ERR_BLOCKED_BY_CLIENT","canceled":false,"blockedReason":"inspector"}`))

	records := rec.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if !r.Failed || r.Canceled {
		t.Errorf("Failed/Canceled = %v/%v, want true/false", r.Failed, r.Canceled)
	}
	if r.ErrorText != "net::ERR_BLOCKED_BY_CLIENT" {
		t.Errorf("ErrorText = %q, want net::ERR_BLOCKED_BY_CLIENT", r.ErrorText)
	}
	if r.BlockedReason != "inspector" {
		t.Errorf("BlockedReason = %q, want inspector", r.BlockedReason)
	}
	if r.Finished {
		t.Error("Finished = true for a failed request, want false")
	}
}

func TestRecorder_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	for _, id := range []string{"C", "A", "B"} {
		rec.Observe(msg(t, devtools.EventRequestWillBeSent,
			`{"requestId":"`+id+`","request":{"url":"https://site.test/`+id+`","method":"GET"}}`))
	}
	// Late events must not disturb first-seen order.
	rec.Observe(msg(t, devtools.EventLoadingFinished, `{"requestId":"A","encodedDataLength":1}`))

	records := rec.Records()
	want := []string{"C", "A", "B"}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, r := range records {
		if r.RequestID != want[i] {
			t.Errorf("records[%d].RequestID = %q, want %q", i, r.RequestID, want[i])
		}
	}
}

func TestRecorder_IgnoresUnmatchedAndMalformed(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	// Response for a request that was never announced.
	rec.Observe(msg(t, devtools.EventResponseReceived,
		`{"requestId":"ghost","response":{"url":"https://x/","status":200}}`))
	// Non-network method.
	rec.Observe(msg(t, devtools.EventIssueAdded, `{"issue":{}}`))
	// Undecodable params.
	rec.Observe(devtools.Message{Method: devtools.EventRequestWillBeSent, Params: json.RawMessage(`{broken`)})
	// Missing request object.
	rec.Observe(msg(t, devtools.EventRequestWillBeSent, `{"requestId":"R9"}`))

	if got := len(rec.Records()); got != 0 {
		t.Errorf("got %d records from ignorable input, want 0", got)
	}
}

func TestRecorder_RecordsReturnsCopy(t *testing.T) {
	t.Parallel()

	rec := NewRecorder()
	rec.Observe(msg(t, devtools.EventRequestWillBeSent,
		`{"requestId":"R1","request":{"url":"https://site.test/","method":"GET"}}`))

	first := rec.Records()
	first[0].URL = "mutated"

	second := rec.Records()
	if second[0].URL != "https://site.test/" {
		t.Errorf("mutating a returned record leaked into recorder state: URL = %q", second[0].URL)
	}
}

func TestResolve_ReplaysLog(t *testing.T) {
	t.Parallel()

	log := NewLog()
	log.Append(msg(t, devtools.EventRequestWillBeSent,
		`{"requestId":"R1","request":{"url":"https://site.test/","method":"GET"}}`))
	log.Append(msg(t, devtools.EventLoadingFinished, `{"requestId":"R1","encodedDataLength":10}`))

	records, err := Resolve(context.Background(), log)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(records) != 1 || !records[0].Finished {
		t.Errorf("Resolve records = %+v, want one finished record", records)
	}
}

func TestResolve_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Resolve(ctx, NewLog()); err == nil {
		t.Error("Resolve with canceled context returned nil error")
	}
}

func TestIDs(t *testing.T) {
	t.Parallel()

	got := IDs([]Request{{RequestID: "a"}, {RequestID: "b"}})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("IDs = %v, want [a b]", got)
	}
}
