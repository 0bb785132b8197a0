package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RangeBudget caps how many body bytes a probe reads from one URL.
const RangeBudget = 64 * 1024

var rangeHeader = fmt.Sprintf("bytes=0-%d", RangeBudget-1)

// Remote estimates size and dimensions of an image URL with a HEAD request
// followed by a ranged GET. Each call gets its own deadline of timeout.
type Remote struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     RequestLogger
}

func NewRemote(timeout time.Duration, userAgent string, logger RequestLogger) *Remote {
	return NewRemoteWithClient(&http.Client{}, timeout, userAgent, logger)
}

func NewRemoteWithClient(client *http.Client, timeout time.Duration, userAgent string, logger RequestLogger) *Remote {
	if client == nil {
		client = &http.Client{}
	}
	return &Remote{
		httpClient: client,
		timeout:    timeout,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Probe never fails; every problem ends up in the record's status.
func (p *Remote) Probe(ctx context.Context, rawURL string) Record {
	var rec Record
	p.head(ctx, rawURL, &rec)
	p.rangeGet(ctx, rawURL, &rec)
	return rec
}

func (p *Remote) head(ctx context.Context, rawURL string, rec *Record) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	req, err := p.newRequest(ctx, http.MethodHead, rawURL)
	if err != nil {
		rec.add(failed(PhaseHead, err))
		return
	}

	resp, err := p.do(req)
	if err != nil {
		rec.add(transportStatus(PhaseHead, err))
		return
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		rec.add(Status{Phase: PhaseHead, Outcome: OutcomeHTTPStatus, Code: resp.StatusCode})
		return
	}
	rec.add(Status{Phase: PhaseHead, Outcome: OutcomeOK, Code: resp.StatusCode})
	if n, ok := parseLength(resp.Header.Get("Content-Length")); ok {
		rec.setSize(n)
	}
}

func (p *Remote) rangeGet(ctx context.Context, rawURL string, rec *Record) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	req, err := p.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		rec.add(failed(PhaseGet, err))
		return
	}
	req.Header.Set("Range", rangeHeader)

	resp, err := p.do(req)
	if err != nil {
		rec.add(transportStatus(PhaseGet, err))
		return
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		rec.add(Status{Phase: PhaseGet, Outcome: OutcomeHTTPStatus, Code: resp.StatusCode})
		return
	}
	rec.add(Status{Phase: PhaseGet, Outcome: OutcomeOK, Code: resp.StatusCode})

	// A HEAD length wins; Content-Range beats the GET's own Content-Length,
	// which only describes the whole resource on a plain 200.
	if rec.Size == nil {
		if total, ok := parseContentRangeTotal(resp.Header.Get("Content-Range")); ok {
			rec.setSize(total)
		} else if resp.StatusCode == http.StatusOK {
			if n, ok := parseLength(resp.Header.Get("Content-Length")); ok {
				rec.setSize(n)
			}
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, RangeBudget))
	if err != nil {
		rec.add(transportStatus(PhaseGet, fmt.Errorf("read body: %w", err)))
		// The failed read finalizes the record; a header that already
		// arrived may still give dimensions.
		if dims, _, derr := DecodeDimensions(bytes.NewReader(body)); derr == nil {
			rec.Dims = &dims
		}
		return
	}

	dims, _, err := DecodeDimensions(bytes.NewReader(body))
	if err != nil {
		rec.add(failed(PhaseDecode, err))
		return
	}
	rec.Dims = &dims
}

// deadline scopes a fresh timer to one call; the returned cancel releases it
// on every exit path and aborts the call if it is still in flight.
func (p *Remote) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Remote) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	// Keep Content-Length describing the stored bytes.
	req.Header.Set("Accept-Encoding", "identity")
	return req, nil
}

func (p *Remote) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := p.httpClient.Do(req)
	p.logRequest(req, resp, time.Since(start), err)
	return resp, err
}

func (p *Remote) logRequest(req *http.Request, resp *http.Response, elapsed time.Duration, err error) {
	if p.logger == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	p.logger(RequestLog{
		Method:   req.Method,
		URL:      req.URL.String(),
		Headers:  cloneHeader(req.Header),
		Status:   status,
		Duration: elapsed,
		Err:      err,
	})
}
