package probe

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func cloneHeader(header http.Header) map[string][]string {
	if len(header) == 0 {
		return nil
	}
	out := make(map[string][]string, len(header))
	for key, values := range header {
		copied := make([]string, len(values))
		copy(copied, values)
		out[key] = copied
	}
	return out
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// parseLength treats anything that is not a non-negative integer as absent.
func parseLength(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseContentRangeTotal extracts <total> from "bytes <start>-<end>/<total>".
func parseContentRangeTotal(value string) (int64, bool) {
	slash := strings.LastIndex(value, "/")
	if slash < 0 {
		return 0, false
	}
	return parseLength(value[slash+1:])
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// transportStatus classifies a failed call: deadline exceeded is reported
// apart from other transport failures.
func transportStatus(phase Phase, err error) Status {
	if isTimeout(err) {
		return Status{Phase: phase, Outcome: OutcomeTimeout}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return failed(phase, err)
}
