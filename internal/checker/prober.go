package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Gren-95/uptime-kama/internal/models"
)

// DefaultProbeTimeout is the hard ceiling for a single probe.
const DefaultProbeTimeout = 30 * time.Second

const (
	userAgent       = "Uptime-Kama/1.0"
	maxResponseBody = 1 << 20 // drain at most 1MB to keep connections reusable
)

// Outcome is the classified result of one probe. Exactly one of the
// up/down classifications applies; StatusCode and ErrorMessage are nil
// when the probe never produced them.
type Outcome struct {
	Status       models.Status
	ResponseTime int64 // wall-clock ms from request start to outcome
	StatusCode   *int
	ErrorMessage *string
}

// Prober performs single HTTP(S) GET probes. It holds one pooled client;
// the timeout is enforced per request via context, and redirects follow
// the default client policy.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		timeout: timeout,
	}
}

// Probe issues one GET against url and classifies the result. Network
// failures are expected operation, not errors: they come back as a down
// Outcome, never as a panic or error return.
func (p *Prober) Probe(ctx context.Context, url string) Outcome {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return downOutcome(elapsedMS(start), err.Error())
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		msg := err.Error()
		if isTimeoutError(err) {
			msg = "Request timeout"
		}
		return downOutcome(elapsedMS(start), msg)
	}
	defer resp.Body.Close()

	// Consume the body so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))

	code := resp.StatusCode
	duration := elapsedMS(start)

	if code >= 200 && code < 400 {
		return Outcome{
			Status:       models.StatusUp,
			ResponseTime: duration,
			StatusCode:   &code,
		}
	}

	msg := fmt.Sprintf("HTTP %d", code)
	return Outcome{
		Status:       models.StatusDown,
		ResponseTime: duration,
		StatusCode:   &code,
		ErrorMessage: &msg,
	}
}

func downOutcome(duration int64, msg string) Outcome {
	return Outcome{
		Status:       models.StatusDown,
		ResponseTime: duration,
		ErrorMessage: &msg,
	}
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "deadline exceeded") ||
		strings.Contains(err.Error(), "i/o timeout")
}
