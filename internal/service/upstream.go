package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"wisefood/internal/apperr"
)

// upstream is a pooled JSON client for one external service. Each proxied
// call runs behind a circuit breaker so a dead upstream fails fast
// instead of tying up request handlers.
type upstream struct {
	name    string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func newUpstream(name, baseURL string, timeout time.Duration) *upstream {
	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 5
	}
	return &upstream{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

// doJSON performs one request/response round trip. out receives the
// decoded body when non-nil; a nil out discards it.
func (u *upstream) doJSON(ctx context.Context, method, path string, body any, out any) error {
	_, err := u.breaker.Execute(func() (any, error) {
		return nil, u.roundTrip(ctx, method, path, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperr.Unavailablef("%s is unavailable", u.name)
	}
	return err
}

func (u *upstream) roundTrip(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Internalf(err, "encode %s request", u.name)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.baseURL+path, reader)
	if err != nil {
		return apperr.Internalf(err, "build %s request", u.name)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && ue.Timeout() {
			return apperr.Timeoutf("%s timed out on %s %s", u.name, method, path)
		}
		return apperr.BadGatewayf("%s request failed: %v", u.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperr.BadGatewayf("%s returned status %d: %s", u.name, resp.StatusCode, data)
	}

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return apperr.BadGatewayf("%s response read failed: %v", u.name, err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return apperr.BadGatewayf("%s sent malformed JSON: %v", u.name, err)
			}
		}
	}
	return nil
}

// Raw JSON documents pass through the proxies untouched.
type Document = map[string]any

func (u *upstream) getJSON(ctx context.Context, path string) (Document, error) {
	var out Document
	if err := u.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *upstream) postJSON(ctx context.Context, path string, body any) (Document, error) {
	var out Document
	if err := u.doJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *upstream) deleteJSON(ctx context.Context, path string) (Document, error) {
	var out Document
	if err := u.doJSON(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Document{"status": "deleted"}
	}
	return out, nil
}

func (u *upstream) Status(ctx context.Context) (Document, error) {
	return u.getJSON(ctx, "/health")
}

func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(a))
	}
	return fmt.Sprintf(format, escaped...)
}
