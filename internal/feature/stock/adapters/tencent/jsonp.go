package tencent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// jsonpCall is a request-scoped handle for one JS-variable-style remote call.
// The provider echoes the payload assigned to a caller-chosen variable name.
// Every call gets a unique name, so concurrent requests cannot collide on a
// shared registration. The handle owns its completion channel: after Do
// returns, a late-arriving response lands on the buffered channel and is
// garbage-collected without further effect.
type jsonpCall struct {
	name string
	done chan jsonpResult
}

type jsonpResult struct {
	body []byte
	err  error
}

// newJSONPCall allocates a handle with a unique callback variable name.
func newJSONPCall() *jsonpCall {
	return &jsonpCall{
		// Variable names must start with a letter; strip the UUID dashes.
		name: "cb_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		done: make(chan jsonpResult, 1),
	}
}

// Do issues the GET and waits for either the response or ctx expiry. The
// rawURL must already contain the callback name (see callbackURL). On every
// exit path the transport resources are released exactly once: the request
// is context-bound, so cancellation aborts the connection, and the worker
// goroutine always closes the body and signals the buffered channel.
func (c *jsonpCall) Do(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	go func() {
		res, err := client.Do(req)
		if err != nil {
			c.done <- jsonpResult{err: err}
			return
		}
		defer func() { _ = res.Body.Close() }()

		if res.StatusCode >= 400 {
			c.done <- jsonpResult{err: fmt.Errorf("http %d", res.StatusCode)}
			return
		}
		body, err := io.ReadAll(res.Body)
		c.done <- jsonpResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-c.done:
		if r.err != nil {
			return nil, r.err
		}
		return c.strip(r.body)
	}
}

// strip removes the `<name>=` assignment wrapper and the trailing semicolon,
// returning the bare payload.
func (c *jsonpCall) strip(body []byte) ([]byte, error) {
	s := strings.TrimSpace(string(body))
	prefix := c.name + "="
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("response does not carry callback %s", c.name)
	}
	s = strings.TrimPrefix(s, prefix)
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	return []byte(s), nil
}
