package cfn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender delivers responses to the pre-signed ResponseURL with bounded
// retries. CloudFormation blocks the stack operation until the PUT
// lands, so transient failures are worth a few attempts.
type Sender struct {
	client  *http.Client
	retries int
}

// NewSender returns a Sender that retries up to the given count with
// exponential backoff, each attempt bounded by timeout.
func NewSender(retries int, timeout time.Duration) *Sender {
	return &Sender{
		client:  &http.Client{Timeout: timeout},
		retries: retries,
	}
}

// Respond builds the response envelope for the event and delivers it.
func (s *Sender) Respond(ctx context.Context, ev Event, status string, data map[string]any) error {
	resp := NewResponse(ev, status, data)
	if status == StatusFailed {
		resp.Reason = "discovery failed; see the CloudWatch log stream for details"
	}
	return s.Send(ctx, ev.ResponseURL, resp)
}

// Send PUTs the JSON-encoded response to the signed URL. The signature
// covers an empty Content-Type, so the header is cleared explicitly.
func (s *Sender) Send(ctx context.Context, url string, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	var lastErr error
	for i := 0; i <= s.retries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<(i-1)) * 200 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, rErr := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
		if rErr != nil {
			return fmt.Errorf("build response request: %w", rErr)
		}
		req.Header.Set("Content-Type", "")
		req.ContentLength = int64(len(body))

		httpResp, dErr := s.client.Do(req)
		if dErr != nil {
			lastErr = dErr
			log.Warn().Err(dErr).Int("attempt", i+1).Msg("response delivery failed, retrying")
			continue
		}
		io.Copy(io.Discard, httpResp.Body)
		httpResp.Body.Close()

		if httpResp.StatusCode < 500 {
			if httpResp.StatusCode >= 400 {
				return fmt.Errorf("response rejected with status %d", httpResp.StatusCode)
			}
			return nil
		}
		lastErr = fmt.Errorf("response delivery returned status %d", httpResp.StatusCode)
		log.Warn().Int("status", httpResp.StatusCode).Int("attempt", i+1).Msg("response delivery failed, retrying")
	}
	return fmt.Errorf("response delivery failed after %d attempts: %w", s.retries+1, lastErr)
}
