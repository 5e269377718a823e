package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"modmaster-backend/entities"
	"modmaster-backend/internal/utils"
)

// Client talks to the external inference worker. Dispatch is
// fire-and-forget: the worker answers later through the results callback
// endpoint, so the client timeout only bounds the hand-off itself.
type (
	Client interface {
		Dispatch(ctx context.Context, scan *entities.Scan) error
		SendTrainingFeedback(ctx context.Context, feedback *entities.ScanFeedback) error
	}

	client struct {
		httpClient *http.Client
		baseURL    string
		apiKey     string
	}
)

const dispatchTimeout = 5 * time.Second

// DispatchError marks a transport-level failure reaching the worker. The
// caller recovers locally (the scan stays pending), so handlers never map
// it to a response.
type DispatchError struct {
	ScanID string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch scan %s: %v", e.ScanID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

func NewClient() Client {
	return &client{
		httpClient: &http.Client{Timeout: dispatchTimeout},
		baseURL:    utils.GetConfig("INFERENCE_URL"),
		apiKey:     utils.GetConfig("INTERNAL_API_KEY"),
	}
}

func (c *client) Dispatch(ctx context.Context, scan *entities.Scan) error {
	payload := map[string]interface{}{
		"scan_id":   scan.ID.String(),
		"scan_type": scan.ScanType,
		"images":    []string(scan.Images),
		"user_id":   scan.UserID.String(),
	}
	if scan.VehicleID != nil {
		payload["vehicle_id"] = scan.VehicleID.String()
	}

	if err := c.post(ctx, c.baseURL+"/api/v1/process-scan", payload); err != nil {
		return &DispatchError{ScanID: scan.ID.String(), Err: err}
	}
	return nil
}

func (c *client) SendTrainingFeedback(ctx context.Context, feedback *entities.ScanFeedback) error {
	payload := map[string]interface{}{
		"scan_id":             feedback.ScanID.String(),
		"accurate":            feedback.Accurate,
		"misidentified_parts": []string(feedback.MisidentifiedParts),
		"comments":            feedback.Comments,
	}
	return c.post(ctx, c.baseURL+"/api/v1/training-feedback", payload)
}

func (c *client) post(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("inference service error: %s - %s", resp.Status, string(respBody))
	}
	return nil
}
