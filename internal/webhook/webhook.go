package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/marcus/wr/internal/models"
)

// Payload is the webhook POST body sent when a week is finalized.
type Payload struct {
	Event        string              `json:"event"`
	Timestamp    string              `json:"timestamp"`
	WeekReportID string              `json:"week_report_id"`
	WeekID       string              `json:"week_id"`
	SnapshotID   string              `json:"snapshot_id"`
	Stats        models.ClosingStats `json:"stats"`
}

// BuildFinalizedPayload builds the payload for a finalize event.
func BuildFinalizedPayload(snap *models.Snapshot) Payload {
	return Payload{
		Event:        "week.finalized",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		WeekReportID: snap.WeekReportID,
		WeekID:       snap.Bundle.Report.WeekID,
		SnapshotID:   snap.ID,
		Stats:        snap.Stats,
	}
}

// Dispatch performs a synchronous HTTP POST to the webhook URL.
// Returns nil on success (2xx status).
func Dispatch(url, secret string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "wr-webhook/1")

	unixTS := fmt.Sprintf("%d", time.Now().Unix())
	req.Header.Set("X-WR-Timestamp", unixTS)

	if secret != "" {
		req.Header.Set("X-WR-Signature", "sha256="+Sign(secret, unixTS, body))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: status %d", url, resp.StatusCode)
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 over "timestamp.body". Receivers
// verify with the shared secret before trusting the payload.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
