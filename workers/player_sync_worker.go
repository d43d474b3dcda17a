// workers/player_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"league-scheduler/models"

	"gorm.io/gorm"
)

// RemotePlayerProfile matches the JSON response from the roster service.
type RemotePlayerProfile struct {
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Position   *string   `json:"position,omitempty"`
	Number     *int      `json:"number,omitempty"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetPlayerChangesResponse is the top-level structure of the roster service response.
type GetPlayerChangesResponse struct {
	Players []RemotePlayerProfile `json:"players"`
}

// PlayerSyncWorker keeps the display fields of externally linked players in
// step with the roster service. Players are created locally; a matching
// external_id is the link. Unlinked remote profiles are ignored.
type PlayerSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g. "http://localhost:8500"
	endpointPath string // e.g. "/api/v1/public/players"
	serviceToken string
	httpClient   *http.Client
}

func NewPlayerSyncWorker(db *gorm.DB, rosterServiceBaseURL, endpointPath, serviceToken string) *PlayerSyncWorker {
	return &PlayerSyncWorker{
		db:           db,
		interval:     5 * time.Minute,
		baseURL:      rosterServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *PlayerSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Player Sync Worker (roster-service → players)…")
	go w.run(ctx)
}

func (w *PlayerSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time.
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial player sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ Player sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Player Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt among linked players.
func (w *PlayerSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM players WHERE external_id IS NOT NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches player profile changes and refreshes the matching local rows.
func (w *PlayerSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid roster service URL '%s': %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to roster service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("roster service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetPlayerChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode roster service response: %w", err)
	}
	if len(response.Players) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d player profile(s)…", len(response.Players))

	var updated, skipped, errored int
	for _, remote := range response.Players {
		if remote.ExternalID == "" {
			skipped++
			continue
		}

		var player models.Player
		if err := w.db.Where("external_id = ?", remote.ExternalID).First(&player).Error; err != nil {
			skipped++
			continue
		}

		if remote.Name != "" {
			player.Name = remote.Name
		}
		if remote.Position != nil {
			player.Position = *remote.Position
		}
		if remote.Number != nil {
			player.Number = *remote.Number
		}
		if remote.PhotoURL != nil {
			player.PhotoURL = *remote.PhotoURL
		}

		if err := w.db.Save(&player).Error; err != nil {
			errored++
			log.Printf("[SYNC] ⚠️ Failed to refresh player (external_id=%q): %v", remote.ExternalID, err)
		} else {
			updated++
		}
	}

	log.Printf("[SYNC] ✅ Player sync done: %d updated, %d skipped, %d errors", updated, skipped, errored)
	return nil
}
