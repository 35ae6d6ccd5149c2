package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

const (
	// Table holds the single snapshot row.
	Table = "routines_data"

	// RecordID is the fixed key of the snapshot row.
	RecordID = 1

	restPrefix = "/rest/v1/"
)

// row is the table layout: a fixed key, the snapshot payload and the time
// of the last write.
type row struct {
	ID        int             `json:"id"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

// RESTRepository implements ports.SnapshotRepository against a PostgREST
// endpoint such as a hosted Supabase project.
type RESTRepository struct {
	client  ports.HTTPClient
	baseURL string
	key     string
	now     func() time.Time
}

// NewRESTRepository creates a repository for the project at baseURL
// authenticated with key.
func NewRESTRepository(client ports.HTTPClient, baseURL, key string) *RESTRepository {
	return &RESTRepository{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		now:     time.Now,
	}
}

// ValidCredentials reports whether baseURL and key are usable: the key is
// non-empty and the URL is absolute http or https.
func ValidCredentials(baseURL, key string) bool {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(key) == "" {
		return false
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Name identifies the backend.
func (r *RESTRepository) Name() string { return "rest" }

// Load fetches the snapshot row by its fixed key.
func (r *RESTRepository) Load(ctx context.Context) ports.LoadResult {
	q := url.Values{}
	q.Set("select", "id,data,updated_at")
	q.Set("id", "eq."+strconv.Itoa(RecordID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.tableURL()+"?"+q.Encode(), nil)
	if err != nil {
		return ports.Failed(fmt.Errorf("create request: %w", err))
	}
	r.setHeaders(req)
	req.Header.Set("Accept", "application/json")

	body, err := r.do(req)
	if err != nil {
		return ports.Failed(err)
	}

	var rows []row
	if err := json.Unmarshal(body, &rows); err != nil {
		return ports.Failed(fmt.Errorf("decode response: %w", err))
	}
	if len(rows) == 0 || len(rows[0].Data) == 0 || string(rows[0].Data) == "null" {
		return ports.Absent()
	}

	s, err := domain.DecodeSnapshot(rows[0].Data)
	if err != nil {
		return ports.Malformed(err)
	}
	return ports.Found(s)
}

// Save upserts the snapshot row, replacing any previous value and stamping
// updated_at. Concurrent writers are not detected; the last write wins.
func (r *RESTRepository) Save(ctx context.Context, s domain.Snapshot) error {
	if s.Routines == nil {
		s.Routines = []domain.Routine{}
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	body, err := json.Marshal(row{
		ID:        RecordID,
		Data:      payload,
		UpdatedAt: r.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tableURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	r.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	_, err = r.do(req)
	return err
}

func (r *RESTRepository) tableURL() string {
	return r.baseURL + restPrefix + Table
}

func (r *RESTRepository) setHeaders(req *http.Request) {
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
}

func (r *RESTRepository) do(req *http.Request) ([]byte, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
