package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/models/dtos"
)

// AirtableProvider reads the staff roster base. The roster is maintained by
// community administration in Airtable and mirrored into announcement
// channels by the roster service.
type AirtableProvider struct {
	BaseURL   string
	APIKey    string
	BaseID    string
	TableName string
	Client    *http.Client

	recorder *requestRecorder
}

func NewAirtableProvider(baseID, tableName string) *AirtableProvider {
	baseURL := os.Getenv("AIRTABLE_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.airtable.com/v0"
	}

	return &AirtableProvider{
		BaseURL:   baseURL,
		APIKey:    os.Getenv("AIRTABLE_API_KEY"),
		BaseID:    baseID,
		TableName: tableName,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *AirtableProvider) GetProviderType() string {
	return "airtable"
}

// WithMetrics attaches the process registry for outbound request counting
func (p *AirtableProvider) WithMetrics(registry *metrics.MetricsRegistry) *AirtableProvider {
	p.recorder = newRequestRecorder(registry, p.GetProviderType())
	return p
}

type airtableRecord struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

type airtableListResp struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset,omitempty"`
}

// FetchRosterRows walks every page of the roster table and returns the rows
// in base order.
func (p *AirtableProvider) FetchRosterRows(ctx context.Context) ([]dtos.RosterRow, error) {
	var rows []dtos.RosterRow
	offset := ""

	for {
		page, nextOffset, err := p.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if nextOffset == "" {
			return rows, nil
		}
		offset = nextOffset
	}
}

func (p *AirtableProvider) fetchPage(ctx context.Context, offset string) (rows []dtos.RosterRow, next string, err error) {
	defer func() { p.recorder.observe(err) }()

	endpoint := fmt.Sprintf("%s/%s/%s", p.BaseURL, p.BaseID, p.TableName)
	if offset != "" {
		endpoint += "?offset=" + offset
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", wrapTransportError(err, endpoint)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, "", wrapTransportError(err, endpoint)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, "", wrapTransportError(readErr, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	var raw airtableListResp
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return nil, "", decodeError(err, endpoint, string(bodyBytes))
	}

	rows = make([]dtos.RosterRow, 0, len(raw.Records))
	for _, rec := range raw.Records {
		rows = append(rows, dtos.RosterRow{
			RecordID: rec.ID,
			Section:  stringField(rec.Fields, "Section"),
			Position: stringField(rec.Fields, "Position"),
			Member:   stringField(rec.Fields, "Member"),
			Rating:   stringField(rec.Fields, "Rating"),
		})
	}
	return rows, raw.Offset, nil
}

func stringField(fields map[string]interface{}, key string) string {
	v, present := fields[key]
	if !present {
		return ""
	}
	s, isStr := v.(string)
	if !isStr {
		return fmt.Sprintf("%v", v)
	}
	return s
}
