package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/models/dtos"
)

// TrelloProvider reads the kanban board repurposed as the blacklist registry.
// Auth is key+token query parameters, per the upstream API.
type TrelloProvider struct {
	BaseURL string
	APIKey  string
	Token   string
	BoardID string
	Client  *http.Client

	recorder *requestRecorder
}

// NewTrelloProvider creates a provider for the configured board
func NewTrelloProvider(boardID string) *TrelloProvider {
	baseURL := os.Getenv("TRELLO_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.trello.com/1"
	}

	return &TrelloProvider{
		BaseURL: baseURL,
		APIKey:  os.Getenv("TRELLO_API_KEY"),
		Token:   os.Getenv("TRELLO_TOKEN"),
		BoardID: boardID,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *TrelloProvider) GetProviderType() string {
	return "trello"
}

// WithMetrics attaches the process registry for outbound request counting
func (p *TrelloProvider) WithMetrics(registry *metrics.MetricsRegistry) *TrelloProvider {
	p.recorder = newRequestRecorder(registry, p.GetProviderType())
	return p
}

// FetchBoardLists fetches every list on the board with its cards. Cards carry
// only name and due date; everything else is irrelevant to matching.
func (p *TrelloProvider) FetchBoardLists(ctx context.Context) (lists []dtos.TrelloList, err error) {
	defer func() { p.recorder.observe(err) }()

	endpoint := fmt.Sprintf(
		"%s/boards/%s/lists?cards=all&card_fields=name,due&fields=name&key=%s&token=%s",
		p.BaseURL,
		url.PathEscape(p.BoardID),
		url.QueryEscape(p.APIKey),
		url.QueryEscape(p.Token),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, wrapTransportError(err, "/boards/lists")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, wrapTransportError(err, "/boards/lists")
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, wrapTransportError(readErr, "/boards/lists")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// never leak key/token into diagnostics
		return nil, buildHTTPError(resp.StatusCode, "/boards/lists", string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, &lists); err != nil {
		return nil, decodeError(err, "/boards/lists", string(bodyBytes))
	}
	return lists, nil
}
