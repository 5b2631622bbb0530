package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/models/dtos"
)

const (
	// badge listing page size and pacing, tuned to the upstream rate limits
	badgePageLimit     = 100
	badgePageDelay     = 100 * time.Millisecond
	defaultReqTimeout  = 1 * time.Second
	badgesPerPageViews = 30
)

// RobloxProvider is a read-only client over the game platform's public APIs.
// The platform splits its surface across several hosts, so each gets its own
// base URL; all requests share one client and a hard per-request timeout.
type RobloxProvider struct {
	UsersBaseURL     string
	FriendsBaseURL   string
	InventoryBaseURL string
	BadgesBaseURL    string
	GroupsBaseURL    string
	Client           *http.Client
	RequestTimeout   time.Duration

	pageLimiter *rate.Limiter
	recorder    *requestRecorder
}

// NewRobloxProvider creates a provider against the public production hosts
func NewRobloxProvider() *RobloxProvider {
	usersBase := os.Getenv("ROBLOX_USERS_BASE_URL")
	if usersBase == "" {
		usersBase = "https://users.roblox.com/v1"
	}

	return &RobloxProvider{
		UsersBaseURL:     usersBase,
		FriendsBaseURL:   "https://friends.roblox.com/v1",
		InventoryBaseURL: "https://inventory.roblox.com/v1",
		BadgesBaseURL:    "https://badges.roblox.com/v1",
		GroupsBaseURL:    "https://groups.roblox.com/v1",
		Client:           &http.Client{},
		RequestTimeout:   defaultReqTimeout,
		pageLimiter:      rate.NewLimiter(rate.Every(badgePageDelay), 1),
	}
}

// GetProviderType returns the provider type identifier
func (p *RobloxProvider) GetProviderType() string {
	return "roblox_public_api"
}

// WithMetrics attaches the process registry for outbound request counting
func (p *RobloxProvider) WithMetrics(registry *metrics.MetricsRegistry) *RobloxProvider {
	p.recorder = newRequestRecorder(registry, p.GetProviderType())
	return p
}

// LookupUserID resolves a username to its numeric id via the batch-of-one
// lookup endpoint. An empty result set is a distinct not-found.
func (p *RobloxProvider) LookupUserID(ctx context.Context, username string) (int64, error) {
	if username == "" {
		return 0, &ProviderError{
			Kind:    constants.ErrKindValidation,
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "username cannot be empty",
		}
	}

	reqBody := dtos.UsernameLookupReq{Usernames: []string{username}}

	var result dtos.UsernameLookupResp
	if err := p.doPOST(ctx, p.UsersBaseURL+"/usernames/users", reqBody, &result); err != nil {
		return 0, err
	}

	if len(result.Data) == 0 {
		return 0, &ProviderError{
			Kind:    constants.ErrKindNotFound,
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("Roblox user %s not found", username),
		}
	}

	return result.Data[0].ID, nil
}

// FetchUserInfo fetches the canonical username and account creation time
func (p *RobloxProvider) FetchUserInfo(ctx context.Context, userID int64) (string, time.Time, error) {
	endpoint := fmt.Sprintf("%s/users/%d", p.UsersBaseURL, userID)

	var result dtos.UserInfoResp
	if err := p.doGET(ctx, endpoint, &result); err != nil {
		return "", time.Time{}, err
	}

	if result.Name == "" || result.Created == "" {
		return "", time.Time{}, &ProviderError{
			Kind:    constants.ErrKindServiceError,
			Code:    constants.ErrCodeMalformedPayload,
			Message: fmt.Sprintf("invalid user data for Roblox id %d", userID),
		}
	}

	created, err := time.Parse(time.RFC3339, result.Created)
	if err != nil {
		return "", time.Time{}, decodeError(err, endpoint, result.Created)
	}

	return result.Name, created, nil
}

// CanViewInventory fetches the inventory-visibility flag
func (p *RobloxProvider) CanViewInventory(ctx context.Context, userID int64) (bool, error) {
	endpoint := fmt.Sprintf("%s/users/%d/can-view-inventory", p.InventoryBaseURL, userID)

	var result dtos.CanViewInventoryResp
	if err := p.doGET(ctx, endpoint, &result); err != nil {
		return false, err
	}
	return result.CanView, nil
}

// FetchSocialCount fetches one of the followers/followings/friends counters
func (p *RobloxProvider) FetchSocialCount(ctx context.Context, userID int64, counter string) (int, error) {
	endpoint := fmt.Sprintf("%s/users/%d/%s/count", p.FriendsBaseURL, userID, counter)

	var result dtos.SocialCountResp
	if err := p.doGET(ctx, endpoint, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// FetchBadges walks the cursor-paginated badge listing, pacing each page to
// respect upstream rate limits. It accumulates every item that carries a
// creation timestamp and the total item count across pages.
//
// A page failure terminates the walk; whatever was collected so far is
// returned alongside the error so the caller can degrade rather than abort.
func (p *RobloxProvider) FetchBadges(ctx context.Context, userID int64) ([]dtos.Badge, int, error) {
	var badges []dtos.Badge
	badgeCount := 0
	cursor := ""

	for {
		endpoint := fmt.Sprintf("%s/users/%d/badges?limit=%d", p.BadgesBaseURL, userID, badgePageLimit)
		if cursor != "" {
			endpoint += "&cursor=" + url.QueryEscape(cursor)
		}

		var page dtos.BadgesResp
		if err := p.doGET(ctx, endpoint, &page); err != nil {
			return badges, badgeCount, err
		}

		badgeCount += len(page.Data)
		for _, item := range page.Data {
			if item.Created == "" {
				continue
			}
			created, err := time.Parse(time.RFC3339, item.Created)
			if err != nil {
				continue
			}
			badges = append(badges, dtos.Badge{Name: item.Name, CreatedAt: created})
		}

		cursor = page.NextPageCursor
		if cursor == "" {
			return badges, badgeCount, nil
		}

		if err := p.pageLimiter.Wait(ctx); err != nil {
			return badges, badgeCount, wrapTransportError(err, endpoint)
		}
	}
}

// FetchGroupRoles fetches the user's full group/role membership listing
func (p *RobloxProvider) FetchGroupRoles(ctx context.Context, userID int64) ([]dtos.GroupRoleEntry, error) {
	endpoint := fmt.Sprintf("%s/users/%d/groups/roles", p.GroupsBaseURL, userID)

	var result dtos.GroupRolesResp
	if err := p.doGET(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// BadgePages converts a badge count to the page count shown in reports
func BadgePages(badgeCount int) int {
	return (badgeCount + badgesPerPageViews - 1) / badgesPerPageViews
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

func (p *RobloxProvider) doGET(ctx context.Context, endpoint string, result interface{}) error {
	reqCtx, cancel := context.WithTimeout(ctx, p.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return wrapTransportError(err, endpoint)
	}
	req.Header.Set("Accept", "application/json")

	return p.execute(req, endpoint, result)
}

func (p *RobloxProvider) doPOST(ctx context.Context, endpoint string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return wrapTransportError(err, endpoint)
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return wrapTransportError(err, endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return p.execute(req, endpoint, result)
}

func (p *RobloxProvider) execute(req *http.Request, endpoint string, result interface{}) (err error) {
	defer func() { p.recorder.observe(err) }()

	resp, err := p.Client.Do(req)
	if err != nil {
		return wrapTransportError(err, endpoint)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return wrapTransportError(readErr, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return decodeError(err, endpoint, string(bodyBytes))
	}
	return nil
}
