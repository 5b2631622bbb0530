package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/models/dtos"
)

// discordEpoch is the platform's snowflake epoch (2015-01-01T00:00:00Z) in
// milliseconds. Account creation time is encoded in the id's upper bits.
const discordEpoch int64 = 1420070400000

// DiscordProvider looks up users on the chat platform's REST API
type DiscordProvider struct {
	BaseURL  string
	BotToken string
	Client   *http.Client

	recorder *requestRecorder
}

// NewDiscordProvider creates a provider authenticated with the bot token
func NewDiscordProvider() *DiscordProvider {
	baseURL := os.Getenv("DISCORD_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://discord.com/api/v10"
	}

	return &DiscordProvider{
		BaseURL:  baseURL,
		BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		Client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *DiscordProvider) GetProviderType() string {
	return "discord_rest"
}

// WithMetrics attaches the process registry for outbound request counting
func (p *DiscordProvider) WithMetrics(registry *metrics.MetricsRegistry) *DiscordProvider {
	p.recorder = newRequestRecorder(registry, p.GetProviderType())
	return p
}

// SnowflakeTime decodes the creation timestamp embedded in a snowflake id
func SnowflakeTime(id int64) time.Time {
	ms := (id >> 22) + discordEpoch
	return time.UnixMilli(ms).UTC()
}

// FetchUser fetches a user by id and derives account age from the snowflake.
// A 404 is a distinct not-found diagnostic; any other failure is a service
// error.
func (p *DiscordProvider) FetchUser(ctx context.Context, userID int64) (user *dtos.DiscordUser, err error) {
	defer func() { p.recorder.observe(err) }()

	endpoint := fmt.Sprintf("%s/users/%d", p.BaseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, wrapTransportError(err, endpoint)
	}
	req.Header.Set("Authorization", "Bot "+p.BotToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, wrapTransportError(err, endpoint)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, wrapTransportError(readErr, endpoint)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &ProviderError{
			Kind:    constants.ErrKindNotFound,
			Code:    constants.ErrCodeNotFound,
			Message: fmt.Sprintf("Discord user with ID %d not found", userID),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	var raw dtos.DiscordUserResp
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return nil, decodeError(err, endpoint, string(bodyBytes))
	}

	created := SnowflakeTime(userID)
	username := raw.Username
	if raw.Discriminator != "" && raw.Discriminator != "0" {
		username = raw.Username + "#" + raw.Discriminator
	}

	avatarURL := ""
	if raw.Avatar != "" {
		avatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", raw.ID, raw.Avatar)
	}

	return &dtos.DiscordUser{
		ID:             userID,
		Username:       username,
		CreatedAt:      created,
		AccountAgeDays: int(time.Since(created).Hours() / 24),
		IsBot:          raw.Bot,
		AvatarURL:      avatarURL,
	}, nil
}

type createInviteReq struct {
	MaxAge  int  `json:"max_age"`
	MaxUses int  `json:"max_uses"`
	Unique  bool `json:"unique"`
}

type createInviteResp struct {
	Code string `json:"code"`
}

// CreateChannelInvite issues a single-use invite on the given channel and
// returns the invite URL. maxAgeSeconds of zero means the invite never
// expires.
func (p *DiscordProvider) CreateChannelInvite(ctx context.Context, channelID int64, maxAgeSeconds int) (inviteURL string, err error) {
	defer func() { p.recorder.observe(err) }()

	endpoint := fmt.Sprintf("%s/channels/%d/invites", p.BaseURL, channelID)

	body, err := json.Marshal(createInviteReq{MaxAge: maxAgeSeconds, MaxUses: 1, Unique: true})
	if err != nil {
		return "", wrapTransportError(err, endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", wrapTransportError(err, endpoint)
	}
	req.Header.Set("Authorization", "Bot "+p.BotToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", wrapTransportError(err, endpoint)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return "", wrapTransportError(readErr, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	var raw createInviteResp
	if err := json.Unmarshal(bodyBytes, &raw); err != nil {
		return "", decodeError(err, endpoint, string(bodyBytes))
	}
	if raw.Code == "" {
		return "", &ProviderError{
			Kind:    constants.ErrKindServiceError,
			Code:    constants.ErrCodeMalformedPayload,
			Message: "invite response carried no code",
		}
	}

	return "https://discord.gg/" + raw.Code, nil
}

// ParseUserID validates the raw id string forwarded by the front-end
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ProviderError{
			Kind:    constants.ErrKindValidation,
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: constants.MsgInvalidDiscordID,
			Err:     err,
		}
	}
	return id, nil
}
