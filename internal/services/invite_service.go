package services

import (
	"context"
	"errors"
	"fmt"

	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/db/repositories"
	"guard-collective/gatekeeper/internal/logging"
	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/models/dtos"
)

// InviteIssuer creates a single-use invite on the target channel.
type InviteIssuer interface {
	CreateChannelInvite(ctx context.Context, channelID int64, maxAgeSeconds int) (string, error)
}

// InvitePolicy is the configuration slice for invite claims.
type InvitePolicy struct {
	ControlGuilds   []int64
	RequiredRoleID  int64
	TargetChannelID int64
	MaxAgeSeconds   int
	AuditWebhookURL string
}

// InviteService issues one-time invites to eligible members and keeps the
// already-claimed ledger. Each member gets exactly one claim until an
// operator resets them or they leave the guild.
type InviteService struct {
	policy   InvitePolicy
	store    *repositories.InviteStore
	issuer   InviteIssuer
	webhook  *common.WebhookService
	registry *metrics.MetricsRegistry
}

func NewInviteService(policy InvitePolicy, store *repositories.InviteStore, issuer InviteIssuer, webhook *common.WebhookService, registry *metrics.MetricsRegistry) *InviteService {
	return &InviteService{
		policy:   policy,
		store:    store,
		issuer:   issuer,
		webhook:  webhook,
		registry: registry,
	}
}

func (s *InviteService) claimResult(result string) {
	if s.registry != nil {
		s.registry.InviteClaimsTotal.WithLabelValues(result).Inc()
	}
}

// Claim checks eligibility and, when the actor qualifies, issues an invite
// and marks them as having claimed. Owners bypass the role and
// already-claimed checks and are never marked.
func (s *InviteService) Claim(ctx context.Context, guildID, actorID int64, roleIDs []int64, isOwner bool) (*dtos.InviteClaimResponse, error) {
	if s.policy.TargetChannelID == 0 {
		return nil, ErrInviteNotConfigured
	}

	if !containsID(s.policy.ControlGuilds, guildID) {
		s.claimResult("wrong_guild")
		return &dtos.InviteClaimResponse{Eligible: false, Reason: constants.MsgServerNotAllowed}, nil
	}

	if !isOwner {
		if !containsID(roleIDs, s.policy.RequiredRoleID) {
			s.claimResult("missing_role")
			return &dtos.InviteClaimResponse{Eligible: false, Reason: "You do not have the required role to request an invite."}, nil
		}

		claimed, err := s.store.Contains(actorID)
		if err != nil {
			return nil, fmt.Errorf("read invite ledger: %w", err)
		}
		if claimed {
			s.claimResult("already_claimed")
			return &dtos.InviteClaimResponse{Eligible: false, Reason: "You have already requested an invite."}, nil
		}
	}

	url, err := s.issuer.CreateChannelInvite(ctx, s.policy.TargetChannelID, s.policy.MaxAgeSeconds)
	if err != nil {
		s.claimResult("issue_failed")
		return nil, fmt.Errorf("issue invite: %w", err)
	}

	if !isOwner {
		if err := s.store.Add(actorID); err != nil {
			// The invite is already out; losing the ledger write must not
			// retract it, but the operator has to know.
			logging.Error(fmt.Sprintf("invite issued to %d but ledger write failed: %v", actorID, err))
		}
	}

	s.claimResult("issued")
	s.audit(ctx, fmt.Sprintf("🎟️ Invite issued to <@%d> in guild %d", actorID, guildID))
	return &dtos.InviteClaimResponse{Eligible: true, InviteURL: url}, nil
}

// Reset clears a member's claim so they may request again. Returns false when
// the member had no claim on record.
func (s *InviteService) Reset(ctx context.Context, targetID int64) (bool, error) {
	removed, err := s.store.Remove(targetID)
	if err != nil {
		return false, fmt.Errorf("reset invite claim: %w", err)
	}
	if removed {
		s.audit(ctx, fmt.Sprintf("♻️ Invite claim reset for <@%d>", targetID))
	}
	return removed, nil
}

// Claimed lists every member currently on the ledger.
func (s *InviteService) Claimed(ctx context.Context) ([]int64, error) {
	set, err := s.store.Get()
	if err != nil {
		return nil, fmt.Errorf("read invite ledger: %w", err)
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

// HandleMemberLeave drops the leaver's claim so a rejoin can request again.
func (s *InviteService) HandleMemberLeave(ctx context.Context, guildID, userID int64) error {
	if !containsID(s.policy.ControlGuilds, guildID) {
		return nil
	}
	removed, err := s.store.Remove(userID)
	if err != nil {
		return fmt.Errorf("clear claim on leave: %w", err)
	}
	if removed {
		s.audit(ctx, fmt.Sprintf("👋 <@%d> left guild %d, invite claim cleared", userID, guildID))
	}
	return nil
}

func (s *InviteService) audit(ctx context.Context, msg string) {
	if s.webhook != nil && s.policy.AuditWebhookURL != "" {
		s.webhook.Post(ctx, s.policy.AuditWebhookURL, msg)
	}
}

// ErrInviteNotConfigured is returned by the handler when the target channel
// is missing from configuration.
var ErrInviteNotConfigured = errors.New("invite target channel not configured")
