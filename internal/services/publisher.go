package services

import (
	"context"
	"fmt"
	"strings"

	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/models/dtos"
)

// Publisher renders terminal verdicts and posts them to the per-guild result
// channel webhook. Aborted runs are never published.
type Publisher struct {
	webhook        *common.WebhookService
	resultWebhooks map[int64]string
	reporter       DiagnosticReporter
}

func NewPublisher(webhook *common.WebhookService, resultWebhooks map[int64]string, reporter DiagnosticReporter) *Publisher {
	return &Publisher{
		webhook:        webhook,
		resultWebhooks: resultWebhooks,
		reporter:       reporter,
	}
}

// Render produces the channel text block for a verdict, plus the badge growth
// chart for approvals that carry a plottable series.
func (p *Publisher) Render(verdict *dtos.Verdict, robloxUsername string) (*dtos.RenderedVerdict, error) {
	name := robloxUsername
	if verdict.Profile != nil && verdict.Profile.Username != "" {
		name = verdict.Profile.Username
	}

	if verdict.Outcome == constants.OutcomeDenied {
		return &dtos.RenderedVerdict{
			TextBlock: fmt.Sprintf("```yaml\n%s is ❌ DENIED ❌ [%s]\n```", name, verdict.Reason),
		}, nil
	}

	var b strings.Builder
	b.WriteString("```yaml\n")
	fmt.Fprintf(&b, "%s is ✅ APPROVED ✅\n", name)

	if u := verdict.DiscordUser; u != nil {
		b.WriteString("\n-------------DISCORD INFO-------------\n")
		fmt.Fprintf(&b, "Username: %s\n", u.Username)
		fmt.Fprintf(&b, "Account Created: %s\n", u.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&b, "Account Age: %d days\n", u.AccountAgeDays)
	}

	if pr := verdict.Profile; pr != nil {
		b.WriteString("\n-------------ROBLOX INFO-------------\n")
		fmt.Fprintf(&b, "Username: %s\n", pr.Username)
		fmt.Fprintf(&b, "Profile: https://www.roblox.com/users/%d/profile\n", pr.UserID)
		fmt.Fprintf(&b, "Account Created: %s\n", pr.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(&b, "Account Age: %d days\n", pr.AccountAgeDays)
		fmt.Fprintf(&b, "Friends: %d\n", pr.Friends)
		fmt.Fprintf(&b, "Followers: %d\n", pr.Followers)
		fmt.Fprintf(&b, "Following: %d\n", pr.Following)
		fmt.Fprintf(&b, "Badges: %d (%d pages)\n", pr.BadgeCount, pr.BadgePages)
	}

	if g := verdict.Groups; g != nil {
		b.WriteString("\n-------------GROUP INFO-------------\n")
		if g.MainGroup != nil {
			fmt.Fprintf(&b, "Main Group: %s [%s]\n", g.MainGroup.GroupName, g.MainGroup.RoleName)
		} else {
			b.WriteString("Main Group: NONE\n")
		}
		writeGroupSection(&b, "Main Divisions", g.MainDivisions)
		writeGroupSection(&b, "Sub Divisions", g.SubDivisions)
		writeGroupSection(&b, "Intelligence Groups", g.IntelligenceGroups)
	}

	if bl := verdict.Blacklists; bl != nil && len(bl.Minor) > 0 {
		fmt.Fprintf(&b, "\nMinor Blacklists: %s\n", strings.Join(bl.Minor, ", "))
	}
	b.WriteString("```")

	rendered := &dtos.RenderedVerdict{TextBlock: b.String()}

	if len(verdict.BadgeSeries) > 1 {
		chart, err := RenderBadgeChart(verdict.BadgeSeries, name)
		if err != nil {
			return rendered, err
		}
		rendered.ChartArtifact = chart
	}
	return rendered, nil
}

// Publish posts a rendered verdict to the guild's result webhook. A guild
// without a configured webhook is an operator error, not a caller error.
func (p *Publisher) Publish(ctx context.Context, guildID int64, rendered *dtos.RenderedVerdict) {
	url, okGuild := p.resultWebhooks[guildID]
	if !okGuild || url == "" {
		p.reporter.Report(ctx, "error", fmt.Sprintf("no result webhook configured for guild %d", guildID))
		return
	}

	p.webhook.Post(ctx, url, rendered.TextBlock)
	if len(rendered.ChartArtifact) > 0 {
		p.webhook.PostFile(ctx, url, "", "badge_growth.png", rendered.ChartArtifact)
	}
}

func writeGroupSection(b *strings.Builder, title string, roles []dtos.GroupRole) {
	if len(roles) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, r := range roles {
		fmt.Fprintf(b, "  - %s [%s]\n", r.GroupName, r.RoleName)
	}
}
