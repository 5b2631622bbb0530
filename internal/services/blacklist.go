package services

import (
	"strings"
	"time"

	"guard-collective/gatekeeper/internal/models/dtos"
)

// cardExpired reports whether a card carries a due date in the past. Cards
// without a due date, or with one we cannot parse, never expire.
func cardExpired(due string, now time.Time) bool {
	if due == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, due)
	if err != nil {
		return false
	}
	return t.Before(now)
}

func listSkipped(name string, skip []string) bool {
	for _, s := range skip {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

func listIsMajor(name string, major []string) bool {
	for _, m := range major {
		if strings.EqualFold(name, m) {
			return true
		}
	}
	return false
}

// MatchBlacklists scans every board list for cards whose title textually
// references one of the raw identifiers, case-insensitively. Expired cards and
// skipped lists are ignored. Each matching list name appears at most once per
// bucket, split into major and minor by the configured category names.
func MatchBlacklists(lists []dtos.TrelloList, identifiers []string, skip []string, major []string, now time.Time) dtos.BlacklistFindings {
	var findings dtos.BlacklistFindings
	seenMajor := make(map[string]bool)
	seenMinor := make(map[string]bool)

	lowered := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		if id != "" {
			lowered = append(lowered, strings.ToLower(id))
		}
	}

	for _, list := range lists {
		if listSkipped(list.Name, skip) {
			continue
		}
		for _, card := range list.Cards {
			if cardExpired(card.Due, now) {
				continue
			}
			title := strings.ToLower(card.Name)
			matched := false
			for _, id := range lowered {
				if strings.Contains(title, id) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			if listIsMajor(list.Name, major) {
				if !seenMajor[list.Name] {
					seenMajor[list.Name] = true
					findings.Major = append(findings.Major, list.Name)
				}
			} else {
				if !seenMinor[list.Name] {
					seenMinor[list.Name] = true
					findings.Minor = append(findings.Minor, list.Name)
				}
			}
		}
	}
	return findings
}

// FilterDenyMinor returns the minor findings whose list name contains one of
// the configured deny keywords. Minor findings outside the deny set are
// recorded but do not fail a check on their own.
func FilterDenyMinor(minor []string, denyKeywords []string) []string {
	var denied []string
	for _, name := range minor {
		lowered := strings.ToLower(name)
		for _, kw := range denyKeywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				denied = append(denied, name)
				break
			}
		}
	}
	return denied
}
