package auth

import (
	"sync"

	"guard-collective/gatekeeper/internal/config"
	"guard-collective/gatekeeper/internal/constants"
)

// OperationPolicy is the per-operation allow-list. An empty server list means
// every server passes; an empty role list means every actor passes.
type OperationPolicy struct {
	AllowedServers []int64
	AllowedRoles   []int64
}

// PolicySet is an immutable snapshot of every operation policy plus the
// global owner and test-server bypass sets.
type PolicySet struct {
	owners      map[int64]struct{}
	testServers map[int64]struct{}
	operations  map[constants.Operation]OperationPolicy
}

// NewPolicySet builds an immutable policy snapshot
func NewPolicySet(owners, testServers []int64, operations map[constants.Operation]OperationPolicy) *PolicySet {
	ps := &PolicySet{
		owners:      make(map[int64]struct{}, len(owners)),
		testServers: make(map[int64]struct{}, len(testServers)),
		operations:  operations,
	}
	for _, id := range owners {
		ps.owners[id] = struct{}{}
	}
	for _, id := range testServers {
		ps.testServers[id] = struct{}{}
	}
	return ps
}

// opConfigSections maps each gated operation to its settings section
var opConfigSections = map[constants.Operation]string{
	constants.OpFilterCheck:   "filter_check",
	constants.OpBotManagement: "bot_management",
	constants.OpInviteAdmin:   "invite",
	constants.OpStaffRoster:   "staff_roster",
}

// PolicySetFromConfig builds the policy snapshot from the loaded settings
// document. Call again after a config reload to produce a replacement.
func PolicySetFromConfig(cfg *config.Config) *PolicySet {
	operations := make(map[constants.Operation]OperationPolicy, len(opConfigSections))
	for op, section := range opConfigSections {
		operations[op] = OperationPolicy{
			AllowedServers: cfg.GetInt64List(section + ".allowed_servers"),
			AllowedRoles:   cfg.GetInt64List(section + ".allowed_roles"),
		}
	}
	return NewPolicySet(cfg.BotOwners(), cfg.TestServers(), operations)
}

func (p *PolicySet) IsOwner(actorID int64) bool {
	_, ok := p.owners[actorID]
	return ok
}

func (p *PolicySet) IsTestServer(guildID int64) bool {
	_, ok := p.testServers[guildID]
	return ok
}

// Authorize evaluates whether the actor may invoke the operation from the
// given guild. Owners and test servers bypass per-operation policies; both
// the server check and the role check must otherwise pass. Deterministic,
// no side effects.
func (p *PolicySet) Authorize(actorID int64, roleIDs []int64, guildID int64, op constants.Operation) bool {
	if p.IsOwner(actorID) || p.IsTestServer(guildID) {
		return true
	}

	policy := p.operations[op]

	if len(policy.AllowedServers) > 0 {
		allowed := false
		for _, id := range policy.AllowedServers {
			if id == guildID {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	if len(policy.AllowedRoles) > 0 {
		for _, have := range roleIDs {
			for _, want := range policy.AllowedRoles {
				if have == want {
					return true
				}
			}
		}
		return false
	}

	return true
}

// Gate holds the active PolicySet and supports wholesale replacement on
// config reload. Reads vastly outnumber replacements.
type Gate struct {
	mu       sync.RWMutex
	policies *PolicySet
}

func NewGate(policies *PolicySet) *Gate {
	return &Gate{policies: policies}
}

// Replace swaps in a new policy snapshot atomically
func (g *Gate) Replace(policies *PolicySet) {
	g.mu.Lock()
	g.policies = policies
	g.mu.Unlock()
}

// Authorize delegates to the active snapshot
func (g *Gate) Authorize(actorID int64, roleIDs []int64, guildID int64, op constants.Operation) bool {
	g.mu.RLock()
	ps := g.policies
	g.mu.RUnlock()
	return ps.Authorize(actorID, roleIDs, guildID, op)
}

// IsOwner delegates to the active snapshot
func (g *Gate) IsOwner(actorID int64) bool {
	g.mu.RLock()
	ps := g.policies
	g.mu.RUnlock()
	return ps.IsOwner(actorID)
}
