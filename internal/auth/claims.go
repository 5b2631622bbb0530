package auth

// UserClaims describes the actor on whose behalf the front-end is calling.
// The chat front-end forwards the actor's Discord identity and role set; the
// operator tooling authenticates with a JWT instead.
type UserClaims interface {
	ActorID() int64
	GuildID() int64
	RoleIDs() []int64
	Source() string
}

// APIKeyClaims are built from the headers the bot front-end forwards
type APIKeyClaims struct {
	ActorIDVal int64
	GuildIDVal int64
	RoleIDVals []int64
}

func (c *APIKeyClaims) ActorID() int64   { return c.ActorIDVal }
func (c *APIKeyClaims) GuildID() int64   { return c.GuildIDVal }
func (c *APIKeyClaims) RoleIDs() []int64 { return c.RoleIDVals }
func (c *APIKeyClaims) Source() string   { return "API_KEY" }

// JWTClaims carry an operator identity; operators act outside any guild
type JWTClaims struct {
	ActorIDVal int64
	Subject    string
}

func (c *JWTClaims) ActorID() int64   { return c.ActorIDVal }
func (c *JWTClaims) GuildID() int64   { return 0 }
func (c *JWTClaims) RoleIDs() []int64 { return nil }
func (c *JWTClaims) Source() string   { return "JWT" }
