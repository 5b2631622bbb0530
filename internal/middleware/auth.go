package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"guard-collective/gatekeeper/internal/auth"
	"guard-collective/gatekeeper/internal/db/repositories"
)

// AuthMiddleware authenticates every API request. The bot front-end presents
// an API key plus the acting member's forwarded identity headers; operator
// tooling presents a bearer JWT instead.
func AuthMiddleware(keysRepo *repositories.KeysRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				parsed, err := parseOperatorToken(strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}
				claims = parsed

			case apiKey != "":
				keyRes, err := keysRepo.GetStatus(r.Context(), apiKey)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}
				if !keyRes.Status {
					http.Error(w, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
					return
				}
				claims = claimsFromHeaders(r)

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// claimsFromHeaders builds the acting member's claims from the identity
// headers the front-end forwards. Unparseable values come through as zero;
// the permission gate treats those as unprivileged.
func claimsFromHeaders(r *http.Request) *auth.APIKeyClaims {
	actorID, _ := strconv.ParseInt(r.Header.Get("X-Discord-Id"), 10, 64)
	guildID, _ := strconv.ParseInt(r.Header.Get("X-Server-Id"), 10, 64)

	var roleIDs []int64
	rawRoles := r.Header.Get("X-Role-Ids")
	if rawRoles != "" {
		for _, part := range strings.Split(rawRoles, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err == nil && id > 0 {
				roleIDs = append(roleIDs, id)
			}
		}
	}

	return &auth.APIKeyClaims{
		ActorIDVal: actorID,
		GuildIDVal: guildID,
		RoleIDVals: roleIDs,
	}
}

func parseOperatorToken(tokenString string) (*auth.JWTClaims, error) {
	secret := os.Getenv("JWT_SECRET")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, okAlg := t.Method.(*jwt.SigningMethodHMAC); !okAlg {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return nil, err
	}
	actorID, _ := strconv.ParseInt(subject, 10, 64)

	return &auth.JWTClaims{
		ActorIDVal: actorID,
		Subject:    subject,
	}, nil
}
