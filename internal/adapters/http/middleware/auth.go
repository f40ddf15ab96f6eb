package middleware

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-manager/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/platform/config"
	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
)

const (
	// ContextKeyClaims is the gin context key for the caller's claims.
	ContextKeyClaims = "claims"

	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
)

// Claims identify the caller. The gateway in front of the service
// authenticates the request and forwards the claims as headers.
type Claims struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the caller holds role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the caller holds at least one of roles.
func (c *Claims) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, c.HasRole)
}

// ExtractClaims reads the subject and the comma-separated roles from the
// headers named in cfg.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader, rolesHeader := defaultSubjectHeader, defaultRolesHeader

	if cfg != nil {
		subjectHeader = cmp.Or(cfg.SubjectHeader, subjectHeader)
		rolesHeader = cmp.Or(cfg.RolesHeader, rolesHeader)
	}

	claims := &Claims{Subject: strings.TrimSpace(c.GetHeader(subjectHeader))}

	for role := range strings.SplitSeq(c.GetHeader(rolesHeader), ",") {
		if role = strings.TrimSpace(role); role != "" {
			claims.Roles = append(claims.Roles, role)
		}
	}

	return claims
}

// GetClaims returns the claims stored by RequireAuth, or nil.
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}

	return nil
}

// RequireAuth rejects requests without a subject with 401 and, when
// cfg.EditorRole is set, requests lacking that role with 403. The subject is
// added to the request logger.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ExtractClaims(c, cfg)

		if claims.Subject == "" {
			c.AbortWithStatusJSON(dto.HTTPStatusFromCode(dto.ErrorCodeUnauthorized),
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "authentication required").
					WithTraceID(dto.GetTraceID(c)))

			return
		}

		if cfg != nil && cfg.EditorRole != "" && !claims.HasRole(cfg.EditorRole) {
			dto.AbortWithError(c, domain.NewForbiddenError(c.Request.Method+" "+c.FullPath(),
				"role "+cfg.EditorRole+" required"))

			return
		}

		c.Set(ContextKeyClaims, claims)

		ctx := c.Request.Context()
		logger := logging.FromContext(ctx).With("subject", claims.Subject)
		c.Request = c.Request.WithContext(logging.WithContext(ctx, logger))

		c.Next()
	}
}

// RequireRole rejects callers lacking all of roles with 403. It reuses the
// claims stored by RequireAuth when present.
func RequireRole(cfg *config.AuthConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			claims = ExtractClaims(c, cfg)
			c.Set(ContextKeyClaims, claims)
		}

		if !claims.HasAnyRole(roles...) {
			dto.AbortWithError(c, domain.NewForbiddenError(c.Request.Method+" "+c.FullPath(),
				"one of roles ["+strings.Join(roles, ", ")+"] required"))

			return
		}

		c.Next()
	}
}
