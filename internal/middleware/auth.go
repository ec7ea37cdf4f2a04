package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/festy23/converge/internal/apperror"
	"github.com/festy23/converge/internal/auth"
)

const callerEmailKey = "caller_email"

// TokenVerifier resolves a bearer token to the caller email.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth rejects requests without a valid bearer token and stores the caller
// email in the context for handlers.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apperror.RespondKind(c, apperror.Unauthenticated, auth.ErrMissingToken.Message)
			return
		}

		email, err := verifier.Verify(token)
		if err != nil {
			apperror.RespondKind(c, apperror.Unauthenticated, apperror.MessageOf(err))
			return
		}

		c.Set(callerEmailKey, email)
		c.Next()
	}
}

// CallerEmail returns the authenticated caller email set by Auth.
func CallerEmail(c *gin.Context) (string, bool) {
	email := c.GetString(callerEmailKey)
	return email, email != ""
}

// SetCallerEmail stores the caller email; used by Auth and by tests.
func SetCallerEmail(c *gin.Context, email string) {
	c.Set(callerEmailKey, email)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
