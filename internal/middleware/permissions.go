package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Policy decide si la identidad puede ejecutar el método HTTP
type Policy func(identity *Identity, method string) bool

// Gate aplica la política antes del handler; al denegar no se toca ningún dato
func Gate(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if policy(identity, c.Request.Method) {
			c.Next()
			return
		}

		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func AllowAny(*Identity, string) bool { return true }

func Authenticated(identity *Identity, _ string) bool { return identity != nil }

// AdminOrReadOnly permite leer a cualquiera y escribir solo al staff
func AdminOrReadOnly(identity *Identity, method string) bool {
	if isSafeMethod(method) {
		return true
	}
	return identity != nil && identity.IsStaff
}

// ModelPermissionsOrAnonReadOnly exige el permiso de modelo que corresponde al método
// (add, change o delete); la lectura queda abierta también a anónimos.
func ModelPermissionsOrAnonReadOnly(app, model string) Policy {
	required := map[string]string{
		http.MethodPost:   app + ".add_" + model,
		http.MethodPut:    app + ".change_" + model,
		http.MethodPatch:  app + ".change_" + model,
		http.MethodDelete: app + ".delete_" + model,
	}
	return func(identity *Identity, method string) bool {
		if isSafeMethod(method) {
			return true
		}
		if identity == nil {
			return false
		}
		perm, ok := required[method]
		if !ok {
			return false
		}
		return identity.HasPerm(perm)
	}
}

func HasPermission(perm string) Policy {
	return func(identity *Identity, _ string) bool {
		return identity.HasPerm(perm)
	}
}
