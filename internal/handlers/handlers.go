package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/repository"
	"storefront/internal/serializers"
)

// ScopedHandler recibe explícitamente el id del recurso padre capturado en la ruta
type ScopedHandler func(c *gin.Context, parentID string)

// Scoped adapta un ScopedHandler a gin leyendo el parámetro del padre
func Scoped(param string, h ScopedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c, c.Param(param))
	}
}

// bindJSON valida el cuerpo y responde 400 si no es válido
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	if fields, ok := serializers.ValidationErrors(err); ok {
		validationFailed(c, fields)
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	return false
}

func validationFailed(c *gin.Context, fields serializers.FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
}

// respondError traduce errores del store: no encontrado o id inválido dan 404, el resto 500
func respondError(c *gin.Context, err error, resource string) {
	if repository.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// conflict es la respuesta de un borrado bloqueado por referencias
func conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, gin.H{"error": message})
}

// publish no falla la petición si el broker no responde
func publish(c *gin.Context, p events.Publisher, e events.Event) {
	if err := p.Publish(c.Request.Context(), e); err != nil {
		log.Printf("publish %s %s: %v", e.Type, e.ResourceID, err)
	}
}
