package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Recovery has to be attached before the route groups register, because gin
// freezes each route's handler chain at registration. Without a database the
// public routes listing panics inside its handler; a correctly wired engine
// still answers 500 instead of letting the panic escape.
func TestSetupRouterRecoversHandlerPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(Handlers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/routes", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
