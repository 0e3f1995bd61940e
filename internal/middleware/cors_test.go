package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/imobflow/imob-crm-api/internal/middleware"
)

func corsRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.CORSMiddleware(origins))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func corsRequest(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_OrigemLiberada(t *testing.T) {
	r := corsRouter([]string{"https://app.imobflow.com.br"})

	w := corsRequest(r, http.MethodGet, "https://app.imobflow.com.br")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.imobflow.com.br", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_OrigemForaDaLista(t *testing.T) {
	r := corsRouter([]string{"https://app.imobflow.com.br"})

	w := corsRequest(r, http.MethodGet, "https://malicioso.example.com")

	// a resposta sai sem os headers de CORS; quem bloqueia é o navegador
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardEcoaQualquerOrigem(t *testing.T) {
	r := corsRouter([]string{"*"})

	w := corsRequest(r, http.MethodGet, "https://qualquer.example.com")

	assert.Equal(t, "https://qualquer.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightRespondeSemChegarNoHandler(t *testing.T) {
	r := corsRouter([]string{"*"})

	w := corsRequest(r, http.MethodOptions, "https://app.imobflow.com.br")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCORS_SemOriginNaoEmiteHeaders(t *testing.T) {
	r := corsRouter([]string{"*"})

	w := corsRequest(r, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
