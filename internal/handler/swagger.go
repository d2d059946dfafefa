package handler

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed docs/openapi.json
var openAPIDoc []byte

var openAPIETag = func() string {
	sum := sha256.Sum256(openAPIDoc)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}()

// SetupSwagger serves the API document at /openapi.json and
// /swagger/doc.json, and a Swagger UI page under /swagger/.
func SetupSwagger(router *gin.Engine) {
	router.GET("/openapi.json", serveOpenAPI)
	router.GET("/swagger/*any", func(c *gin.Context) {
		switch c.Param("any") {
		case "/doc.json", "doc.json":
			serveOpenAPI(c)
		default:
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
		}
	})
}

func serveOpenAPI(c *gin.Context) {
	if c.GetHeader("If-None-Match") == openAPIETag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", openAPIETag)
	c.Data(http.StatusOK, "application/json", openAPIDoc)
}

const swaggerPage = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <title>Cotizador de Garantías PyME · API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.json',
      dom_id: '#swagger-ui',
      deepLinking: true,
      docExpansion: 'list',
      defaultModelsExpandDepth: 0
    });
  </script>
</body>
</html>`
