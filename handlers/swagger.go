package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r *gin.Engine) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>WikiDoCollab API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the main endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "WikiDoCollab", "version": "v1.0.0" },
  "paths": {
    "/api/auth/register": {
      "post": { "summary": "Create an account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"displayName":{"type":"string"}}}}}}, "responses": { "201": { "description": "created" }, "409": { "description": "email already registered" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Login with email and password", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "access token; refresh cookie set" }, "401": { "description": "invalid credentials" } } }
    },
    "/api/auth/refresh": {
      "post": { "summary": "Exchange the refresh cookie for a new access token", "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/auth/me": {
      "get": { "summary": "Get own profile", "responses": { "200": { "description": "profile" }, "401": { "description": "not authorized" } } }
    },
    "/api/documents": {
      "get": { "summary": "List owned and collaborated documents", "responses": { "200": { "description": "documents" } } },
      "post": { "summary": "Create a document", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"},"isPrivate":{"type":"boolean"}}}}}}, "responses": { "201": { "description": "created document" } } }
    },
    "/api/documents/{id}/capability": {
      "get": { "summary": "What the caller may do with a document", "responses": { "200": { "description": "capability verdict" }, "404": { "description": "not found" } } }
    },
    "/api/documents/{id}/content": {
      "get": { "summary": "Read live content", "responses": { "200": { "description": "content" }, "403": { "description": "private" } } },
      "post": { "summary": "Overwrite live content", "responses": { "200": { "description": "saved" }, "403": { "description": "not edit-capable" } } }
    },
    "/api/documents/{id}/request-access": {
      "post": { "summary": "File a collaboration request", "responses": { "200": { "description": "request status" } } }
    },
    "/api/documents/{id}/approve": {
      "post": { "summary": "Approve or reject a pending request (owner only)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"userId":{"type":"string"},"approve":{"type":"boolean"}}}}}}, "responses": { "200": { "description": "decision" }, "403": { "description": "not owner" } } }
    },
    "/api/public/documents": {
      "get": { "summary": "List public documents", "responses": { "200": { "description": "documents" } } }
    },
    "/ws": {
      "get": { "summary": "Realtime collaboration socket (websocket upgrade)", "responses": { "101": { "description": "upgraded" }, "401": { "description": "missing or invalid token" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } }
  }
}`
