// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g internal/api/router.go -o internal/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/session": {
            "get": {"produces": ["application/json"], "tags": ["session"], "summary": "Current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}}
        },
        "/api/session/login": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["session"], "summary": "Login",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.Envelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }}
        },
        "/api/session/register": {
            "post": {"consumes": ["multipart/form-data"], "produces": ["application/json"], "tags": ["session"], "summary": "Register",
                "parameters": [
                    {"type": "string", "description": "Full name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "owner, photographer or client", "name": "role", "in": "formData", "required": true},
                    {"type": "file", "description": "Profile image", "name": "avatar", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.Envelope"}}
                }}
        },
        "/api/session/logout": {
            "post": {"produces": ["application/json"], "tags": ["session"], "summary": "Logout",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}}
        },
        "/api/session/navigation": {
            "get": {"produces": ["application/json"], "tags": ["session"], "summary": "Navigation",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}}
        },
        "/api/session/notifications": {
            "get": {"produces": ["application/json"], "tags": ["session"], "summary": "Pending notifications",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}}
        },
        "/api/search": {
            "get": {"produces": ["application/json"], "tags": ["search"], "summary": "Search results",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "query", "in": "query", "required": true},
                    {"type": "string", "description": "Restrict to one category", "name": "type", "in": "query"},
                    {"type": "integer", "description": "Per-category limit", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}}
        },
        "/api/search/live": {
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["search"], "summary": "Live search input",
                "parameters": [{"description": "Current query", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.searchInputRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}}
        },
        "/api/dashboard": {
            "get": {"produces": ["application/json"], "tags": ["dashboard"], "summary": "Dashboard summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Envelope"}}}}
        }
    },
    "definitions": {
        "handler.loginRequest": {"type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.searchInputRequest": {"type": "object",
            "properties": {"query": {"type": "string"}}},
        "handler.sessionResponse": {"type": "object",
            "properties": {"success": {"type": "boolean"}, "data": {"type": "object"}, "provenance": {"type": "string"}, "redirect": {"type": "string"}}},
        "respond.Envelope": {"type": "object",
            "properties": {"success": {"type": "boolean"}, "code": {"type": "string"}, "message": {"type": "string"}, "data": {}, "provenance": {"type": "string"}, "redirect": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Hoarding Dashboard BFF",
	Description:      "Session, live search and resource proxy for the hoarding dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
