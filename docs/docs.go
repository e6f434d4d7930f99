// Package docs registers the OpenAPI document served under /swagger.
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
        "/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Create a user account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/handlers.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.MessageResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.MessageResult"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handlers.MessageResult"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.MessageResult"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate by email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LoginResult"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/handlers.MessageResult"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.MessageResult"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.MessageResult"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "End the current session",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResult"}}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user and permissions",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ProfileResponse"}}}
            }
        },
        "/catalog": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "List the product catalog",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Dashboard totals and per-product cards",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "List products with their parts",
                "parameters": [
                    {"type": "string", "name": "product", "in": "query"},
                    {"type": "string", "name": "filter", "in": "query", "enum": ["incomingStock", "outOfStock", "lowStock"]}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown filter"}, "404": {"description": "Product not found"}}
            }
        },
        "/products/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Reload every product from the remote sheet",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/products/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Get a product with its parts and stats",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/products/{id}/parts": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Replace the parts of a product",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "parts", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdatePartsRequest"}}
                ],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Validation errors"}, "403": {"description": "Forbidden"}, "404": {"description": "Not found"}}
            }
        },
        "/products/{id}/parts/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["import"],
                "summary": "Import parts of a product via CSV",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "name": "mode", "in": "query", "enum": ["skip", "update"]}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid file"}}
            }
        },
        "/products/{id}/parts/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Export the parts of a product",
                "produces": ["text/csv", "application/json"],
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "format", "in": "query", "required": true, "enum": ["csv", "json"]}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/products/{id}/sync": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["sync"],
                "summary": "Remote synchronization state of a product",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/products/{id}/sync/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["sync"],
                "summary": "Past synchronization runs of a product",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "since", "in": "query"},
                    {"type": "string", "name": "until", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid input"}}
            }
        },
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "ok"}}}
        }
    },
    "definitions": {
        "handlers.LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.SignupRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "staff"]}
            }
        },
        "handlers.Notification": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "message": {"type": "string"},
                "dismiss_after_ms": {"type": "integer"}
            }
        },
        "handlers.MessageResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "notification": {"$ref": "#/definitions/handlers.Notification"}
            }
        },
        "handlers.LoginResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.Session"},
                "notification": {"$ref": "#/definitions/handlers.Notification"}
            }
        },
        "handlers.ProfileResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/models.Session"},
                "permissions": {"type": "string"},
                "can_write": {"type": "boolean"}
            }
        },
        "handlers.PartRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "part_no": {"type": "string"},
                "quantity": {"type": "integer"},
                "vendor": {"type": "string"},
                "is_new": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "handlers.UpdatePartsRequest": {
            "type": "object",
            "properties": {"parts": {"type": "array", "items": {"$ref": "#/definitions/handlers.PartRequest"}}}
        },
        "models.Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stock Management API",
	Description:      "Product parts inventory backed by a remote spreadsheet store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
