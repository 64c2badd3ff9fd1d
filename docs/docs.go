// Package docs registers the OpenAPI description served under /swagger.
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
        "/app/shell": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shell"],
                "summary": "Resolve the current view",
                "parameters": [
                    {"type": "string", "description": "1 while the client is still resolving its session", "name": "auth_loading", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shellResponse"}},
                    "303": {"description": "Location without the entry secret"}
                }
            }
        },
        "/app/navigate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shell"],
                "summary": "Navigate to a view",
                "parameters": [
                    {"description": "Navigation target", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.navigateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shellResponse"}}
                }
            }
        },
        "/app/ops": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["shell"],
                "summary": "Leave the staff sign-in",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.shellResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/auth/ops/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Staff login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/terms/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["terms"],
                "summary": "Terms gate status",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/terms/accept": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["terms"],
                "summary": "Accept terms and privacy policy",
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/v1/requests": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "Submit a service request",
                "parameters": [
                    {"type": "string", "description": "Idempotency key to prevent duplicate submissions", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "428": {"description": "Precondition Required"}
                }
            }
        },
        "/v1/requests/track/{code}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["requests"],
                "summary": "Track a request",
                "parameters": [
                    {"type": "string", "description": "Tracking code (e.g. GN-7A8B9C2D)", "name": "code", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Request counts per status",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/v1/contact": {
            "get": {
                "produces": ["application/json"],
                "tags": ["contact"],
                "summary": "Support contact links",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handler.navigateRequest": {
            "type": "object",
            "required": ["target"],
            "properties": {"target": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password", "role"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "enum": ["client", "provider"]}
            }
        },
        "handler.shellResponse": {
            "type": "object",
            "properties": {
                "view": {"type": "string"},
                "redirected": {"type": "boolean"},
                "ops_detected": {"type": "boolean"},
                "show_setup": {"type": "boolean"},
                "modal": {"type": "string"},
                "modal_message": {"type": "string"},
                "notice": {"type": "string"},
                "notice_message": {"type": "string"},
                "scroll_top": {"type": "boolean"}
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
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Gharun Marketplace API",
	Description:      "View routing, access control and service requests for the Gharun home-services marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
