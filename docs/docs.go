// Package docs registers the OpenAPI description served at /swagger/*any.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/register": {
            "post": {
                "description": "Creates an account. Does not log in.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [{"description": "new account", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pokemon_portal.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pokemon_portal.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"description": "credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pokemon_portal.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pokemon_portal.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pokemon_portal.UserProfile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            }
        },
        "/pokemon": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "List sprites",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pokemon_portal.Sprite"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "Create sprite",
                "parameters": [{"description": "sprite", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.spriteRequest"}}],
                "responses": {
                    "201": {"description": "message, data", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            }
        },
        "/pokemon/random": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Fetches a random pokemon from PokeAPI and stores its sprite.",
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "Random sprite",
                "responses": {
                    "200": {"description": "url", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            }
        },
        "/pokemon/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filter history by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.",
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "List sprite events",
                "parameters": [
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range. Date-only treated as end of day.", "name": "to", "in": "query"},
                    {"enum": ["SPRITE_FETCHED", "SPRITE_CREATED", "SPRITE_UPDATED", "SPRITE_DELETED", "SPRITES_CLEARED"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "count, events", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            }
        },
        "/pokemon/all": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "Delete all sprites",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.RemoveAllResult"}}}
            }
        },
        "/pokemon/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "Get sprite",
                "parameters": [{"type": "integer", "description": "sprite id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pokemon_portal.Sprite"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "Update sprite",
                "parameters": [
                    {"type": "integer", "description": "sprite id", "name": "id", "in": "path", "required": true},
                    {"description": "fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.spriteRequest"}}
                ],
                "responses": {
                    "200": {"description": "message, data", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["pokemon"],
                "summary": "Delete sprite",
                "parameters": [{"type": "integer", "description": "sprite id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.RemoveResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pokemon_portal.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.spriteRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "pikachu"},
                "url": {"type": "string", "example": "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png"}
            }
        },
        "pokemon_portal.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "pokemon_portal.LoginRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}, "username": {"type": "string"}}
        },
        "pokemon_portal.LoginResponse": {
            "type": "object",
            "properties": {"accessToken": {"type": "string"}, "user": {"$ref": "#/definitions/pokemon_portal.UserProfile"}}
        },
        "pokemon_portal.RegisterRequest": {
            "type": "object",
            "properties": {"confirmPassword": {"type": "string"}, "password": {"type": "string"}, "username": {"type": "string"}}
        },
        "pokemon_portal.RegisterResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "username": {"type": "string"}}
        },
        "pokemon_portal.Sprite": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "url": {"type": "string"}}
        },
        "pokemon_portal.UserProfile": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "username": {"type": "string"}}
        },
        "service.RemoveAllResult": {
            "type": "object",
            "properties": {"count": {"type": "integer"}, "deleted": {"type": "boolean"}}
        },
        "service.RemoveResult": {
            "type": "object",
            "properties": {"deleted": {"type": "boolean"}, "id": {"type": "integer"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pokemon Portal API",
	Description:      "Accounts, JWT login and a shared pokemon sprite collection.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
