// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Keep it in step with the @Router annotations on the REST handlers.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness and backend modes", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"], "summary": "Register with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}, "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Log in with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}, "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/auth/google": {
            "post": {
                "tags": ["auth"], "summary": "Log in with a Google ID token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"credential": {"type": "string"}}}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AuthResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/forms": {
            "get": {"tags": ["forms"], "summary": "List my forms with response counts", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}}},
            "post": {"tags": ["forms"], "summary": "Create a form", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/forms/published": {
            "get": {"tags": ["forms"], "summary": "List published forms", "responses": {"200": {"description": "OK"}}}
        },
        "/forms/generate-from-prompt": {
            "post": {"tags": ["forms"], "summary": "Generate a draft outline from a prompt", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/forms/{id}": {
            "get": {"tags": ["forms"], "summary": "Get a form; drafts are visible to their owner only", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}}},
            "put": {"tags": ["forms"], "summary": "Update an owned form", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}}},
            "delete": {"tags": ["forms"], "summary": "Delete an owned form and its responses", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/forms/{id}/publish": {
            "post": {"tags": ["forms"], "summary": "Publish an owned form", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/forms/{id}/analytics": {
            "get": {"tags": ["forms"], "summary": "Analytics snapshot of an owned form", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/responses/{formId}": {
            "post": {"tags": ["responses"], "summary": "Submit a response to a published form", "parameters": [{"in": "path", "name": "formId", "type": "string", "required": true}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/MessageResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/api/events": {
            "post": {"tags": ["events"], "summary": "Create an event", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/api/events/mine": {
            "get": {"tags": ["events"], "summary": "List my events with rating rollups", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/events/public/{publicLink}": {
            "get": {"tags": ["events"], "summary": "Public view of an active event", "parameters": [{"in": "path", "name": "publicLink", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/api/events/public/{publicLink}/feedback": {
            "post": {"tags": ["events"], "summary": "Rate an active event", "parameters": [{"in": "path", "name": "publicLink", "type": "string", "required": true}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/MessageResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/api/events/{id}/analytics": {
            "get": {"tags": ["events"], "summary": "Feedback rollup of an owned event", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        }
    },
    "definitions": {
        "ErrorBody": {"type": "object", "properties": {"message": {"type": "string"}, "requestId": {"type": "string"}}},
        "MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "RegisterRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "AuthResponse": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"type": "object"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FeedbackHub API",
	Description:      "Forms, public responses, events and owner analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
