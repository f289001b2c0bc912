// Package docs holds the OpenAPI description served under /swagger.
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
        "/sessions": {
            "post": {
                "description": "Creates an empty quiz session and returns its bearer token",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Open a quiz session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreateSessionResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Drops the session's quiz and its published snapshot",
                "tags": ["sessions"],
                "summary": "Close the current session",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/snapshot": {
            "get": {
                "description": "Returns the last published rendering of a session from the shared cache",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Read a published quiz",
                "parameters": [
                    {"type": "string", "description": "Session ID (ULID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizSnapshot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quiz": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Get the current quiz",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quiz/generate": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Replaces the session's quiz with questions drawn from the given text",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Generate a quiz from text",
                "parameters": [
                    {"description": "Source text and type mix", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GenerateQuizRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quiz/shuffle": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Reorders the session's questions at random",
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Shuffle the quiz",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quiz/analyze": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Appends key terms, named entities and topics of the source text to the rendering",
                "produces": ["application/json"],
                "tags": ["quiz"],
                "summary": "Append a text analysis",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.QuizResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quiz/export": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Writes the quiz in the requested format and returns the artifact",
                "produces": ["text/csv", "text/plain", "application/pdf", "text/markdown", "application/json"],
                "tags": ["quiz"],
                "summary": "Download the quiz",
                "parameters": [
                    {"type": "string", "description": "tabular (csv), plain-text (txt), document (pdf) or native (md)", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.ExportResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.ValidationError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.CreateSessionResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string"},
                "session_id": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "dto.ExportResponse": {
            "type": "object",
            "properties": {
                "file_name": {"type": "string"},
                "format": {"type": "string"},
                "rendered": {"type": "string"}
            }
        },
        "dto.GenerateQuizRequest": {
            "type": "object",
            "properties": {
                "num_questions": {"type": "integer"},
                "question_types": {"type": "array", "items": {"type": "string"}},
                "text": {"type": "string"}
            }
        },
        "dto.QuestionResponse": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "context": {"type": "string"},
                "explanation": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "question": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "dto.QuizResponse": {
            "type": "object",
            "properties": {
                "actionable": {"type": "boolean"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/dto.QuestionResponse"}},
                "rendered": {"type": "string"},
                "session_id": {"type": "string"}
            }
        },
        "dto.QuizSnapshot": {
            "type": "object",
            "properties": {
                "questions": {"type": "array", "items": {"$ref": "#/definitions/dto.QuestionResponse"}},
                "rendered": {"type": "string"},
                "session_id": {"type": "string"},
                "types": {"type": "array", "items": {"type": "string"}},
                "updated_at": {"type": "string"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true},
                "message": {"type": "string"},
                "session_id": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "middleware.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/domain.ValidationError"}},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type 'Bearer YOUR_SESSION_TOKEN' to authorize.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Quiz Forge API",
	Description:      "Generates fill-in-the-blank, multiple choice, true/false, short answer and topic quizzes from plain text.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
