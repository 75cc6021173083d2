// Package docs registers the Swagger document served at /swagger.
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
        "/books": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "List books",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Add book",
                "parameters": [
                    {"description": "Book", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateBookRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/books/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Get book by ID",
                "parameters": [
                    {"type": "integer", "description": "Book ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Update book",
                "parameters": [
                    {"type": "integer", "description": "Book ID", "name": "id", "in": "path", "required": true},
                    {"description": "Update data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateBookRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Delete book",
                "parameters": [
                    {"type": "integer", "description": "Book ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "List all users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register user",
                "parameters": [
                    {"description": "User", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get user by ID",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/issue": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lending"],
                "summary": "Issue book",
                "parameters": [
                    {"description": "Issue data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.IssueRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/return": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lending"],
                "summary": "Return book",
                "parameters": [
                    {"description": "Return data", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReturnRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/issued": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Lending"],
                "summary": "List issued books",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/overdue": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Lending"],
                "summary": "List overdue books",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/records/{user_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Lending"],
                "summary": "List user records",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/fine/{user_id}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Lending"],
                "summary": "Calculate user fine",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "user_id", "in": "path", "required": true},
                    {"description": "As-of date", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.UserFineRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/calculate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Fines"],
                "summary": "Calculate fine",
                "parameters": [
                    {"description": "Date pair", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CalculateFineRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/calculate/{user_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Fines"],
                "summary": "Calculate user fine",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "user_id", "in": "path", "required": true},
                    {"type": "string", "description": "As-of date for open loans (YYYY-MM-DD, default today)", "name": "as_of", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CreateBookRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 7},
                "title": {"type": "string", "example": "The Go Programming Language"}
            }
        },
        "handlers.UpdateBookRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "example": "The Go Programming Language"}
            }
        },
        "handlers.RegisterUserRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 3},
                "name": {"type": "string", "example": "Grace Hopper"}
            }
        },
        "handlers.IssueRequest": {
            "type": "object",
            "properties": {
                "book_id": {"type": "integer", "example": 7},
                "user_id": {"type": "integer", "example": 3},
                "issue_date": {"type": "string", "example": "2024-03-01"}
            }
        },
        "handlers.ReturnRequest": {
            "type": "object",
            "properties": {
                "book_id": {"type": "integer", "example": 7},
                "user_id": {"type": "integer", "example": 3},
                "return_date": {"type": "string", "example": "2024-03-20"}
            }
        },
        "handlers.UserFineRequest": {
            "type": "object",
            "properties": {
                "return_date": {"type": "string", "example": "2024-03-20"}
            }
        },
        "handlers.CalculateFineRequest": {
            "type": "object",
            "properties": {
                "issue_date": {"type": "string", "example": "2024-03-01"},
                "return_date": {"type": "string", "example": "2024-03-20"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Library Ledger API",
	Description:      "Catalog, loan ledger and fine engine of a small library.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
