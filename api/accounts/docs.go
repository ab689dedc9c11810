// Package accounts holds the generated Swagger document for the accounts service.
package accounts

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/accounts"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Liveness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "tags": [
                    "Health"
                ],
                "summary": "Readiness probe",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "database unavailable",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.HealthResponse"
                        }
                    }
                }
            }
        },
        "/v1/users/register": {
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Register account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.AccountResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ValidationErrorResponse"
                        }
                    },
                    "409": {
                        "description": "already_exists or duplicate_email",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "description": "Creates a PENDING account with ROLE_USER. An administrator must permit it before it is ACTIVE.",
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/accountsdk.RegisterRequest"
                        }
                    }
                ]
            }
        },
        "/v1/users/login": {
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Log in",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.AccountResponse"
                        }
                    },
                    "401": {
                        "description": "invalid_credentials",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "password_change_required",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/accountsdk.LoginRequest"
                        }
                    }
                ]
            }
        },
        "/v1/users/provision": {
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Provision external account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ProvisionResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "unknown provider",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "duplicate_email",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ProvisionRequest"
                        }
                    }
                ]
            }
        },
        "/v1/users/me": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Current account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.AccountResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            },
            "put": {
                "tags": [
                    "Users"
                ],
                "summary": "Update current account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "duplicate_email",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/accountsdk.UpdateRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/users/me/deactivate": {
            "post": {
                "tags": [
                    "Users"
                ],
                "summary": "Deactivate current account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/users/me/role": {
            "get": {
                "tags": [
                    "Users"
                ],
                "summary": "Current account role",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.RoleResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/users": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "List accounts",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.PageResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Page number (from 0)",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size (1-100, default 20)",
                        "name": "size",
                        "in": "query"
                    }
                ],
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/users/status/{statusId}": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "List accounts by status",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.PageResponse"
                        }
                    },
                    "404": {
                        "description": "unknown status or empty page",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Status id",
                        "name": "statusId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Page number (from 0)",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size (1-100, default 20)",
                        "name": "size",
                        "in": "query"
                    }
                ],
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/users/role/{roleId}": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "List accounts by role",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.PageResponse"
                        }
                    },
                    "404": {
                        "description": "unknown role or empty page",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Role id",
                        "name": "roleId",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Page number (from 0)",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size (1-100, default 20)",
                        "name": "size",
                        "in": "query"
                    }
                ],
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/users/{id}": {
            "delete": {
                "tags": [
                    "Admin"
                ],
                "summary": "Delete account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/users/{id}/permit": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Permit account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.AccountResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/users/{id}/promote": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Promote account",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.AccountResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/sweep": {
            "post": {
                "tags": [
                    "Admin"
                ],
                "summary": "Run inactivity sweep",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.SweepResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/accountsdk.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/roles": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "List roles",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/accountsdk.ReferenceResponse"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        },
        "/v1/admin/statuses": {
            "get": {
                "tags": [
                    "Admin"
                ],
                "summary": "List statuses",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/accountsdk.ReferenceResponse"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "CallerID": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "accountsdk.AccountResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "provider": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "lastLoginAt": {
                    "type": "string"
                }
            }
        },
        "accountsdk.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "error_description": {
                    "type": "string"
                }
            }
        },
        "accountsdk.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "accountsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {
                    "type": "string"
                },
                "cache": {
                    "type": "string"
                }
            }
        },
        "accountsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "uptime": {
                    "type": "string"
                },
                "version": {
                    "type": "string"
                },
                "checks": {
                    "$ref": "#/definitions/accountsdk.HealthChecks"
                }
            }
        },
        "accountsdk.LoginRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "accountsdk.PageResponse": {
            "type": "object",
            "properties": {
                "content": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/accountsdk.AccountResponse"
                    }
                },
                "number": {
                    "type": "integer"
                },
                "size": {
                    "type": "integer"
                },
                "totalElements": {
                    "type": "integer"
                },
                "totalPages": {
                    "type": "integer"
                }
            }
        },
        "accountsdk.ProvisionRequest": {
            "type": "object",
            "properties": {
                "provider": {
                    "type": "string"
                },
                "subject": {
                    "type": "string"
                },
                "login": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                }
            }
        },
        "accountsdk.ProvisionResponse": {
            "type": "object",
            "properties": {
                "account": {
                    "$ref": "#/definitions/accountsdk.AccountResponse"
                },
                "created": {
                    "type": "boolean"
                }
            }
        },
        "accountsdk.ReferenceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "accountsdk.RegisterRequest": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "accountsdk.RoleResponse": {
            "type": "object",
            "properties": {
                "accountId": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "accountsdk.SweepResponse": {
            "type": "object",
            "properties": {
                "scanned": {
                    "type": "integer"
                },
                "demoted": {
                    "type": "integer"
                },
                "failed": {
                    "type": "integer"
                }
            }
        },
        "accountsdk.UpdateRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "CallerID": {
            "description": "Account id of the authenticated caller, set by the gateway.",
            "type": "apiKey",
            "name": "X-USER-ID",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Accounts Service API",
	Description:      "Account lifecycle: registration, login, administrator approval and promotion, and inactivity demotion.\n\nThe service sits behind a gateway that authenticates callers and forwards the account id in X-USER-ID.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
