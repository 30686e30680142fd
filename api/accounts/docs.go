// Package accounts holds the Swagger document served at /swagger/.
//
// Regenerate with:
//
//	swag init -g internal/accounts/http/router.go -o api/accounts --outputTypes go
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
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/accountsdk.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/accountsdk.HealthResponse"}
                    },
                    "503": {
                        "description": "store unreachable",
                        "schema": {"$ref": "#/definitions/accountsdk.HealthResponse"}
                    }
                }
            }
        },
        "/v1/users/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register a new account",
                "parameters": [
                    {
                        "description": "New account",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.SignupRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "signup successful", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "400": {"description": "Missing or malformed field", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "409": {"description": "Username already taken", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}}
                }
            }
        },
        "/v1/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "message, token, expires_in", "schema": {"$ref": "#/definitions/accountsdk.LoginResponse"}},
                    "400": {"description": "Login details are missing", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}}
                }
            }
        },
        "/v1/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Get own profile",
                "responses": {
                    "200": {"description": "user", "schema": {"$ref": "#/definitions/accountsdk.ProfileResponse"}},
                    "401": {"description": "Missing, invalid or expired token", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Update own profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.UpdateProfileRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Profile updated successfully!", "schema": {"$ref": "#/definitions/accountsdk.UserMessageResponse"}},
                    "400": {"description": "Nothing to change or malformed body", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "401": {"description": "Missing, invalid or expired token", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "403": {"description": "Target is another account", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}}
                }
            }
        },
        "/v1/users/me/password": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Change own password",
                "parameters": [
                    {
                        "description": "Old and new password",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.ChangePasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Password changed successfully", "schema": {"$ref": "#/definitions/accountsdk.UserMessageResponse"}},
                    "400": {"description": "Old password is incorrect", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "401": {"description": "Missing, invalid or expired token", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "403": {"description": "Target is another account", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/accountsdk.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "accountsdk.ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "newPassword": {"type": "string", "example": "N3wSecr3t!"},
                "oldPassword": {"type": "string", "example": "Secr3t!"},
                "userName": {"type": "string", "example": "ann1"}
            }
        },
        "accountsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "store": {"type": "string"}
            }
        },
        "accountsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/accountsdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "accountsdk.LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "Secr3t!"},
                "userName": {"type": "string", "example": "ann1"}
            }
        },
        "accountsdk.LoginResponse": {
            "type": "object",
            "properties": {
                "expires_in": {"type": "integer", "example": 3600},
                "message": {"type": "string", "example": "Login successful"},
                "token": {"type": "string"}
            }
        },
        "accountsdk.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "signup successful"}
            }
        },
        "accountsdk.ProfileResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/accountsdk.User"}
            }
        },
        "accountsdk.SignupRequest": {
            "type": "object",
            "properties": {
                "mobileNumber": {"type": "string", "example": "555-0100"},
                "name": {"type": "string", "example": "Ann"},
                "password": {"type": "string", "example": "Secr3t!"},
                "role": {"type": "string", "example": "admin"},
                "userName": {"type": "string", "example": "ann1"}
            }
        },
        "accountsdk.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Ann B"},
                "role": {"type": "string", "example": "editor"},
                "userName": {"type": "string", "example": "ann1"}
            }
        },
        "accountsdk.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string", "example": "01JAF8T9V4Y6N2J4M9Q0R2S3T4"},
                "mobileNumber": {"type": "string", "example": "555-0100"},
                "name": {"type": "string", "example": "Ann"},
                "role": {"type": "string", "example": "admin"},
                "userName": {"type": "string", "example": "ann1"}
            }
        },
        "accountsdk.UserMessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Profile updated successfully!"},
                "user": {"$ref": "#/definitions/accountsdk.User"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
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
	Description:      "User registration, password login and self-service profile management.\n\nAccess tokens are HS256 signed JWTs that expire one hour after login.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
