package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Syllabus API",
        "description": "Course syllabus editing with commit history and change notifications",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Authentication",
            "description": "EKOID login"
        },
        {
            "name": "Syllabi",
            "description": "Syllabus editing, history and export"
        },
        {
            "name": "Subscriptions",
            "description": "Course change notifications"
        },
        {
            "name": "System",
            "description": "Service counters"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "A dependency is unavailable"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": [
                    "text/plain"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Authenticate by EKOID",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Unknown EKOID",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/syllabi": {
            "get": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "List syllabi",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "Create syllabus",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/Syllabus"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid payload",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/syllabi/{code}": {
            "get": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "Get syllabus",
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "put": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "Update syllabus and record a commit of the previous state",
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateSyllabusRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "Delete syllabus",
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/syllabi/{code}/history": {
            "get": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "Commit history, newest first",
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/syllabi/{code}/history/{commitId}": {
            "get": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "Commit with decoded snapshot",
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "commitId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/syllabi/{code}/export": {
            "get": {
                "tags": [
                    "Syllabi"
                ],
                "summary": "Export syllabus",
                "parameters": [
                    {
                        "name": "code",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Attachment"
                    },
                    "400": {
                        "description": "Unknown format",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/subscriptions": {
            "get": {
                "tags": [
                    "Subscriptions"
                ],
                "summary": "List my subscriptions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Subscriptions"
                ],
                "summary": "Subscribe to course changes",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubscribeRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/subscriptions/all": {
            "get": {
                "tags": [
                    "Subscriptions"
                ],
                "summary": "List all subscriptions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/subscriptions/{id}": {
            "delete": {
                "tags": [
                    "Subscriptions"
                ],
                "summary": "Remove a subscription",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Removed"
                    },
                    "403": {
                        "description": "Owned by another user",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/v1/system/metrics": {
            "get": {
                "tags": [
                    "System"
                ],
                "summary": "In-process counters",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": [
                "ekoid"
            ],
            "properties": {
                "ekoid": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "SubscribeRequest": {
            "type": "object",
            "required": [
                "pattern"
            ],
            "properties": {
                "pattern": {
                    "type": "string"
                },
                "notify_email": {
                    "type": "boolean"
                },
                "notify_sms": {
                    "type": "boolean"
                }
            }
        },
        "Syllabus": {
            "type": "object",
            "required": [
                "course_code"
            ],
            "properties": {
                "course_code": {
                    "type": "string"
                },
                "course_name": {
                    "type": "string"
                },
                "semester": {
                    "type": "string"
                },
                "theory_hours": {
                    "type": "integer"
                },
                "lab_hours": {
                    "type": "integer"
                },
                "local_credit": {
                    "type": "integer"
                },
                "ects": {
                    "type": "integer"
                },
                "prerequisites": {
                    "type": "string"
                },
                "language": {
                    "type": "string"
                },
                "course_type": {
                    "type": "string"
                },
                "course_level": {
                    "type": "string"
                },
                "teaching_methods": {
                    "type": "string"
                },
                "coordinator": {
                    "type": "string"
                },
                "lecturer": {
                    "type": "string"
                },
                "assistant": {
                    "type": "string"
                },
                "objectives": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "sustainable_development_goals": {
                    "type": "string"
                },
                "learning_outcomes": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "weekly_plan": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "week_number": {
                                "type": "integer"
                            },
                            "topics": {
                                "type": "string"
                            },
                            "preparation": {
                                "type": "string"
                            }
                        }
                    }
                },
                "textbooks": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "suggested_readings": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "assessments": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "activity": {
                                "type": "string"
                            },
                            "count": {
                                "type": "integer"
                            },
                            "percentage": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "workload_table": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "activity": {
                                "type": "string"
                            },
                            "count": {
                                "type": "integer"
                            },
                            "duration": {
                                "type": "integer"
                            }
                        }
                    }
                },
                "program_competencies": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {
                                "type": "integer"
                            },
                            "description": {
                                "type": "string"
                            },
                            "level": {
                                "type": "integer"
                            }
                        }
                    }
                }
            }
        },
        "UpdateSyllabusRequest": {
            "allOf": [
                {
                    "$ref": "#/definitions/Syllabus"
                },
                {
                    "type": "object",
                    "properties": {
                        "commit_message": {
                            "type": "string"
                        }
                    }
                }
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
