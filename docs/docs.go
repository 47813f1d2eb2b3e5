// Package docs holds the OpenAPI description served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/courses/{courseID}/dates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Fetches the course dates for the authenticated learner, groups them by day, inserts a marker for today and tags each event for display. Falls back to the last saved copy when the course API is unreachable.",
                "produces": ["application/json"],
                "tags": ["course-dates"],
                "summary": "Get the organized schedule of a course",
                "parameters": [
                    {"type": "string", "description": "Course ID", "name": "courseID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.CourseScheduleSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found or empty_schedule", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "502": {"description": "error.code: bad_gateway", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/courses/{courseID}/dates/digest": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Builds the same schedule as GET /courses/{courseID}/dates and emails it to the given address.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["course-dates"],
                "summary": "Email the organized schedule of a course",
                "parameters": [
                    {"type": "string", "description": "Course ID", "name": "courseID", "in": "path", "required": true},
                    {"description": "Recipient", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SendDigestRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found or empty_schedule", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "502": {"description": "error.code: bad_gateway", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.CourseScheduleResponse": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "timezone": {"type": "string"},
                "from_cache": {"type": "boolean"},
                "fetched_at": {"type": "string"},
                "missed_deadlines": {"type": "boolean"},
                "learner_is_full_access": {"type": "boolean"},
                "verified_upgrade_link": {"type": "string"},
                "days": {"type": "array", "items": {"$ref": "#/definitions/controllers.DayResponse"}}
            }
        },
        "controllers.CourseScheduleSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.CourseScheduleResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.DayResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "is_today": {"type": "boolean"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/domain.DateEvent"}}
            }
        },
        "controllers.SendDigestRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            }
        },
        "domain.DateEvent": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "date_type": {"type": "string"},
                "complete": {"type": "boolean"},
                "learner_has_access": {"type": "boolean"},
                "link": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "assignment_type": {"type": "string"},
                "display_tag": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Course Dates API",
	Description:      "Organized course schedules grouped by day with display tags.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
