// Package swagger registers the hand-maintained swagger 2.0 document for
// the scheduling API, following the teacher's api/swagger/swagger.go
// pattern (a literal template plus swag.Register, rather than generated
// output, since nothing here runs `swag init`).
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Timetable Scheduler API",
    "description": "Academic timetable scheduler: builds a weekly timetable from teachers, courses, halls, and operational/break/preference policies.",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/schedule/with-preference": {
      "post": {
        "tags": ["schedule"],
        "summary": "Generate a timetable honouring teacher preferences",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "body", "name": "request", "required": true, "schema": {"type": "object"}}
        ],
        "responses": {
          "200": {"description": "OK"},
          "422": {"description": "request body does not match the expected schema"}
        }
      }
    },
    "/schedule/without-preference": {
      "post": {
        "tags": ["schedule"],
        "summary": "Generate a timetable ignoring teacher preferences",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"in": "body", "name": "request", "required": true, "schema": {"type": "object"}}
        ],
        "responses": {
          "200": {"description": "OK"},
          "422": {"description": "request body does not match the expected schema"}
        }
      }
    },
    "/health": {
      "get": {
        "tags": ["health"],
        "summary": "Liveness check",
        "produces": ["application/json"],
        "responses": {
          "200": {"description": "OK"}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported Swagger metadata, mirroring the teacher's
// generated docs.go shape.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Timetable Scheduler API",
	Description:      "Academic timetable scheduler core, exposed over HTTP.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
