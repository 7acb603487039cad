// Package docs holds the OpenAPI description served by /swagger. It follows the layout swag init generates.
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
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/documents": {
            "get": {
                "tags": ["documents"],
                "summary": "Query documents",
                "parameters": [
                    {"type": "string", "description": "case-insensitive substring of name or summary", "name": "search", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "type label, repeatable", "name": "type", "in": "query"},
                    {"type": "string", "description": "name | type | uploadedDate | lastViewed", "name": "sort", "in": "query"},
                    {"type": "string", "description": "asc | desc", "name": "dir", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.QueryResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/documents/types": {
            "get": {
                "tags": ["documents"],
                "summary": "Distinct document types",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/api/v1/documents/recent/viewed": {
            "get": {
                "tags": ["documents"],
                "summary": "Recently viewed documents",
                "parameters": [{"type": "integer", "description": "0 means no limit", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/documents/recent/uploaded": {
            "get": {
                "tags": ["documents"],
                "summary": "Recently uploaded documents",
                "parameters": [{"type": "integer", "description": "0 means no limit", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/documents/export.xlsx": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["documents"],
                "summary": "Export documents",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/documents/{id}": {
            "get": {
                "tags": ["documents"],
                "summary": "Get document",
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Document"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/documents/{id}/view": {
            "post": {
                "tags": ["documents"],
                "summary": "Mark document viewed",
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Document"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/documents/{id}/download": {
            "get": {
                "tags": ["documents"],
                "summary": "Download document",
                "parameters": [
                    {"type": "string", "description": "document id", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "description": "stream content instead of returning the link", "name": "stream", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.DownloadLink"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/kpis": {
            "get": {
                "tags": ["dashboard"],
                "summary": "KPI snapshot",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.KPISnapshot"}}}
            }
        },
        "/api/v1/overview": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Dashboard overview",
                "parameters": [{"type": "integer", "description": "recent list length, 0 means no limit", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Overview"}}}
            }
        },
        "/api/v1/suggestion": {
            "get": {
                "tags": ["dashboard"],
                "summary": "Seasonal suggestion",
                "parameters": [{"type": "string", "description": "YYYY-MM-DD", "name": "date", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Suggestion"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/api/v1/store/documents": {
            "get": {
                "tags": ["store"],
                "summary": "Raw store listing",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}}}}
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handler.errorEnvelope"}, "request_id": {"type": "string"}}
        },
        "model.Document": {
            "type": "object",
            "properties": {
                "fileUrl": {"type": "string"},
                "id": {"type": "string"},
                "lastViewed": {"type": "string"},
                "name": {"type": "string"},
                "summary": {"type": "string"},
                "type": {"type": "string"},
                "uploadedDate": {"type": "string"}
            }
        },
        "model.DownloadLink": {
            "type": "object",
            "properties": {
                "documentId": {"type": "string"},
                "expiresAt": {"type": "string"},
                "filename": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "model.KPISnapshot": {
            "type": "object",
            "properties": {
                "recentlyUploaded": {"type": "integer"},
                "recentlyViewed": {"type": "integer"},
                "totalDocuments": {"type": "integer"}
            }
        },
        "model.Suggestion": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "description": {"type": "string"},
                "searchTerm": {"type": "string"},
                "title": {"type": "string"},
                "typeFilters": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.Overview": {
            "type": "object",
            "properties": {
                "kpis": {"$ref": "#/definitions/model.KPISnapshot"},
                "recentlyUploaded": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}},
                "recentlyViewed": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}}
            }
        },
        "service.QueryResult": {
            "type": "object",
            "properties": {
                "documents": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Document Dashboard API",
	Description:      "Query, KPI and seasonal suggestion endpoints of the document dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
