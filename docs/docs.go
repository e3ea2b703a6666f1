// Package docs holds the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/costofequity"
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
        "/api/v1/calculate": {
            "post": {
                "description": "Forwards the ticker and date range to the analysis service and returns both model fits",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["calculate"],
                "summary": "Run a CAPM and Fama-French 3-factor calculation",
                "parameters": [
                    {
                        "description": "Ticker and ISO date range",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "Success", "schema": {"$ref": "#/definitions/models.Result"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "502": {"description": "Analysis service error or malformed response", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Analysis service unreachable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "504": {"description": "Analysis service timed out", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/tickers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["calculate"],
                "summary": "List supported tickers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TickersResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "description": "Always returns OK if the service is running",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns ready unless the service is draining or misconfigured",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "startDate must not be after endDate"},
                "message": {"type": "string", "example": "invalid request"},
                "timestamp": {"type": "string", "example": "2025-01-01T12:00:00Z"}
            }
        },
        "dto.TickersResponse": {
            "type": "object",
            "properties": {
                "default": {"type": "string", "example": "AAPL"},
                "tickers": {"type": "array", "items": {"type": "string"}, "example": ["AAPL", "MSFT", "GOOGL", "TSLA", "AMZN"]}
            }
        },
        "models.CAPM": {
            "type": "object",
            "properties": {
                "R2": {"type": "number", "example": 0.85},
                "beta": {"type": "number", "example": 1.1},
                "expected_return_annual": {"type": "number", "example": 0.09},
                "intercept": {"type": "number", "example": 0.001}
            }
        },
        "models.FF3": {
            "type": "object",
            "properties": {
                "R2": {"type": "number", "example": 0.88},
                "beta_hml": {"type": "number", "example": -0.35},
                "beta_mkt": {"type": "number", "example": 0.87},
                "beta_smb": {"type": "number", "example": -0.21},
                "expected_return_annual": {"type": "number", "example": 0.085},
                "intercept": {"type": "number", "example": 0.0008}
            }
        },
        "models.Request": {
            "type": "object",
            "properties": {
                "endDate": {"type": "string", "example": "2020-01-01"},
                "startDate": {"type": "string", "example": "2015-01-01"},
                "ticker": {"type": "string", "example": "MSFT"}
            }
        },
        "models.Result": {
            "type": "object",
            "properties": {
                "capm": {"$ref": "#/definitions/models.CAPM"},
                "ff3": {"$ref": "#/definitions/models.FF3"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Cost of Equity Explorer API",
	Description:      "CAPM and Fama-French 3-factor calculations proxied to the analysis service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
