// Package docs registra la especificación OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go
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
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Liveness", "security": [], "responses": {"200": {"description": "ok"}}}
        },
        "/chat": {
            "post": {
                "tags": ["chat"],
                "summary": "Enviar mensaje al asistente",
                "description": "Mensaje vacío devuelve un saludo sin consultar al modelo. Con petId, la conversación incluye el perfil e historial de la mascota.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/chat.sendMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/chat.sendMessageResponse"}},
                    "400": {"description": "invalid json"},
                    "401": {"description": "unauthorized"},
                    "404": {"description": "pet not found"},
                    "429": {"description": "too many requests", "headers": {"Retry-After": {"type": "integer"}}},
                    "500": {"description": "internal error"}
                }
            }
        },
        "/chat/session": {
            "delete": {
                "tags": ["chat"],
                "summary": "Reiniciar conversación",
                "parameters": [{"in": "query", "name": "petId", "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "401": {"description": "unauthorized"}}
            }
        },
        "/pets": {
            "get": {
                "tags": ["pets"],
                "summary": "Listar mis mascotas",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.PetResponse"}}},
                    "401": {"description": "unauthorized"}
                }
            },
            "post": {
                "tags": ["pets"],
                "summary": "Crear mascota",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.createPetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "400": {"description": "invalid input"},
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/pets/{petID}": {
            "parameters": [{"in": "path", "name": "petID", "required": true, "type": "string"}],
            "get": {
                "tags": ["pets"],
                "summary": "Ver mascota",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "404": {"description": "pet not found"}
                }
            },
            "put": {
                "tags": ["pets"],
                "summary": "Actualizar mascota (merge parcial)",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.updatePetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "400": {"description": "invalid input"},
                    "404": {"description": "pet not found"}
                }
            },
            "delete": {
                "tags": ["pets"],
                "summary": "Borrar mascota",
                "responses": {"200": {"description": "OK"}, "404": {"description": "pet not found"}}
            }
        },
        "/pets/{petID}/medical-records": {
            "post": {
                "tags": ["pets"],
                "summary": "Agregar registro médico",
                "parameters": [
                    {"in": "path", "name": "petID", "required": true, "type": "string"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.recordRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.RecordResponse"}},
                    "400": {"description": "invalid input"},
                    "404": {"description": "pet not found"}
                }
            }
        },
        "/pets/{petID}/medical-records/{recordID}": {
            "put": {
                "tags": ["pets"],
                "summary": "Actualizar registro médico",
                "parameters": [
                    {"in": "path", "name": "petID", "required": true, "type": "string"},
                    {"in": "path", "name": "recordID", "required": true, "type": "string"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.recordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.RecordResponse"}},
                    "404": {"description": "pet or medical record not found"}
                }
            }
        }
    },
    "definitions": {
        "chat.sendMessageRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "petId": {"type": "string"},
                "ownerId": {"type": "string"}
            }
        },
        "chat.MessageResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "content": {"type": "string"},
                "role": {"type": "string", "enum": ["assistant"]},
                "timestamp": {"type": "integer", "description": "epoch millis"}
            }
        },
        "chat.sendMessageResponse": {
            "type": "object",
            "properties": {"message": {"$ref": "#/definitions/chat.MessageResponse"}}
        },
        "pets.createPetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "species": {"type": "string", "enum": ["dog", "cat", "other"]},
                "breed": {"type": "string"},
                "age": {"type": "number"},
                "weight": {"type": "number"}
            }
        },
        "pets.updatePetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "species": {"type": "string", "enum": ["dog", "cat", "other"]},
                "breed": {"type": "string"},
                "age": {"type": "number"},
                "weight": {"type": "number"}
            }
        },
        "pets.recordRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "integer", "description": "epoch millis"},
                "symptoms": {"type": "string"},
                "diagnosis": {"type": "string"},
                "treatment": {"type": "string"},
                "type": {"type": "string", "enum": ["symptom", "diagnosis", "treatment"]},
                "description": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "pets.RecordResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "date": {"type": "integer"},
                "symptoms": {"type": "string"},
                "diagnosis": {"type": "string"},
                "treatment": {"type": "string"},
                "type": {"type": "string"},
                "description": {"type": "string"},
                "notes": {"type": "string"},
                "createdAt": {"type": "integer"}
            }
        },
        "pets.PetResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "species": {"type": "string", "enum": ["dog", "cat", "other"]},
                "breed": {"type": "string"},
                "age": {"type": "number"},
                "weight": {"type": "number"},
                "medicalHistory": {"type": "array", "items": {"$ref": "#/definitions/pets.RecordResponse"}},
                "ownerId": {"type": "string"},
                "createdAt": {"type": "integer"},
                "updatedAt": {"type": "integer"}
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
	Title:            "Pet Health Chat API",
	Description:      "Mascotas, historial médico y chat con asistente veterinario.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
