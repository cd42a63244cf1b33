// Package docs registers the Swagger 2.0 description served under /swagger.
// Keep it in step with the handler annotations in internal/http.
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
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/metrics": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["system"],
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}}
                }
            }
        },
        "/user/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["customer"],
                "summary": "Sign up customer",
                "parameters": [
                    {"description": "Customer", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.SignUpInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/user/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["customer"],
                "summary": "Customer login",
                "parameters": [
                    {"description": "Credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.loginReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/user/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["customer"],
                "summary": "Customer profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Customer"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["customer"],
                "summary": "Edit customer profile",
                "parameters": [
                    {"description": "Profile", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.ProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Customer"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/user/create-order": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Prices every cart line against the catalog, drops unknown foods and stores the order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place order",
                "parameters": [
                    {"description": "Cart", "name": "input", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/httpapi.cartLineReq"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/user/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List customer orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/user/order/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get order by id",
                "parameters": [
                    {"type": "string", "description": "Order document id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/vendor/food": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vendor"],
                "summary": "Add food to the vendor menu",
                "parameters": [
                    {"description": "Food", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.addFoodReq"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.FoodItem"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/vendor/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vendor"],
                "summary": "Vendor login",
                "parameters": [
                    {"description": "Credentials", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/httpapi.loginReq"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/vendor/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vendor"],
                "summary": "Vendor profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Vendor"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Empty fields keep their current values.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vendor"],
                "summary": "Edit vendor profile",
                "parameters": [
                    {"description": "Profile", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.VendorProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Vendor"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/vendor/service": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vendor"],
                "summary": "Toggle vendor service availability",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Vendor"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/vendor/foods": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vendor"],
                "summary": "Vendor menu",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.FoodItem"}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/admin/vendor": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create vendor",
                "parameters": [
                    {"description": "Vendor", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateVendorInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Vendor"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/admin/vendors": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List vendors",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Vendor"}}}
                }
            }
        },
        "/admin/vendor/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get vendor by id",
                "parameters": [
                    {"type": "string", "description": "Vendor id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Vendor"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/shopping/foods": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shopping"],
                "summary": "List foods",
                "parameters": [
                    {"type": "string", "description": "Vendor id", "name": "vendorId", "in": "query"},
                    {"type": "integer", "description": "Max ready time, minutes", "name": "maxReadyTime", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.FoodItem"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/shopping/foods-in-30-min": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shopping"],
                "summary": "Foods ready in 30 minutes",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.FoodItem"}}}
                }
            }
        },
        "/shopping/food/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shopping"],
                "summary": "Get food by id",
                "parameters": [
                    {"type": "string", "description": "Food id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.FoodItem"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/shopping/top-restaurants/{pincode}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shopping"],
                "summary": "Top restaurants in an area",
                "parameters": [
                    {"type": "string", "description": "Area pincode", "name": "pincode", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Vendor"}}}
                }
            }
        },
        "/shopping/restaurant/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["shopping"],
                "summary": "Restaurant with its menu",
                "parameters": [
                    {"type": "string", "description": "Vendor id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.Restaurant"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.FoodItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "vendorId": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "foodType": {"type": "array", "items": {"type": "string"}},
                "readyTime": {"type": "integer"},
                "price": {"type": "number"},
                "rating": {"type": "number"},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.PricedCartLine": {
            "type": "object",
            "properties": {
                "food": {"$ref": "#/definitions/domain.FoodItem"},
                "unit": {"type": "integer"},
                "subtotal": {"type": "number"}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "orderID": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.PricedCartLine"}},
                "totalAmount": {"type": "number"},
                "orderDate": {"type": "string"},
                "paidThrough": {"type": "string"},
                "paymentResponse": {"type": "string"},
                "orderStatus": {"type": "string", "enum": ["waiting", "confirmed", "delivered", "cancelled"]}
            }
        },
        "domain.Customer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "address": {"type": "string"},
                "verified": {"type": "boolean"},
                "orders": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.Vendor": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "ownerName": {"type": "string"},
                "foodType": {"type": "array", "items": {"type": "string"}},
                "pincode": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "serviceAvailability": {"type": "boolean"},
                "coverImages": {"type": "array", "items": {"type": "string"}},
                "rating": {"type": "number"},
                "foods": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.Restaurant": {
            "type": "object",
            "properties": {
                "vendor": {"$ref": "#/definitions/domain.Vendor"},
                "foods": {"type": "array", "items": {"$ref": "#/definitions/domain.FoodItem"}}
            }
        },
        "service.CreateVendorInput": {
            "type": "object",
            "required": ["name", "ownerName", "foodType", "pincode", "address", "phone", "email", "password"],
            "properties": {
                "name": {"type": "string", "maxLength": 64},
                "ownerName": {"type": "string", "maxLength": 64},
                "foodType": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                "pincode": {"type": "string", "maxLength": 10, "minLength": 4},
                "address": {"type": "string", "maxLength": 128},
                "phone": {"type": "string", "maxLength": 12, "minLength": 7},
                "email": {"type": "string"},
                "password": {"type": "string", "maxLength": 12, "minLength": 6}
            }
        },
        "service.VendorProfileInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 64},
                "address": {"type": "string", "maxLength": 128},
                "phone": {"type": "string", "maxLength": 12, "minLength": 7},
                "foodType": {"type": "array", "items": {"type": "string"}}
            }
        },
        "httpapi.cartLineReq": {
            "type": "object",
            "properties": {
                "foodItemId": {"type": "string"},
                "_id": {"type": "string"},
                "unit": {"type": "integer"}
            }
        },
        "httpapi.addFoodReq": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "foodType": {"type": "array", "items": {"type": "string"}},
                "readyTime": {"type": "integer"},
                "price": {"type": "number"},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "httpapi.loginReq": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "service.SignUpInput": {
            "type": "object",
            "required": ["email", "password", "phone"],
            "properties": {
                "email": {"type": "string"},
                "phone": {"type": "string", "maxLength": 12, "minLength": 7},
                "password": {"type": "string", "maxLength": 12, "minLength": 6}
            }
        },
        "service.ProfileInput": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string", "maxLength": 16, "minLength": 3},
                "lastName": {"type": "string", "maxLength": 16, "minLength": 3},
                "address": {"type": "string", "maxLength": 16, "minLength": 6}
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
	Title:            "Food market API",
	Description:      "Catalog, cart pricing and orders for the food delivery marketplace.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
