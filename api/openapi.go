package api

import "net/http"

const openAPIPath = "/swagger/AppointmentAPI/swagger.json"

type object = map[string]any

func jsonContent(schema object) object {
	return object{"application/json": object{"schema": schema}}
}

var (
	appointmentRef = object{"$ref": "#/components/schemas/Appointment"}
	idParam        = object{"name": "id", "in": "path", "required": true, "schema": object{"type": "integer", "format": "int64"}}
	notFound       = object{"description": "Not Found"}
	badRequest     = object{"description": "Bad Request"}
)

var openAPIDocument = object{
	"openapi": "3.0.0",
	"info": object{
		"title":   "AppointmentAPI v1",
		"version": "v1",
	},
	"paths": object{
		"/availability/{date}": object{
			"get": object{
				"operationId": "GetAvailability",
				"parameters": []object{
					{"name": "date", "in": "path", "required": true, "schema": object{"type": "string", "format": "date-time"}},
				},
				"responses": object{
					"200": object{"description": "Date Available or Date Not Available", "content": jsonContent(object{"type": "string"})},
					"400": badRequest,
				},
			},
		},
		"/appointmentitems": object{
			"get": object{
				"operationId": "GetAllAppointments",
				"responses": object{
					"200": object{"description": "OK", "content": jsonContent(object{"type": "array", "items": appointmentRef})},
				},
			},
			"post": object{
				"operationId": "CreateAppointment",
				"requestBody": object{"required": true, "content": jsonContent(appointmentRef)},
				"responses": object{
					"201": object{"description": "Created", "content": jsonContent(appointmentRef)},
					"400": badRequest,
				},
			},
		},
		"/appointmentitems/{id}": object{
			"get": object{
				"operationId": "GetAppointment",
				"parameters":  []object{idParam},
				"responses": object{
					"200": object{"description": "OK", "content": jsonContent(appointmentRef)},
					"404": notFound,
				},
			},
			"put": object{
				"operationId": "UpdateAppointment",
				"parameters":  []object{idParam},
				"requestBody": object{"required": true, "content": jsonContent(appointmentRef)},
				"responses": object{
					"204": object{"description": "No Content"},
					"400": badRequest,
					"404": notFound,
				},
			},
			"delete": object{
				"operationId": "DeleteAppointment",
				"parameters":  []object{idParam},
				"responses": object{
					"204": object{"description": "No Content"},
					"404": notFound,
				},
			},
		},
	},
	"components": object{
		"schemas": object{
			"Appointment": object{
				"type": "object",
				"properties": object{
					"id":       object{"type": "integer", "format": "int64", "readOnly": true},
					"dateTime": object{"type": "string", "format": "date-time"},
					"cat":      object{"type": "string"},
					"catOwner": object{"type": "string"},
				},
				"required": []string{"dateTime"},
			},
		},
	},
}

func (a *API) openAPI(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, openAPIDocument)
}
