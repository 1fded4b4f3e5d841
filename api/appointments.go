package api

import (
	"appointment-service/appointment"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func (a *API) getAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := a.store.List(r.Context())
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, appointments)
}

func (a *API) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := a.appointmentID(w, r)
	if !ok {
		return
	}

	appt, err := a.store.Get(r.Context(), id)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, appt)
}

func (a *API) createAppointment(w http.ResponseWriter, r *http.Request) {
	payload, ok := a.decodeAppointment(w, r)
	if !ok {
		return
	}

	appt, err := a.store.Create(r.Context(), payload)
	if err != nil {
		a.storeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/Appointmentitems/%d", appt.ID))
	a.writeJSON(w, http.StatusCreated, appt)
}

func (a *API) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := a.appointmentID(w, r)
	if !ok {
		return
	}
	payload, ok := a.decodeAppointment(w, r)
	if !ok {
		return
	}

	if err := a.store.Update(r.Context(), id, payload); err != nil {
		a.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := a.appointmentID(w, r)
	if !ok {
		return
	}

	if err := a.store.Delete(r.Context(), id); err != nil {
		a.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) appointmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id := mux.Vars(r)["id"]
	if id == "" {
		a.Response(w, http.StatusBadRequest, "appointment ID is required")
		return 0, false
	}

	parsedID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid appointment ID")
		return 0, false
	}
	return parsedID, true
}

// decodeAppointment ignores any id in the body; ids come from the store or the path.
func (a *API) decodeAppointment(w http.ResponseWriter, r *http.Request) (appointment.Appointment, bool) {
	var payload appointment.Appointment
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return appointment.Appointment{}, false
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return appointment.Appointment{}, false
	}
	payload.ID = 0

	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Sprintf("validate: %v", err))
		return appointment.Appointment{}, false
	}
	return payload, true
}

func (a *API) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, appointment.ErrNotFound) {
		a.Response(w, http.StatusNotFound, "appointment not found")
		return
	}
	a.log.Error("store operation failed",
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	a.Response(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
