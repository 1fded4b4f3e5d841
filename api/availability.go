package api

import (
	"appointment-service/appointment"
	"net/http"

	"github.com/gorilla/mux"
)

func (a *API) getAvailability(w http.ResponseWriter, r *http.Request) {
	date, err := appointment.ParseDateTime(mux.Vars(r)["date"])
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid date")
		return
	}

	availability, err := appointment.CheckAvailability(r.Context(), a.store, date)
	if err != nil {
		a.storeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, availability.String())
}
