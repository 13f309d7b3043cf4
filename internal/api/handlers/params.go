package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// AppointmentIDFromPath читает {appointmentId} из пути
func AppointmentIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["appointmentId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("appointmentId %q: %w", raw, err)
	}
	return id, nil
}

// ResourceIDFromPath читает {resourceId} из пути
func ResourceIDFromPath(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["resourceId"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("resourceId %q: invalid", raw)
	}
	return id, nil
}
