package web

import (
	"encoding/json"
	"net/http"

	"pet-boarding-backend/internal/apperrors"
)

// WriteJSON serializa v como respuesta JSON con el status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// WriteError traduce un error de dominio a JSON usando la taxonomía
// de apperrors. Errores no tipados se reportan como INTERNAL sin detalle.
func WriteError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	msg := "error interno"
	switch kind {
	case apperrors.KindBadRequest, apperrors.KindNotFound, apperrors.KindConflict,
		apperrors.KindPostCommit, apperrors.KindNotification:
		msg = err.Error()
	}
	WriteJSON(w, apperrors.HTTPStatus(err), errorBody{
		Category: string(kind),
		Message:  msg,
	})
}
