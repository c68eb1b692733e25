package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AnshRaj112/journeys-backend/internal/apperror"
	"github.com/AnshRaj112/journeys-backend/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// decodeAndValidate fills dst from the request body and runs the validation gate.
// A body that does not parse fails the gate like any other invalid input.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Validation(err)
	}
	if err := validation.ValidateStruct(dst); err != nil {
		return apperror.Validation(err)
	}
	return nil
}
