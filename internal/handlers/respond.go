package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/langaas500/Hvemistua/internal/game"
)

const maxBodyBytes = 16 << 10

var errBadBody = &game.Error{Code: "BAD_REQUEST", Kind: game.KindInvalidInput, Message: "invalid JSON body"}

// envelope is the response of every action route.
type envelope struct {
	Success    bool           `json:"success"`
	Error      *errorBody     `json:"error,omitempty"`
	Notice     string         `json:"notice,omitempty"`
	Token      string         `json:"token,omitempty"`
	AvatarID   string         `json:"avatarId,omitempty"`
	Valid      *bool          `json:"valid,omitempty"`
	Name       string         `json:"name,omitempty"`
	CheckoutID string         `json:"checkoutId,omitempty"`
	State      *game.Snapshot `json:"state,omitempty"`
}

type errorBody struct {
	Code    game.Code `json:"code"`
	Kind    game.Kind `json:"kind"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err *game.Error) {
	writeJSON(w, err.Kind.HTTPStatus(), envelope{
		Error: &errorBody{Code: err.Code, Kind: err.Kind, Message: err.Message},
	})
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &game.Error{Code: errBadBody.Code, Kind: errBadBody.Kind, Message: errBadBody.Message, Cause: err}
	}
	return nil
}
