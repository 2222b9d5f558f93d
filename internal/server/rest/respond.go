package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/printshop/internal/common"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a taxonomy code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case common.CodeInvalidInput, common.CodeDuplicateEmail:
		return http.StatusBadRequest
	case common.CodeInvalidCredentials, common.CodeUnauthenticated:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the only text a client sees for an error. Validation errors
// say which field is wrong; everything else is a fixed phrase.
func messageFor(code string, err error) string {
	switch code {
	case common.CodeInvalidInput:
		if err != nil && !errors.Is(err, errBadBody) {
			return err.Error()
		}
		return "invalid request body"
	case common.CodeDuplicateEmail:
		return "user already exists"
	case common.CodeInvalidCredentials:
		return "invalid email or password"
	case common.CodeUnauthenticated:
		return "not authorized, token failed"
	case common.CodeForbidden:
		return "not authorized"
	case common.CodeTooManyRequests:
		return "too many requests"
	default:
		return "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := common.ErrorCode(err)
	writeCode(w, code, err)
}

func writeCode(w http.ResponseWriter, code string, err error) {
	if code == common.CodeUnauthenticated {
		w.Header().Set("WWW-Authenticate", `Bearer realm="printshop"`)
	}
	writeJSON(w, statusFor(code), errorResponse{Error: code, Message: messageFor(code, err)})
}

func tooMany(w http.ResponseWriter, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	writeCode(w, common.CodeTooManyRequests, nil)
}
