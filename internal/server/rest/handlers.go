package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/printshop/internal/common"
	"github.com/dmitrijs2005/printshop/internal/logging"
	"github.com/dmitrijs2005/printshop/internal/server/auth"
	"github.com/dmitrijs2005/printshop/internal/server/models"
	"github.com/dmitrijs2005/printshop/internal/server/services"
)

const maxBodyBytes = 1 << 20

var errBadBody = fmt.Errorf("%w: malformed body", common.ErrInvalidInput)

// Accounts is the account service behind the endpoints.
type Accounts interface {
	Authenticator
	Register(ctx context.Context, name, email string, secret []byte) (*models.User, error)
	Login(ctx context.Context, email string, secret []byte) (*services.Session, error)
	AdminLogin(ctx context.Context, email string, secret []byte) (*services.Session, error)
	GetProfile(ctx context.Context, p auth.Principal) (*models.User, error)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type userResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type loginResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type validResponse struct {
	Valid bool `json:"valid"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type handler struct {
	accounts Accounts
	logger   logging.Logger
}

func decodeBody(r *http.Request, w http.ResponseWriter, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadBody
	}
	return nil
}

// fail writes err; anything outside the taxonomy is logged and hidden.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if common.ErrorCode(err) == common.CodeInternal {
		h.logger.Error(r.Context(), op+" failed", "error", err)
	}
	writeError(w, err)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, err)
		return
	}

	secret := []byte(req.Password)
	defer common.WipeByteArray(secret)

	if _, err := h.accounts.Register(r.Context(), req.Name, req.Email, secret); err != nil {
		h.fail(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Success: true, Message: "Registration successful"})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	h.doLogin(w, r, h.accounts.Login)
}

func (h *handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	h.doLogin(w, r, h.accounts.AdminLogin)
}

func (h *handler) doLogin(w http.ResponseWriter, r *http.Request, login func(context.Context, string, []byte) (*services.Session, error)) {
	var req loginRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeError(w, err)
		return
	}

	secret := []byte(req.Password)
	defer common.WipeByteArray(secret)

	s, err := login(r.Context(), req.Email, secret)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{User: toUserResponse(s.User), Token: s.Token})
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrUnauthenticated)
		return
	}

	u, err := h.accounts.GetProfile(r.Context(), p)
	if err != nil {
		h.fail(w, r, "profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *handler) adminCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, validResponse{Valid: true})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "not found"})
}

func (h *handler) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed", Message: "method not allowed"})
}
