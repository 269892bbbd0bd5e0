// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/timeclock/internal/app/store/users"
	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/app/system/inputval"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

type loginInput struct {
	Email string `json:"email" validate:"required,email,max=254" label:"Email"`
}

type userView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId,omitempty"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if v := inputval.Validate(in); v.HasErrors() {
		respond.Error(w, http.StatusBadRequest, "Invalid request", v.All())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Lookup())
	defer cancel()
	ip := ratelimit.ClientIP(r)

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailed(ctx, ip, in.Email, "user_not_found")
		h.rejected(w)
		return
	}
	if err != nil {
		h.Log.Error("login: find user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}

	switch {
	case u.Status == userstore.StatusDisabled:
		h.AuditLog.LoginFailed(ctx, ip, in.Email, "user_disabled")
		h.rejected(w)
		return
	case !models.IsEnabledAuthMethod(u.AuthMethod):
		h.AuditLog.LoginFailed(ctx, ip, in.Email, "auth_method_unsupported")
		h.rejected(w)
		return
	}

	su := auth.FromUser(u)
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	h.AuditLog.LoginSuccess(ctx, ip, u.ID, u.OrganizationID, models.AuthTrust)

	respond.JSON(w, http.StatusOK, map[string]userView{"user": view(u)})
}

// ServeMe handles GET /api/me: the signed-in identity.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized", "Sign in required.")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]userView{"user": {
		ID:             su.ID,
		Name:           su.Name,
		Email:          su.LoginID,
		Role:           su.Role,
		OrganizationID: su.OrganizationID,
	}})
}

// rejected answers every refused sign-in the same way so accounts cannot be probed.
func (h *Handler) rejected(w http.ResponseWriter) {
	respond.Error(w, http.StatusUnauthorized, "Unauthorized", "No account can sign in with that email.")
}

func view(u *models.User) userView {
	v := userView{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role}
	if u.OrganizationID != nil {
		v.OrganizationID = u.OrganizationID.Hex()
	}
	return v
}
