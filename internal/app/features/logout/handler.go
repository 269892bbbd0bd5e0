// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /logout. Signing out without a session still clears the cookie.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if su, ok := auth.CurrentUser(r); ok {
		if id, ok := su.UserID(); ok {
			var orgID *primitive.ObjectID
			if oid, ok := su.OrgID(); ok {
				orgID = &oid
			}
			h.AuditLog.Logout(r.Context(), ratelimit.ClientIP(r), id, orgID)
		}
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Internal error", "")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
