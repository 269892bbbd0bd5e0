// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/timeclock/internal/app/store/audit"
	organizationstore "github.com/dalemusser/timeclock/internal/app/store/organizations"
	userstore "github.com/dalemusser/timeclock/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	Orgs   *organizationstore.Store
	Users  *userstore.Store
	Log    *zap.Logger
}

// NewHandler constructs an Audit Log feature handler bound to
// the given Mongo database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events: audit.New(db),
		Orgs:   organizationstore.New(db),
		Users:  userstore.New(db),
		Log:    logger,
	}
}
