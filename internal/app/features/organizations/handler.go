// internal/app/features/organizations/handler.go
package organizations

import (
	locationstore "github.com/dalemusser/timeclock/internal/app/store/locations"
	organizationstore "github.com/dalemusser/timeclock/internal/app/store/organizations"
	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the caller's organization: its time zone and its clock-in locations.
type Handler struct {
	Orgs      *organizationstore.Store
	Locations *locationstore.Store
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:      organizationstore.New(db),
		Locations: locationstore.New(db),
		AuditLog:  audit,
		Log:       logger,
	}
}
