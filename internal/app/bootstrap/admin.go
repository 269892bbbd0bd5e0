// internal/app/bootstrap/admin.go
package bootstrap

import (
	"context"
	"errors"

	organizationstore "github.com/dalemusser/timeclock/internal/app/store/organizations"
	userstore "github.com/dalemusser/timeclock/internal/app/store/users"
	"github.com/dalemusser/timeclock/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ensureAdmin makes sure bootstrap_admin_email can sign in as an admin. A missing
// user is created together with its organization; an existing user is left alone.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	orgs := organizationstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, appCfg.BootstrapAdminEmail)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			logger.Warn("bootstrap admin email belongs to a non-admin user; leaving it unchanged",
				zap.String("email", existing.Email),
				zap.String("role", existing.Role))
		}
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return err
	}

	org, err := orgs.GetByName(ctx, appCfg.BootstrapOrgName)
	if errors.Is(err, mongo.ErrNoDocuments) {
		org, err = orgs.Create(ctx, models.Organization{
			Name:     appCfg.BootstrapOrgName,
			TimeZone: appCfg.DefaultTimeZone,
		})
		if err == nil {
			logger.Info("created bootstrap organization",
				zap.String("name", org.Name),
				zap.String("join_code", org.JoinCode))
		}
	}
	if err != nil {
		return err
	}

	u, err := users.Create(ctx, models.User{
		FullName:       appCfg.BootstrapAdminName,
		Email:          appCfg.BootstrapAdminEmail,
		AuthMethod:     models.AuthTrust,
		Role:           models.RoleAdmin,
		OrganizationID: &org.ID,
	})
	if err != nil {
		return err
	}
	logger.Info("created bootstrap admin",
		zap.String("email", u.Email),
		zap.String("organization_id", org.ID.Hex()))
	return nil
}
