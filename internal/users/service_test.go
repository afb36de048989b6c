package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func mustRegister(t *testing.T, svc *Service, username string) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), &domain.User{Username: username}, "secret123")
	require.NoError(t, err)
	return u
}

func setRole(t *testing.T, db *gorm.DB, id int64, role string) {
	t.Helper()
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", id).
		Update("permission", role).Error)
}

func TestRegisterDefaultsToUser(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	u, err := svc.Register(context.Background(), &domain.User{
		Username:   "aylin",
		Permission: "ADMIN",
	}, "secret123")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, u.Role())
	require.NotEqual(t, "secret123", u.Password)
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.User{Username: "short"}, "12345")
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Register(ctx, &domain.User{Username: "  "}, "secret123")
	require.ErrorIs(t, err, domain.ErrConflict)

	mustRegister(t, svc, "taken")
	_, err = svc.Register(ctx, &domain.User{Username: "taken"}, "secret123")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestVerifyCredentials(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	mustRegister(t, svc, "mehmet")

	u, err := svc.VerifyCredentials(ctx, "mehmet", "secret123")
	require.NoError(t, err)
	require.Equal(t, "mehmet", u.Username)

	_, err = svc.VerifyCredentials(ctx, "mehmet", "wrong")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.VerifyCredentials(ctx, "ghost", "secret123")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChangeRoleNormalization(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	admin := mustRegister(t, svc, "boss")
	setRole(t, db, admin.ID, domain.RoleAdmin)
	target := mustRegister(t, svc, "worker")

	u, err := svc.ChangeRole(ctx, "boss", target.ID, "  operator ")
	require.NoError(t, err)
	require.Equal(t, domain.RoleOperator, u.Role())

	// Blank normalizes to USER.
	u, err = svc.ChangeRole(ctx, "boss", target.ID, "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, u.Role())

	_, err = svc.ChangeRole(ctx, "boss", target.ID, "wizard")
	require.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestChangeRoleSelfAction(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	admin := mustRegister(t, svc, "boss")
	setRole(t, db, admin.ID, domain.RoleAdmin)

	_, err := svc.ChangeRole(ctx, "boss", admin.ID, domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrSelfAction)

	// Re-asserting your own admin role is a no-op, not a self-demotion.
	u, err := svc.ChangeRole(ctx, "boss", admin.ID, domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role())
}

func TestDemotionsNeverEmptyAdminSet(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	boss := mustRegister(t, svc, "boss")
	setRole(t, db, boss.ID, domain.RoleAdmin)
	second := mustRegister(t, svc, "second")
	setRole(t, db, second.ID, domain.RoleAdmin)
	operator := mustRegister(t, svc, "operator")
	setRole(t, db, operator.ID, domain.RoleOperator)

	// Demoting every admin in turn, each by a different actor, must stop
	// at the last one.
	_, err := svc.ChangeRole(ctx, "operator", boss.ID, domain.RoleUser)
	require.NoError(t, err)
	_, err = svc.ChangeRole(ctx, "operator", second.ID, domain.RoleUser)
	require.ErrorIs(t, err, domain.ErrLastAdmin)

	var admins int64
	require.NoError(t, db.Model(&domain.User{}).
		Where("UPPER(permission) = ?", domain.RoleAdmin).Count(&admins).Error)
	require.EqualValues(t, 1, admins)
}

func TestChangeRoleLastAdmin(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	boss := mustRegister(t, svc, "boss")
	setRole(t, db, boss.ID, domain.RoleAdmin)
	second := mustRegister(t, svc, "second")
	setRole(t, db, second.ID, domain.RoleAdmin)

	// Two admins, demoting one is fine.
	u, err := svc.ChangeRole(ctx, "boss", second.ID, domain.RoleUser)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, u.Role())

	// boss is now the only admin; nobody may demote them.
	_, err = svc.ChangeRole(ctx, "second", boss.ID, domain.RoleOperator)
	require.ErrorIs(t, err, domain.ErrLastAdmin)
}

func TestChangeRoleMissingActorOrTarget(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	admin := mustRegister(t, svc, "boss")
	setRole(t, db, admin.ID, domain.RoleAdmin)
	target := mustRegister(t, svc, "worker")

	_, err := svc.ChangeRole(ctx, "ghost", target.ID, domain.RoleOperator)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ChangeRole(ctx, "boss", 987654, domain.RoleOperator)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteUserGuards(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	boss := mustRegister(t, svc, "boss")
	setRole(t, db, boss.ID, domain.RoleAdmin)
	worker := mustRegister(t, svc, "worker")

	require.ErrorIs(t, svc.DeleteUser(ctx, "boss", boss.ID), domain.ErrSelfAction)
	require.ErrorIs(t, svc.DeleteUser(ctx, "worker", boss.ID), domain.ErrLastAdmin)

	require.NoError(t, svc.DeleteUser(ctx, "boss", worker.ID))
	_, err := svc.GetByUsername(ctx, "worker")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAdminWithBackup(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	boss := mustRegister(t, svc, "boss")
	setRole(t, db, boss.ID, domain.RoleAdmin)
	second := mustRegister(t, svc, "second")
	setRole(t, db, second.ID, domain.RoleAdmin)

	require.NoError(t, svc.DeleteUser(ctx, "boss", second.ID))

	var audits []domain.AuditLog
	require.NoError(t, db.Find(&audits).Error)
	require.Len(t, audits, 1)
	require.Equal(t, "delete_user", audits[0].OptAction)
	require.Equal(t, "boss", audits[0].OprName)
}

func TestChangePassword(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	mustRegister(t, svc, "ayse")

	require.ErrorIs(t, svc.ChangePassword(ctx, "ayse", "wrong", "newsecret"), domain.ErrNotFound)
	require.ErrorIs(t, svc.ChangePassword(ctx, "ayse", "secret123", "tiny"), domain.ErrConflict)

	require.NoError(t, svc.ChangePassword(ctx, "ayse", "secret123", "newsecret"))
	_, err := svc.VerifyCredentials(ctx, "ayse", "newsecret")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	mustRegister(t, svc, "kemal")

	u, err := svc.UpdateProfile(ctx, "kemal", "Kemal Demir", "hot mill")
	require.NoError(t, err)
	require.Equal(t, "Kemal Demir", u.FullName)
	require.Equal(t, "hot mill", u.Department)

	// Blank fields leave stored values alone.
	u, err = svc.UpdateProfile(ctx, "kemal", "", "cold mill")
	require.NoError(t, err)
	require.Equal(t, "Kemal Demir", u.FullName)
	require.Equal(t, "cold mill", u.Department)
}
