package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/mmsoftworks/campusfees_backend/config"
	"github.com/mmsoftworks/campusfees_backend/models"
	"github.com/mmsoftworks/campusfees_backend/utils"
)

// Auth lifecycle against real MySQL + Redis: admin bootstrap, login,
// session resolution, logout, and the admin delete guard.
//
// Run (requires Docker): INTEGRATION_TESTS=1 go test ./models -run StaffSession -v
func TestStaffSessionLifecycle(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "campusfees_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	db := config.GetDB()

	created, err := models.SeedDefaultAdmin(ctx, db)
	if err != nil {
		t.Fatalf("SeedDefaultAdmin: %v", err)
	}
	if !created {
		t.Fatal("expected admin to be created on empty staff table")
	}
	// Second run is a no-op.
	if created, err := models.SeedDefaultAdmin(ctx, db); err != nil || created {
		t.Fatalf("SeedDefaultAdmin rerun: created=%v err=%v", created, err)
	}

	// Bad credentials surface a ValidationError so the HTTP layer can
	// answer 401 instead of treating them as an unexpected failure.
	var validation *utils.ValidationError
	if _, err := models.Login(ctx, "admin", "wrong"); !errors.As(err, &validation) {
		t.Fatalf("login with wrong password: got %v, want ValidationError", err)
	}
	if _, err := models.Login(ctx, "nobody", "12345"); !errors.As(err, &validation) {
		t.Fatalf("login with unknown staff id: got %v, want ValidationError", err)
	}

	info, err := models.Login(ctx, "admin", "12345")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if info.Role != models.StaffRoleAdmin {
		t.Fatalf("login role = %q, want admin", info.Role)
	}

	session, exists, err := models.GetSession(info.Token)
	if err != nil || !exists {
		t.Fatalf("GetSession: exists=%v err=%v", exists, err)
	}
	if session.StaffId != "admin" {
		t.Fatalf("session staff id = %q, want admin", session.StaffId)
	}

	sessionCtx := utils.SetTokenInContext(ctx, info.Token)
	if ok, err := models.Logout(sessionCtx); err != nil || !ok {
		t.Fatalf("Logout: ok=%v err=%v", ok, err)
	}
	if _, exists, _ := models.GetSession(info.Token); exists {
		t.Fatal("session must be gone after logout")
	}

	// Staff CRUD and the admin guard.
	staff, err := models.CreateStaff(ctx, &models.NewStaff{
		StaffId:  "clerk1",
		Name:     "Fee Clerk",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if staff.Password != "" {
		t.Fatal("staff responses must not carry the password hash")
	}

	if _, err := models.CreateStaff(ctx, &models.NewStaff{
		StaffId:  "clerk1",
		Name:     "Another Clerk",
		Password: "secret",
	}); err == nil {
		t.Fatal("expected duplicate staff_id to be rejected")
	} else {
		var dup *utils.DuplicateError
		if !errors.As(err, &dup) {
			t.Fatalf("expected DuplicateError for staff_id, got %v", err)
		}
	}

	// Blank password on update keeps the old credential working.
	if _, err := models.UpdateStaff(ctx, staff.ID, &models.NewStaff{
		StaffId: "clerk1",
		Name:    "Senior Fee Clerk",
	}); err != nil {
		t.Fatalf("UpdateStaff: %v", err)
	}
	if _, err := models.Login(ctx, "clerk1", "secret"); err != nil {
		t.Fatalf("login after no-password update: %v", err)
	}

	var admin models.Staff
	if err := db.WithContext(ctx).Where("staff_id = ?", "admin").Take(&admin).Error; err != nil {
		t.Fatalf("fetch admin: %v", err)
	}
	if _, err := models.DeleteStaff(ctx, admin.ID); err == nil {
		t.Fatal("expected admin delete to be rejected")
	}
	if _, err := models.DeleteStaff(ctx, staff.ID); err != nil {
		t.Fatalf("DeleteStaff(clerk): %v", err)
	}
}
