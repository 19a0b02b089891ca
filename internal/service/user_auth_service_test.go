package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/craftmart-shop/internal/config"
	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-user-jwt-secret"
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{MinLength: 8}
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register(" Buyer@Example.COM ", "craftmart1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "buyer@example.com" {
		t.Fatalf("email want normalized, got %q", user.Email)
	}
	if user.DisplayName != "buyer" {
		t.Fatalf("display name want buyer got %q", user.DisplayName)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("register must issue a token, got %q %v", token, expiresAt)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, _, _, err := svc.Register("buyer@example.com", "craftmart1"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got: %v", err)
	}

	if _, _, _, err := svc.Login("buyer@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	logged, _, _, err := svc.Login("Buyer@example.com", "craftmart1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("last login must be recorded")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register("not-an-email", "craftmart1"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got: %v", err)
	}
	if _, _, _, err := svc.Register("short@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got: %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register("banned@example.com", "craftmart1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("email = ?", "banned@example.com").
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, _, _, err := svc.Login("banned@example.com", "craftmart1"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got: %v", err)
	}
}

func TestChangePasswordBumpsTokenVersion(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register("rotate@example.com", "craftmart1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong-old", "craftmart2"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected invalid password, got: %v", err)
	}
	if err := svc.ChangePassword(user.ID, "craftmart1", "craftmart2"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("token version want bump, got %d", reloaded.TokenVersion)
	}
	if reloaded.TokenInvalidBefore == nil {
		t.Fatalf("token invalid before must be set")
	}

	if _, _, _, err := svc.Login("rotate@example.com", "craftmart2"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfileLocale(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, _, _, err := svc.Register("locale@example.com", "craftmart1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	name := "匠心买家"
	locale := "zh-CN"
	updated, err := svc.UpdateProfile(user.ID, &name, &locale)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != name {
		t.Fatalf("display name want %q got %q", name, updated.DisplayName)
	}
	if updated.Locale != constants.LocaleZhCN {
		t.Fatalf("locale want zh-CN got %s", updated.Locale)
	}

	// 不支持的语言被忽略，保留原设置
	bad := "fr-FR"
	kept, err := svc.UpdateProfile(user.ID, nil, &bad)
	if err != nil {
		t.Fatalf("update with unsupported locale failed: %v", err)
	}
	if kept.Locale != constants.LocaleZhCN {
		t.Fatalf("unsupported locale must be ignored, got %s", kept.Locale)
	}
}

func TestPasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     10,
		RequireUpper:  true,
		RequireNumber: true,
	}
	if err := validatePassword(policy, "Short1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected min length failure, got: %v", err)
	}
	if err := validatePassword(policy, "alllowercase1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected upper requirement failure, got: %v", err)
	}
	if err := validatePassword(policy, "NoDigitsHere"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected number requirement failure, got: %v", err)
	}
	if err := validatePassword(policy, "GoodPassword1"); err != nil {
		t.Fatalf("expected pass, got: %v", err)
	}
	// 空策略不设限
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy must pass, got: %v", err)
	}
}
