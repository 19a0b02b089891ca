package models

import (
	"strings"

	"github.com/craftmart-shop/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号。首个管理员始终拥有超级权限，
// 避免全新安装后没有任何账号能进入权限管理页面。
func InitDefaultAdmin(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		username = "admin"
	}

	var count int64
	DB.Model(&Admin{}).Count(&count)

	// 已有管理员时仅做修复：确保引导账号仍是超级管理员
	if count > 0 {
		if err := DB.Model(&Admin{}).Where("username = ?", username).Update("is_super", true).Error; err != nil {
			logger.Warnw("ensure_default_admin_super_failed", "username", username, "error", err)
		}
		return nil
	}

	usingDefaultPassword := password == ""
	if usingDefaultPassword {
		password = "craftmart"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsSuper:      true,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if usingDefaultPassword {
		logger.Warnw("default_admin_created_with_default_password", "username", username, "password", password)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}

	return nil
}
