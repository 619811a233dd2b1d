package models

import (
	"context"
	"strings"
	"time"

	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"size:10;default:'USER'" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type NewUser struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role"`
	IsActive *bool    `json:"isActive"`
}

type UpdateUserInput struct {
	Name     string   `json:"name" binding:"required"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
	IsActive *bool    `json:"isActive"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(email) {
		return nil, utils.NewBusinessError("địa chỉ email không hợp lệ")
	}

	role := input.Role
	if role == "" {
		role = UserRoleUser
	}
	if !role.IsValid() {
		return nil, utils.NewBusinessError("vai trò không hợp lệ")
	}

	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessError("email đã được sử dụng")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	user := User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: isActive,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()
	var result User
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetUsers(ctx context.Context) ([]*User, error) {
	db := config.GetDB()
	var results []*User
	if err := db.WithContext(ctx).Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateUser(ctx context.Context, id int, input *UpdateUserInput) (*User, error) {
	db := config.GetDB()

	user, err := GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name": strings.TrimSpace(input.Name),
	}
	if input.Role != "" {
		if !input.Role.IsValid() {
			return nil, utils.NewBusinessError("vai trò không hợp lệ")
		}
		// Demoting the last active admin would lock everyone out.
		if user.Role == UserRoleAdmin && input.Role != UserRoleAdmin {
			remaining, err := countOtherActiveAdmins(ctx, id)
			if err != nil {
				return nil, err
			}
			if remaining == 0 {
				return nil, utils.NewBusinessError("không thể hạ quyền quản trị viên cuối cùng")
			}
		}
		updates["role"] = input.Role
	}
	if input.Password != "" {
		if len(input.Password) < 6 {
			return nil, utils.NewBusinessError("mật khẩu phải có ít nhất 6 ký tự")
		}
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}
	if input.IsActive != nil {
		if user.Role == UserRoleAdmin && !*input.IsActive {
			remaining, err := countOtherActiveAdmins(ctx, id)
			if err != nil {
				return nil, err
			}
			if remaining == 0 {
				return nil, utils.NewBusinessError("không thể khóa quản trị viên cuối cùng")
			}
		}
		updates["is_active"] = *input.IsActive
	}

	if err := db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetUser(ctx, id)
}

func countOtherActiveAdmins(ctx context.Context, excludeId int) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&User{}).
		Where("role = ? AND is_active = ? AND NOT id = ?", UserRoleAdmin, true, excludeId).
		Count(&count).Error
	return count, err
}

func DeleteUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()

	user, err := GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role == UserRoleAdmin {
		remaining, err := countOtherActiveAdmins(ctx, id)
		if err != nil {
			return nil, err
		}
		if remaining == 0 {
			return nil, utils.NewBusinessError("không thể xóa quản trị viên cuối cùng")
		}
	}

	if err := db.WithContext(ctx).Delete(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a signed token. The same message is
// returned for a wrong email and a wrong password.
func Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	db := config.GetDB()

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user User
	if err := db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, utils.NewBusinessError("email hoặc mật khẩu không đúng")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, utils.NewBusinessError("email hoặc mật khẩu không đúng")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, utils.NewBusinessError("tài khoản đã bị khóa")
	}

	token, err := utils.JwtGenerate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: &user, Token: token}, nil
}
