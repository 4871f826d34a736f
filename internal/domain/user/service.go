// internal/domain/user/service.go
package user

import (
	"fmt"
	"time"

	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/pkg/apperrors"
	"github.com/your-org/catering-backend/internal/pkg/auth"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"gorm.io/gorm"
)

// Service handles staff account business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents staff registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	Speciality      string `json:"speciality"`
}

// LoginRequest represents staff login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new staff account. Only admins may grant a role
// above chef; everyone else gets the default.
func (s *Service) Register(actor *authz.Actor, req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.Validation("passwords do not match")
	}

	role := authz.RoleChef
	if req.Role != "" {
		parsed, err := authz.ParseRole(req.Role)
		if err != nil {
			return nil, apperrors.Validation("invalid role: %s", req.Role)
		}
		role = parsed
	}
	if role > authz.RoleChef && (actor == nil || !actor.Can(authz.RoleAdmin)) {
		return nil, apperrors.PermissionDenied("only admins can create %s accounts", role)
	}

	// Check if user already exists
	var existingUser User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, apperrors.Conflict("user with this email already exists")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}

	user := User{
		Email:      req.Email,
		Password:   hashedPassword,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Role:       role,
		Speciality: req.Speciality,
		IsActive:   true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&user)
}

// Login authenticates a staff member
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var user User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user)
	if result.Error != nil {
		return nil, apperrors.PermissionDenied("invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, apperrors.PermissionDenied("invalid email or password")
	}

	// Update last login
	now := time.Now().UTC()
	user.LastLoginAt = &now
	s.db.Model(&user).Update("last_login_at", now)

	return s.issueTokens(&user)
}

// RefreshToken generates new tokens using a refresh token. The role is
// re-read from the database so revoked privileges take effect here.
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.PermissionDenied("invalid refresh token")
	}

	var user User
	result := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user)
	if result.Error != nil {
		return nil, apperrors.PermissionDenied("user not found or inactive")
	}

	resp, err := s.issueTokens(&user)
	if err != nil {
		return nil, err
	}
	if !s.config.JWT.RefreshTokenRotation {
		resp.RefreshToken = refreshToken
	}
	return resp, nil
}

func (s *Service) issueTokens(user *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Clear password from response
	user.Password = ""

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetProfile gets a staff profile by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	user.Password = ""
	return &user, nil
}

// UpdateProfile updates the caller's own profile
func (s *Service) UpdateProfile(userID uint, updates map[string]interface{}) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	// Remove fields the caller must not set on themselves
	delete(updates, "password")
	delete(updates, "role")
	delete(updates, "is_active")
	delete(updates, "email")

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user.Password = ""
	return &user, nil
}

// ChangePassword changes the caller's password after verifying the current one
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return apperrors.NotFound("user %d not found", userID)
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, user.Password); err != nil {
		return apperrors.PermissionDenied("current password is incorrect")
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return apperrors.Validation("%s", err.Error())
	}

	if err := s.db.Model(&user).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// SetRole changes a staff member's role. Admin only.
func (s *Service) SetRole(actor *authz.Actor, userID uint, role authz.Role) (*User, error) {
	if !actor.Can(authz.RoleAdmin) {
		return nil, apperrors.PermissionDenied("%s cannot change roles", actor.Role)
	}
	if !role.IsValid() {
		return nil, apperrors.Validation("invalid role")
	}

	var user User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperrors.NotFound("user %d not found", userID)
	}

	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user.Role = role
	user.Password = ""
	return &user, nil
}

// SetActive activates or deactivates a staff account. Admin only.
func (s *Service) SetActive(actor *authz.Actor, userID uint, active bool) error {
	if !actor.Can(authz.RoleAdmin) {
		return apperrors.PermissionDenied("%s cannot deactivate accounts", actor.Role)
	}
	if actor.ID == userID && !active {
		return apperrors.Validation("cannot deactivate your own account")
	}

	result := s.db.Model(&User{}).Where("id = ?", userID).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("user %d not found", userID)
	}
	return nil
}

// ListStaff lists active staff accounts, optionally filtered by role.
// Manager and above.
func (s *Service) ListStaff(actor *authz.Actor, role *authz.Role) ([]User, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("%s cannot list staff", actor.Role)
	}

	query := s.db.Where("is_active = ?", true)
	if role != nil {
		query = query.Where("role = ?", *role)
	}

	var users []User
	if err := query.Order("first_name, last_name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// ListChefs lists active chef accounts
func (s *Service) ListChefs() ([]User, error) {
	var chefs []User
	err := s.db.Where("role = ? AND is_active = ?", authz.RoleChef, true).
		Order("first_name, last_name").
		Find(&chefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chefs: %w", err)
	}
	for i := range chefs {
		chefs[i].Password = ""
	}
	return chefs, nil
}

// LeastLoadedChef returns the active chef with the fewest open cooking
// tasks, used as the fallback assignee when an event has no chef.
// Returns nil when there are no active chefs.
func (s *Service) LeastLoadedChef() (*uint, error) {
	var row struct {
		ID uint
	}
	err := s.db.Table("users").
		Select("users.id").
		Joins("LEFT JOIN cooking_tasks ct ON ct.assigned_to_id = users.id AND ct.status IN ?",
			[]string{"not_started", "in_progress", "on_hold"}).
		Where("users.role = ? AND users.is_active = ? AND users.deleted_at IS NULL", authz.RoleChef, true).
		Group("users.id").
		Order("COUNT(ct.id) ASC, users.id ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find chef: %w", err)
	}
	if row.ID == 0 {
		return nil, nil
	}
	id := row.ID
	return &id, nil
}
