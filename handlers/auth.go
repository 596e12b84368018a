package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"tiffin-market-api/mailer"
	"tiffin-market-api/middleware"
	"tiffin-market-api/models"
)

const codeValidity = 10 * time.Minute

// generateCode returns a 6-digit numeric one-time code.
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

type SignupRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required,oneof=customer seller"`
	Phone    string          `json:"phone"`
	Address  string          `json:"address"`
}

// Signup stages an unverified account and emails a verification code. A
// repeat signup for the same pending email replaces the previous code.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		fail(c, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	h.DB.Where("email = ?", req.Email).Delete(&models.TempUser{})

	temp := models.TempUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        req.Phone,
		Address:      req.Address,
		Code:         generateCode(),
		ExpiresAt:    time.Now().Add(codeValidity),
	}
	if err := h.DB.Create(&temp).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to start signup")
		return
	}

	subject, body := mailer.VerificationEmail(temp.Name, temp.Code)
	h.notify(temp.Email, subject, body)

	ok(c, http.StatusCreated, "Verification code sent to your email", gin.H{"email": temp.Email})
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// Verify promotes a staged signup to a full account and signs the caller in.
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var temp models.TempUser
	if err := h.DB.Where("email = ?", req.Email).First(&temp).Error; err != nil {
		fail(c, http.StatusBadRequest, "No pending signup for this email")
		return
	}
	if time.Now().After(temp.ExpiresAt) {
		h.DB.Delete(&temp)
		fail(c, http.StatusBadRequest, "Verification code expired, sign up again")
		return
	}
	if temp.Code != req.Code {
		fail(c, http.StatusBadRequest, "Invalid verification code")
		return
	}

	user := models.User{
		Name:         temp.Name,
		Email:        temp.Email,
		PasswordHash: temp.PasswordHash,
		Role:         temp.Role,
		Phone:        temp.Phone,
		Address:      temp.Address,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		fail(c, http.StatusConflict, "Email already registered")
		return
	}
	h.DB.Delete(&temp)

	token, err := middleware.GenerateToken(&user, h.Cfg)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	middleware.SetTokenCookie(c, token, h.Cfg)

	ok(c, http.StatusCreated, "Account verified", gin.H{
		"user": gin.H{"id": user.ID, "name": user.Name, "email": user.Email, "role": user.Role},
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and sets the token cookie.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(&user, h.Cfg)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	middleware.SetTokenCookie(c, token, h.Cfg)

	ok(c, http.StatusOK, "Login successful", gin.H{
		"user": gin.H{"id": user.ID, "name": user.Name, "email": user.Email, "role": user.Role},
	})
}

// Logout clears the token cookie.
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c, h.Cfg)
	ok(c, http.StatusOK, "Logged out", nil)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset code. The response is identical whether or
// not the account exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		reset := models.PasswordReset{
			Email:     user.Email,
			Code:      generateCode(),
			ExpiresAt: time.Now().Add(codeValidity),
		}
		if err := h.DB.Create(&reset).Error; err == nil {
			subject, body := mailer.PasswordResetEmail(reset.Code)
			h.notify(user.Email, subject, body)
		}
	}

	ok(c, http.StatusOK, "If the account exists, a reset code has been sent", nil)
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6"`
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword consumes a valid, unexpired, unused code and replaces the
// account's password hash.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var reset models.PasswordReset
	err := h.DB.Where("email = ? AND code = ? AND used = ?", req.Email, req.Code, false).
		Order("created_at desc").
		First(&reset).Error
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid reset code")
		return
	}
	if time.Now().After(reset.ExpiresAt) {
		fail(c, http.StatusBadRequest, "Reset code expired")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := h.DB.Model(&models.User{}).Where("email = ?", req.Email).
		Update("password_hash", string(hash)).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	h.DB.Model(&reset).Update("used", true)

	ok(c, http.StatusOK, "Password updated, please log in", nil)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}
	ok(c, http.StatusOK, "", gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PictureURL string `json:"picture_url"`
}

// UpdateMe updates the caller's profile fields. Email and role are fixed.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	update := map[string]interface{}{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.Address != "" {
		update["address"] = req.Address
	}
	if req.PictureURL != "" {
		update["picture_url"] = req.PictureURL
	}
	if len(update) > 0 {
		if err := h.DB.Model(&user).Updates(update).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}
	ok(c, http.StatusOK, "Profile updated", gin.H{"user": user})
}
