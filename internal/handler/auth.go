package handler

import (
	"net/http"
	"strings"
	"time"

	"media-share/internal/models"
	"media-share/internal/session"
	"media-share/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 负责登录/注册/密码找回相关接口
type AuthHandler struct {
	DB         *gorm.DB
	Sessions   *session.Manager
	BcryptCost int

	ResetSecret string
	ResetTTL    time.Duration
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, sessions *session.Manager, bcryptCost int, resetSecret string, resetExpireSeconds int) *AuthHandler {
	if resetExpireSeconds <= 0 {
		resetExpireSeconds = 3600
	}
	return &AuthHandler{
		DB:          db,
		Sessions:    sessions,
		BcryptCost:  bcryptCost,
		ResetSecret: resetSecret,
		ResetTTL:    time.Duration(resetExpireSeconds) * time.Second,
	}
}

// ---------- LOGIN ----------

// LoginPage 登录页面
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, "login.html", nil)
}

// Login accepts an email or a username plus password. On success all prior
// session state is dropped and a fresh authenticated session is issued.
func (h *AuthHandler) Login(c *gin.Context) {
	identifier := c.PostForm("email")
	if identifier == "" {
		identifier = c.PostForm("username")
	}
	if identifier == "" {
		identifier = c.PostForm("identifier")
	}
	password := c.PostForm("password")

	if identifier == "" {
		util.SetFlash(c, "warning", "Please enter your email or username.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	identifier = strings.TrimSpace(identifier)

	var user models.User
	var err error
	if strings.Contains(identifier, "@") {
		err = h.DB.Where("email = ?", strings.ToLower(identifier)).First(&user).Error
	} else {
		err = h.DB.Where("username = ?", identifier).First(&user).Error
	}

	if err != nil || !util.CheckPassword(password, user.PasswordHash) {
		util.SetFlash(c, "danger", "Invalid email/username or password!")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if _, err := h.Sessions.Login(c, session.FromContext(c), &user); err != nil {
		util.SetFlash(c, "danger", "Login failed, please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// ---------- REGISTER ----------

// Register creates an account. Username and email are globally unique;
// the password policy applies here as well as on change/reset.
func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")

	if err := util.ValidateUsername(username); err != nil {
		util.SetFlash(c, "danger", "Username must be 3-20 letters, digits or underscores.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err := util.ValidateEmail(email); err != nil {
		util.SetFlash(c, "danger", "Please enter a valid email address.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if ok, reason := util.ValidatePassword(password); !ok {
		util.SetFlash(c, "danger", reason)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		util.SetFlash(c, "danger", "Registration failed, please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if count > 0 {
		util.SetFlash(c, "danger", "Username or email already taken. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	hash, err := util.HashPassword(password, h.BcryptCost)
	if err != nil {
		util.SetFlash(c, "danger", "Registration failed, please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// 唯一索引兜底（并发注册）
		util.SetFlash(c, "danger", "Username or email already taken. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	util.SetFlash(c, "success", "Account created successfully! Please login.")
	c.Redirect(http.StatusFound, "/login")
}

// ---------- LOGOUT ----------

// Logout flips the logged_out flag; identity fields stay on the row but the
// session no longer passes the gate.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := session.FromContext(c); sess != nil {
		_ = h.Sessions.Logout(sess)
	}
	c.Redirect(http.StatusFound, "/login")
}

// ---------- FORGOT PASSWORD ----------

// ForgotPasswordPage 找回密码页面
func (h *AuthHandler) ForgotPasswordPage(c *gin.Context) {
	render(c, "forgot_password.html", nil)
}

// ForgotPassword issues a signed reset token for a known email and renders
// the reset link. Nothing is stored server-side.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		render(c, "forgot_password.html", gin.H{
			"Message": "Email not found.",
		})
		return
	}

	token, err := util.GenerateResetToken(h.ResetSecret, user.Email, h.ResetTTL)
	if err != nil {
		render(c, "forgot_password.html", gin.H{
			"Message": "Could not generate a reset link, please try again.",
		})
		return
	}

	render(c, "forgot_password.html", gin.H{
		"Message":   "Reset link generated! Click below.",
		"ResetLink": "/reset_password/" + token,
	})
}

// ---------- RESET PASSWORD ----------

// verifyResetToken maps token errors onto the two user-visible outcomes:
// expiry gets its own message, a bad signature a silent redirect.
func (h *AuthHandler) verifyResetToken(c *gin.Context, token string) (string, bool) {
	email, err := util.ParseResetToken(h.ResetSecret, token)
	if err != nil {
		if err == util.ErrResetExpired {
			util.SetFlash(c, "warning", "Token expired. Please request a new reset link.")
		}
		c.Redirect(http.StatusFound, "/forgot_password")
		return "", false
	}
	return email, true
}

// ResetPasswordPage renders the new-password form for a valid token.
func (h *AuthHandler) ResetPasswordPage(c *gin.Context) {
	token := c.Param("token")
	email, ok := h.verifyResetToken(c, token)
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		util.SetFlash(c, "danger", "User not found.")
		c.Redirect(http.StatusFound, "/forgot_password")
		return
	}

	render(c, "reset_password.html", gin.H{
		"Email": email,
		"Token": token,
	})
}

// ResetPassword replaces the password for the email the token binds.
// Within its window a token verifies repeatedly; reuse is a known gap.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	email, ok := h.verifyResetToken(c, token)
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		util.SetFlash(c, "danger", "User not found.")
		c.Redirect(http.StatusFound, "/forgot_password")
		return
	}

	password := c.PostForm("password")
	if ok, reason := util.ValidatePassword(password); !ok {
		util.SetFlash(c, "danger", reason)
		c.Redirect(http.StatusFound, "/reset_password/"+token)
		return
	}

	hash, err := util.HashPassword(password, h.BcryptCost)
	if err != nil {
		util.SetFlash(c, "danger", "Password reset failed, please try again.")
		c.Redirect(http.StatusFound, "/reset_password/"+token)
		return
	}

	if err := h.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		util.SetFlash(c, "danger", "Password reset failed, please try again.")
		c.Redirect(http.StatusFound, "/reset_password/"+token)
		return
	}

	util.SetFlash(c, "success", "Password reset successfully! Please login.")
	c.Redirect(http.StatusFound, "/login")
}
