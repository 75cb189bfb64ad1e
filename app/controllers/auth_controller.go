// Package controllers holds the HTTP handlers. Controllers decode and
// validate input, call one service method and write the response envelope;
// everything else lives in app/services.
package controllers

import (
	"net/http"

	"github.com/vanyajewels/storefront/app/services"
	"github.com/vanyajewels/storefront/pkg/auth"
	"github.com/vanyajewels/storefront/pkg/bind"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/response"
)

// AuthController serves the signup/login/OTP/password surface.
type AuthController struct {
	service *services.AuthService
}

// NewAuthController wires the auth service.
func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.TokenTTL.Seconds()),
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Signup registers a new user and sends the phone OTP.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.service.Signup(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	if result.Created {
		response.CreatedMessage(w, result.Message)
		return
	}
	response.SuccessMessage(w, result.Message, nil)
}

// VerifySignupOTP confirms the phone code and logs the user in.
func (c *AuthController) VerifySignupOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}

	user, token, err := c.service.VerifySignupOTP(r.Context(), in.Phone, in.OTP)
	if err != nil {
		response.FromError(w, err)
		return
	}
	setAuthCookie(w, token)
	response.SuccessMessage(w, "OTP verified successfully, you are now logged in", user)
}

// Login authenticates with a password or a previously requested OTP.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}

	user, token, err := c.service.Login(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	setAuthCookie(w, token)
	response.SuccessMessage(w, "Login successful", user)
}

// SendOTP issues a phone OTP for login or verification.
func (c *AuthController) SendOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}

	msg, err := c.service.SendOTP(r.Context(), in.Phone)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, msg, nil)
}

// ForgotPassword issues a reset OTP.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone string `json:"phone"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}

	if err := c.service.ForgotPassword(r.Context(), in.Phone); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "OTP sent to your registered number for password reset", nil)
}

// ResetPassword sets a new password after checking the reset OTP.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phone       string `json:"phone"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}

	if err := c.service.ResetPassword(r.Context(), in.Phone, in.OTP, in.NewPassword); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Password has been reset successfully", nil)
}

// ChangePassword rotates the logged-in user's password.
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	ident, _ := middleware.IdentityFromCtx(r.Context())
	if err := c.service.ChangePassword(r.Context(), ident.ID, in.CurrentPassword, in.NewPassword); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Password updated successfully", nil)
}

// SendEmailOTP issues a code to the logged-in user's email.
func (c *AuthController) SendEmailOTP(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	if err := c.service.SendEmailOTP(r.Context(), ident.ID); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "OTP sent to your email address", nil)
}

// VerifyEmailOTP confirms the email code and marks the email verified.
func (c *AuthController) VerifyEmailOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		OTP string `json:"otp"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}

	ident, _ := middleware.IdentityFromCtx(r.Context())
	user, err := c.service.VerifyEmailOTP(r.Context(), ident.ID, in.OTP)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Email verified successfully", user)
}

// Logout clears the session cookie.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	response.SuccessMessage(w, "Logged out successfully", nil)
}

// CurrentUser returns the logged-in user.
func (c *AuthController) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	user, err := c.service.CurrentUser(r.Context(), ident.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

// DeleteAccount removes the user and their session cookie.
func (c *AuthController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	if err := c.service.DeleteAccount(r.Context(), ident.ID); err != nil {
		response.FromError(w, err)
		return
	}
	clearAuthCookie(w)
	response.SuccessMessage(w, "Account deleted", nil)
}
