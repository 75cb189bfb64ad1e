package services

import (
	"context"
	"regexp"
	"time"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/pkg/apperr"
	"github.com/vanyajewels/storefront/pkg/auth"
	"github.com/vanyajewels/storefront/pkg/metrics"
	"github.com/vanyajewels/storefront/pkg/middleware"
)

var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// AuthService owns signup, login, OTP and password flows.
type AuthService struct {
	users   UserStore
	deliver OTPDeliverer
	now     func() time.Time
}

// NewAuthService wires the identity store and OTP delivery.
func NewAuthService(users UserStore, deliver OTPDeliverer) *AuthService {
	return &AuthService{users: users, deliver: deliver, now: time.Now}
}

// LoadIdentity implements middleware.IdentityLoader so the auth middleware
// can re-check the user on every request.
func (s *AuthService) LoadIdentity(ctx context.Context, userID string) (middleware.Identity, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return middleware.Identity{}, err
	}
	if u == nil {
		return middleware.Identity{}, apperr.Unauthorized("Invalid token")
	}
	return middleware.Identity{
		ID:            u.ID.Hex(),
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
	}, nil
}

// SignupInput is the signup payload.
type SignupInput struct {
	Name     string `json:"name" validate:"required,alpha_space,min=2,max=50"`
	Phone    string `json:"phone" validate:"required,regex=^[6-9][0-9]{9}$"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignupResult tells the controller what happened: a brand-new registration
// answers 201, an OTP re-send for an unverified retry answers 200.
type SignupResult struct {
	Created bool
	Message string
}

// Signup registers a user (unverified) and sends a phone OTP. A signup
// retry against an existing unverified user re-issues the OTP instead of
// failing; verified duplicates are rejected per contact channel.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	byPhone, err := s.users.FindByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	if byPhone != nil && byEmail != nil && byPhone.ID == byEmail.ID && byPhone.PhoneVerified {
		return nil, apperr.BadRequest("User already registered. Please log in.")
	}
	if byPhone != nil && byPhone.PhoneVerified && (byEmail == nil || byEmail.ID != byPhone.ID) {
		return nil, apperr.BadRequest("This phone number is already registered.")
	}
	if byEmail != nil && byEmail.PhoneVerified && (byPhone == nil || byEmail.ID != byPhone.ID) {
		return nil, apperr.BadRequest("This email is already registered.")
	}

	// Unverified leftover from an earlier attempt: re-issue the OTP.
	existing := byPhone
	if existing == nil {
		existing = byEmail
	}
	if existing != nil && !existing.PhoneVerified {
		code, err := s.issueOTP(existing)
		if err != nil {
			return nil, err
		}
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, err
		}
		metrics.OTPIssued.WithLabelValues("signup").Inc()
		if err := s.deliver.SendSMS(ctx, existing.Phone, code, "signup"); err != nil {
			return nil, err
		}
		return &SignupResult{
			Message: "OTP sent again. Please verify your number to complete registration.",
		}, nil
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:               in.Name,
		Phone:              in.Phone,
		Email:              in.Email,
		Password:           hashed,
		PasswordChangedAt:  s.now(),
		Role:               models.RoleUser,
		JewelleryInterests: []string{"Rings", "Necklaces"},
	}
	code, err := s.issueOTP(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	metrics.OTPIssued.WithLabelValues("signup").Inc()
	if err := s.deliver.SendSMS(ctx, user.Phone, code, "signup"); err != nil {
		return nil, err
	}
	return &SignupResult{
		Created: true,
		Message: "User registered successfully. Please verify OTP sent to your phone.",
	}, nil
}

// VerifySignupOTP confirms the phone OTP, marks the phone verified and logs
// the user in.
func (s *AuthService) VerifySignupOTP(ctx context.Context, phone, otp string) (*models.User, string, error) {
	if phone == "" || otp == "" {
		return nil, "", apperr.BadRequest("Phone and OTP are required")
	}
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.NotFound("User not found")
	}
	if err := s.consumeOTP(user, otp); err != nil {
		return nil, "", err
	}
	user.PhoneVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginInput is the login payload; exactly one of password/otp is used.
type LoginInput struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// Login authenticates by phone or email, with a password or a previously
// requested OTP.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	if in.Phone == "" && in.Email == "" {
		return nil, "", apperr.BadRequest("Please provide phone or email")
	}

	var user *models.User
	var err error
	if in.Phone != "" {
		user, err = s.users.FindByPhone(ctx, in.Phone)
	} else {
		user, err = s.users.FindByEmail(ctx, in.Email)
	}
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.BadRequest("User not found")
	}
	if !user.PhoneVerified {
		return nil, "", apperr.Forbidden("User is not verified. Please verify OTP first.")
	}

	switch {
	case in.OTP != "":
		if err := s.consumeOTP(user, in.OTP); err != nil {
			return nil, "", err
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, "", err
		}
	case in.Password != "":
		if !auth.CheckPassword(user.Password, in.Password) {
			return nil, "", apperr.Unauthorized("Invalid password")
		}
	default:
		return nil, "", apperr.BadRequest("Please provide OTP or password")
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SendOTP issues a phone OTP for either login (already verified) or
// verification (not yet verified).
func (s *AuthService) SendOTP(ctx context.Context, phone string) (string, error) {
	if !phonePattern.MatchString(phone) {
		return "", apperr.BadRequest("Enter a valid Indian phone number")
	}
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.NotFound("User not found. Please sign up first.")
	}

	code, err := s.issueOTP(user)
	if err != nil {
		return "", err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	purpose := "signup"
	msg := "OTP resent for verification"
	if user.PhoneVerified {
		purpose = "login"
		msg = "OTP resent for login"
	}
	metrics.OTPIssued.WithLabelValues(purpose).Inc()
	if err := s.deliver.SendSMS(ctx, phone, code, purpose); err != nil {
		return "", err
	}
	return msg, nil
}

// ForgotPassword issues a reset OTP to a verified user's phone.
func (s *AuthService) ForgotPassword(ctx context.Context, phone string) error {
	if !phonePattern.MatchString(phone) {
		return apperr.BadRequest("Enter a valid Indian phone number")
	}
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user == nil || !user.PhoneVerified {
		return apperr.NotFound("Verified user with this phone not found")
	}

	code, err := s.issueOTP(user)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	metrics.OTPIssued.WithLabelValues("reset").Inc()
	return s.deliver.SendSMS(ctx, phone, code, "reset")
}

// ResetPassword sets a new password after checking the reset OTP.
func (s *AuthService) ResetPassword(ctx context.Context, phone, otp, newPassword string) error {
	if phone == "" || otp == "" || newPassword == "" {
		return apperr.BadRequest("Phone, OTP, and new password are required")
	}
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user == nil || !user.PhoneVerified {
		return apperr.NotFound("Verified user not found")
	}
	if err := s.consumeOTP(user, otp); err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.PasswordChangedAt = s.now()
	return s.users.Update(ctx, user)
}

// ChangePassword rotates the password of a logged-in user.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}
	if !auth.CheckPassword(user.Password, current) {
		return apperr.Unauthorized("Incorrect current password")
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.PasswordChangedAt = s.now()
	return s.users.Update(ctx, user)
}

// SendEmailOTP issues a code to the logged-in user's email address so
// EmailVerified can be earned.
func (s *AuthService) SendEmailOTP(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}

	code, err := s.issueOTP(user)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	metrics.OTPIssued.WithLabelValues("email").Inc()
	return s.deliver.SendEmail(ctx, user.Email, code)
}

// VerifyEmailOTP confirms the email code and marks the email verified.
func (s *AuthService) VerifyEmailOTP(ctx context.Context, userID, otp string) (*models.User, error) {
	if otp == "" {
		return nil, apperr.BadRequest("OTP is required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	if err := s.consumeOTP(user, otp); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CurrentUser returns the logged-in user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

// DeleteAccount removes the user document.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	return s.users.Delete(ctx, userID)
}

// issueOTP generates a 6-digit code and stores only its hash plus the
// issuance time on the user. The plaintext code is returned for delivery.
func (s *AuthService) issueOTP(u *models.User) (string, error) {
	code := auth.GenerateOTP()
	hash, err := auth.HashPassword(code)
	if err != nil {
		return "", err
	}
	u.OTP = &models.OTPCredential{Hash: hash, IssuedAt: s.now()}
	return code, nil
}

// consumeOTP checks the submitted code against the stored credential and
// invalidates it on success. Expired or missing codes fail the same way a
// wrong code does, except for the distinct expiry message.
func (s *AuthService) consumeOTP(u *models.User, code string) error {
	if u.OTP == nil {
		return apperr.Unauthorized("Invalid OTP")
	}
	if u.OTP.Expired(s.now()) {
		u.OTP = nil
		return apperr.Unauthorized("OTP has expired. Please request a new one.")
	}
	if !auth.CheckPassword(u.OTP.Hash, code) {
		return apperr.Unauthorized("Invalid OTP")
	}
	u.OTP = nil
	return nil
}
