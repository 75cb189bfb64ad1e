package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/pkg/apperr"
	"github.com/vanyajewels/storefront/pkg/auth"
)

func authFixture(t *testing.T) (*AuthService, *fakeUserStore, *fakeDeliverer) {
	t.Helper()
	users := newFakeUserStore()
	deliver := &fakeDeliverer{}
	return NewAuthService(users, deliver), users, deliver
}

func signupInput() SignupInput {
	return SignupInput{
		Name:     "Asha Verma",
		Phone:    "9876543210",
		Email:    "asha@example.com",
		Password: "secret123",
	}
}

func TestSignupCreatesUnverifiedUser(t *testing.T) {
	svc, users, deliver := authFixture(t)

	res, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "User registered successfully. Please verify OTP sent to your phone.", res.Message)

	u, err := users.FindByPhone(context.Background(), "9876543210")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.PhoneVerified)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, []string{"Rings", "Necklaces"}, u.JewelleryInterests)
	require.NotNil(t, u.OTP)
	assert.NotEqual(t, "secret123", u.Password)

	require.Len(t, deliver.sms, 1)
	assert.Equal(t, "signup", deliver.lastSMS().Purpose)
	assert.Len(t, deliver.lastSMS().Code, 6)
}

func TestSignupRetryReissuesOTP(t *testing.T) {
	svc, _, deliver := authFixture(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	res, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "OTP sent again. Please verify your number to complete registration.", res.Message)
	assert.Len(t, deliver.sms, 2)
}

func TestSignupDuplicateBranches(t *testing.T) {
	svc, _, deliver := authFixture(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	_, _, err = svc.VerifySignupOTP(context.Background(), "9876543210", deliver.lastSMS().Code)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), signupInput())
	assert.EqualError(t, err, "User already registered. Please log in.")

	in := signupInput()
	in.Email = "other@example.com"
	_, err = svc.Signup(context.Background(), in)
	assert.EqualError(t, err, "This phone number is already registered.")

	in = signupInput()
	in.Phone = "9876500000"
	_, err = svc.Signup(context.Background(), in)
	assert.EqualError(t, err, "This email is already registered.")
}

func TestVerifySignupOTP(t *testing.T) {
	svc, users, deliver := authFixture(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	_, _, err = svc.VerifySignupOTP(context.Background(), "9876543210", "000000")
	assert.EqualError(t, err, "Invalid OTP")

	user, token, err := svc.VerifySignupOTP(context.Background(), "9876543210", deliver.lastSMS().Code)
	require.NoError(t, err)
	assert.True(t, user.PhoneVerified)
	assert.NotEmpty(t, token)

	stored, _ := users.FindByPhone(context.Background(), "9876543210")
	assert.True(t, stored.PhoneVerified)
	assert.Nil(t, stored.OTP) // consumed
}

func TestOTPExpires(t *testing.T) {
	svc, _, deliver := authFixture(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	code := deliver.lastSMS().Code

	svc.now = func() time.Time { return issued.Add(models.OTPTTL + time.Second) }
	_, _, err = svc.VerifySignupOTP(context.Background(), "9876543210", code)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
	assert.EqualError(t, err, "OTP has expired. Please request a new one.")
}

func TestOTPSingleUse(t *testing.T) {
	svc, _, deliver := authFixture(t)

	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	code := deliver.lastSMS().Code

	_, _, err = svc.VerifySignupOTP(context.Background(), "9876543210", code)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{Phone: "9876543210", OTP: code})
	assert.EqualError(t, err, "Invalid OTP")
}

func verifiedUser(t *testing.T, svc *AuthService, deliver *fakeDeliverer) {
	t.Helper()
	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	_, _, err = svc.VerifySignupOTP(context.Background(), "9876543210", deliver.lastSMS().Code)
	require.NoError(t, err)
}

func TestLoginWithPassword(t *testing.T) {
	svc, _, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)

	user, token, err := svc.Login(context.Background(), LoginInput{Phone: "9876543210", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "asha@example.com", user.Email)

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "asha@example.com", Password: "secret123"})
	assert.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{Phone: "9876543210", Password: "wrong"})
	assert.EqualError(t, err, "Invalid password")
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
}

func TestLoginWithOTP(t *testing.T) {
	svc, _, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)

	msg, err := svc.SendOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "OTP resent for login", msg)
	assert.Equal(t, "login", deliver.lastSMS().Purpose)

	_, token, err := svc.Login(context.Background(), LoginInput{Phone: "9876543210", OTP: deliver.lastSMS().Code})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginRejectsUnverified(t *testing.T) {
	svc, _, _ := authFixture(t)
	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{Phone: "9876543210", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.StatusOf(err))
	assert.EqualError(t, err, "User is not verified. Please verify OTP first.")
}

func TestLoginInputValidation(t *testing.T) {
	svc, _, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)

	_, _, err := svc.Login(context.Background(), LoginInput{})
	assert.EqualError(t, err, "Please provide phone or email")

	_, _, err = svc.Login(context.Background(), LoginInput{Phone: "9876543210"})
	assert.EqualError(t, err, "Please provide OTP or password")
}

func TestSendOTPValidation(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.SendOTP(context.Background(), "12345")
	assert.EqualError(t, err, "Enter a valid Indian phone number")

	_, err = svc.SendOTP(context.Background(), "9876543210")
	assert.EqualError(t, err, "User not found. Please sign up first.")
}

func TestSendOTPForUnverifiedUser(t *testing.T) {
	svc, _, deliver := authFixture(t)
	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	msg, err := svc.SendOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "OTP resent for verification", msg)
	assert.Equal(t, "signup", deliver.lastSMS().Purpose)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)

	require.NoError(t, svc.ForgotPassword(context.Background(), "9876543210"))
	assert.Equal(t, "reset", deliver.lastSMS().Purpose)

	err := svc.ResetPassword(context.Background(), "9876543210", deliver.lastSMS().Code, "newsecret")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), LoginInput{Phone: "9876543210", Password: "secret123"})
	assert.EqualError(t, err, "Invalid password")
	_, _, err = svc.Login(context.Background(), LoginInput{Phone: "9876543210", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestForgotPasswordRequiresVerifiedUser(t *testing.T) {
	svc, _, _ := authFixture(t)
	_, err := svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	err = svc.ForgotPassword(context.Background(), "9876543210")
	assert.EqualError(t, err, "Verified user with this phone not found")
}

func TestResetPasswordValidation(t *testing.T) {
	svc, _, _ := authFixture(t)
	err := svc.ResetPassword(context.Background(), "9876543210", "", "newsecret")
	assert.EqualError(t, err, "Phone, OTP, and new password are required")
}

func TestChangePassword(t *testing.T) {
	svc, users, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)
	u, _ := users.FindByPhone(context.Background(), "9876543210")

	err := svc.ChangePassword(context.Background(), u.ID.Hex(), "wrong", "newsecret")
	assert.EqualError(t, err, "Incorrect current password")

	err = svc.ChangePassword(context.Background(), u.ID.Hex(), "secret123", "newsecret")
	require.NoError(t, err)

	stored, _ := users.FindByPhone(context.Background(), "9876543210")
	assert.True(t, auth.CheckPassword(stored.Password, "newsecret"))
}

func TestEmailVerificationFlow(t *testing.T) {
	svc, users, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)
	u, _ := users.FindByPhone(context.Background(), "9876543210")

	require.NoError(t, svc.SendEmailOTP(context.Background(), u.ID.Hex()))
	require.Len(t, deliver.emails, 1)
	assert.Equal(t, "asha@example.com", deliver.emails[0].To)

	verified, err := svc.VerifyEmailOTP(context.Background(), u.ID.Hex(), deliver.emails[0].Code)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.True(t, verified.Verified())
}

func TestLoadIdentity(t *testing.T) {
	svc, users, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)
	u, _ := users.FindByPhone(context.Background(), "9876543210")

	ident, err := svc.LoadIdentity(context.Background(), u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), ident.ID)
	assert.Equal(t, models.RoleUser, ident.Role)
	assert.True(t, ident.PhoneVerified)

	_, err = svc.LoadIdentity(context.Background(), "507f1f77bcf86cd799439011")
	assert.EqualError(t, err, "Invalid token")
}

func TestDeleteAccount(t *testing.T) {
	svc, users, deliver := authFixture(t)
	verifiedUser(t, svc, deliver)
	u, _ := users.FindByPhone(context.Background(), "9876543210")

	require.NoError(t, svc.DeleteAccount(context.Background(), u.ID.Hex()))
	_, err := svc.CurrentUser(context.Background(), u.ID.Hex())
	assert.EqualError(t, err, "User not found")
}
