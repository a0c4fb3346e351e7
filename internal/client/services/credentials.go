package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/logging"
	"github.com/go-playground/validator/v10"
)

// CredentialService validates a signup/login form and asks the backend to
// issue a one-time code.
//
// Contract:
//   - Submit validates the draft locally; a failing draft yields a
//     *ValidationError and no request.
//   - A valid draft produces exactly one unauthenticated request.
//   - On success the caller gets the PendingVerification; nothing is stored.
//   - A second Submit while one is running returns ErrSubmitInFlight.
type CredentialService interface {
	Submit(ctx context.Context, purpose models.Purpose, draft models.CredentialDraft) (*models.PendingVerification, error)
}

type credentialService struct {
	client   client.Client
	logger   logging.Logger
	validate *validator.Validate
	inFlight atomic.Bool
}

func NewCredentialService(c client.Client, logger logging.Logger) CredentialService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &credentialService{
		client:   c,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Field order is the order messages are reported in.
type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type signupForm struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	Username        string `validate:"required"`
	RawPassword     string `validate:"-"`
	ConfirmPassword string `validate:"eqfield=RawPassword"`
}

var validationMessages = map[string]string{
	"Email.required":          "Email is required.",
	"Email.email":             "Please enter a valid email address.",
	"Password.required":       "Password is required.",
	"Username.required":       "Username is required.",
	"ConfirmPassword.eqfield": "Passwords do not match.",
}

func (s *credentialService) check(purpose models.Purpose, d models.CredentialDraft) error {
	if !purpose.Valid() {
		return &ValidationError{Field: "Purpose", Message: "Unknown action."}
	}

	var form any = loginForm{
		Email:    strings.TrimSpace(d.Email),
		Password: strings.TrimSpace(d.Password),
	}
	if purpose == models.PurposeSignup {
		form = signupForm{
			Email:           strings.TrimSpace(d.Email),
			Password:        strings.TrimSpace(d.Password),
			Username:        strings.TrimSpace(d.Username),
			RawPassword:     d.Password,
			ConfirmPassword: d.ConfirmPassword,
		}
	}

	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	return translateValidationError(err)
}

// translateValidationError reports the first failing field only.
func translateValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	msg, ok := validationMessages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fe.Field() + " is invalid."
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}

func (s *credentialService) Submit(ctx context.Context, purpose models.Purpose, draft models.CredentialDraft) (*models.PendingVerification, error) {
	if err := s.check(purpose, draft); err != nil {
		return nil, err
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	email := models.NormalizeEmail(draft.Email)

	var err error
	switch purpose {
	case models.PurposeSignup:
		err = s.client.Signup(ctx, client.SignupRequest{
			Username:        strings.TrimSpace(draft.Username),
			Email:           email,
			Password:        draft.Password,
			ConfirmPassword: draft.ConfirmPassword,
		})
	case models.PurposeLogin:
		err = s.client.Login(ctx, email, draft.Password)
	}
	if err != nil {
		s.logger.Info(ctx, "credential submission rejected", "purpose", purpose, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "verification code requested", "purpose", purpose)
	return &models.PendingVerification{Email: email, Purpose: purpose}, nil
}
