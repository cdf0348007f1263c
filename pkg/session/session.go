package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/client"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	FieldRollNumber = "rollNumber"
	FieldName       = "name"

	MessageRollNumberRequired = "Roll number is required"
	MessageNameRequired       = "Name is required"
	MessageLoginSucceeded     = "You've been logged in successfully."
	MessageSchemaUnavailable  = "Failed to fetch form structure. Please try again."
)

var (
	// ErrInvalidCredentials is returned when the login form fails validation.
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	// ErrLoginFailed is returned when the service rejects the user.
	ErrLoginFailed = errors.New("session: login failed")
)

// CredentialsError carries the per-field messages of a rejected login form.
type CredentialsError struct {
	Errors model.FieldErrors
}

func (e *CredentialsError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, key := range []string{FieldRollNumber, FieldName} {
		if msg, ok := e.Errors[key]; ok {
			parts = append(parts, msg)
		}
	}
	return "session: " + strings.Join(parts, "; ")
}

func (e *CredentialsError) Unwrap() error {
	return ErrInvalidCredentials
}

// Registrar creates or recognises a user on the form service.
type Registrar interface {
	CreateUser(ctx context.Context, user client.User) (client.CreateUserResult, error)
}

// Service is the remote side of a login: registration plus form lookup.
type Service interface {
	Registrar
	wizard.SchemaProvider
}

// ValidateCredentials trims and checks the two login fields.
func ValidateCredentials(user client.User) (client.User, model.FieldErrors) {
	clean := client.User{
		RollNumber: strings.TrimSpace(user.RollNumber),
		Name:       strings.TrimSpace(user.Name),
	}
	var errs model.FieldErrors
	if clean.RollNumber == "" {
		errs = model.FieldErrors{FieldRollNumber: MessageRollNumberRequired}
	}
	if clean.Name == "" {
		if errs == nil {
			errs = make(model.FieldErrors)
		}
		errs[FieldName] = MessageNameRequired
	}
	return clean, errs
}

// Session is an authenticated user with their form wizard.
type Session struct {
	User    client.User
	Wizard  *wizard.Controller
	Message string
}

// Login validates credentials, registers the user, fetches their form and
// builds a controller for it. Each stage fails with its own error:
// ErrInvalidCredentials (as *CredentialsError), ErrLoginFailed, or
// wizard.ErrSchemaUnavailable.
func Login(ctx context.Context, svc Service, user client.User, options ...wizard.Option) (*Session, error) {
	if svc == nil {
		return nil, errors.New("session: service is nil")
	}

	clean, errs := ValidateCredentials(user)
	if len(errs) > 0 {
		return nil, &CredentialsError{Errors: errs}
	}

	result, err := svc.CreateUser(ctx, clean)
	if err != nil || !result.Success {
		msg := strings.TrimSpace(result.Message)
		if msg == "" && err != nil {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}

	form, err := svc.FetchForm(ctx, clean.RollNumber)
	if err != nil {
		if errors.Is(err, wizard.ErrSchemaUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", wizard.ErrSchemaUnavailable, err)
	}

	controller, err := wizard.New(form, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wizard.ErrSchemaUnavailable, err)
	}

	return &Session{
		User:    clean,
		Wizard:  controller,
		Message: MessageLoginSucceeded,
	}, nil
}
