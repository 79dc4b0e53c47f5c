package service

import (
	"errors"
	"fmt"
	"time"

	"paperroom/access-api/access"
	"paperroom/access-api/apperr"
	"paperroom/access-api/model"
	"paperroom/access-api/security"
	"paperroom/access-api/validators"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Verification issues, validates and retires one-time access codes. It is
// identifier-agnostic: the gate resolved per identifier kind carries
// everything the policy needs, so links and datarooms share one code path.
type Verification struct {
	DB    *gorm.DB
	Gates *GateResolver
	Argon *security.ArgonHash
	Codes *security.AuthCodeGenerator
	Mail  MailSender
	TTL   time.Duration
	Now   func() time.Time
}

// NewVerification wires a verification service with the configured TTL.
func NewVerification(db *gorm.DB, argon *security.ArgonHash, codes *security.AuthCodeGenerator, mail MailSender) *Verification {
	return &Verification{
		DB:    db,
		Gates: &GateResolver{DB: db},
		Argon: argon,
		Codes: codes,
		Mail:  mail,
		TTL:   viper.GetDuration("verification.code_ttl"),
		Now:   time.Now,
	}
}

// CodeRequest carries a visitor's credential submission.
type CodeRequest struct {
	Kind       TargetKind
	Identifier string
	Email      string
	Password   string
}

// CodeIssue is the outcome of a successful RequestCode.
type CodeIssue struct {
	Code string
	// Emailed reports whether the code left via the email round trip. When
	// true the code must not be echoed back to the HTTP caller.
	Emailed bool
}

// RequestCode runs the credential pre-check for the gate and issues a fresh
// one-time code. Password-protected gates verify the plaintext against the
// stored hash before anything is persisted; a mismatch creates no token.
// Email-protected gates dispatch the code out-of-band.
//
// Codes are inserted without a prior-existence check. With 62^12 possible
// values and a TTL measured in minutes the collision probability is far
// below anything the unique index would ever surface in practice.
func (s *Verification) RequestCode(req CodeRequest) (*CodeIssue, error) {
	gate, err := s.Gates.Resolve(req.Kind, req.Identifier)
	if err != nil {
		return nil, err
	}

	requirement := access.Evaluate(gate, s.Now())
	switch requirement {
	case access.RequirementArchived:
		return nil, fmt.Errorf("%w: %s is archived", apperr.ErrArchived, req.Identifier)
	case access.RequirementExpired:
		return nil, fmt.Errorf("%w: %s is expired", apperr.ErrExpired, req.Identifier)
	}

	if requirement.RequiresEmail() {
		if err := validators.EmailValidator(req.Email); err != nil {
			return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err)
		}
	}

	if requirement.RequiresPassword() {
		ok, err := s.Argon.VerifyPasswd(req.Password, gate.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("failed to verify password, %w", err)
		}

		if !ok {
			return nil, fmt.Errorf("%w: incorrect password", apperr.ErrInvalidCredentials)
		}
	}

	code := s.Codes.Generate()

	token := model.VerificationToken{
		Token:      code,
		Identifier: req.Identifier,
		ExpiresAt:  s.Now().Add(s.TTL),
		CreatedAt:  s.Now(),
	}

	if err := s.DB.Create(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to persist verification token, %w", err)
	}

	if !requirement.RequiresEmail() {
		return &CodeIssue{Code: code}, nil
	}

	url := verificationURL(req.Identifier, code)

	if err := s.Mail.SendVerificationMail(req.Email, url); err != nil {
		// The token stays behind and expires on its own; the visitor can
		// simply request another code.
		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("identifier", req.Identifier))
		return nil, fmt.Errorf("failed to send verification email, %w", err)
	}

	return &CodeIssue{Code: code, Emailed: true}, nil
}

// ValidateCode checks a presented code against the outstanding tokens for
// an identifier. A token that doesn't exist and a code that was never
// issued are indistinguishable to the caller. Expired tokens are deleted on
// detection, and a successfully validated token is deleted immediately so a
// code can never be replayed.
func (s *Verification) ValidateCode(code, identifier string) error {
	var token model.VerificationToken

	err := s.DB.
		Where("token = ? AND identifier = ?", code, identifier).
		First(&token).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown verification code", apperr.ErrUnauthorized)
		}

		return err
	}

	if !s.Now().Before(token.ExpiresAt) {
		if err := s.DB.Delete(&token).Error; err != nil {
			zap.L().Error("Failed to delete expired verification token", zap.Error(err))
		}

		return fmt.Errorf("%w: verification code expired", apperr.ErrExpired)
	}

	// Single use: retire the token on first successful validation.
	if err := s.DB.Delete(&token).Error; err != nil {
		return fmt.Errorf("failed to retire verification token, %w", err)
	}

	return nil
}

func verificationURL(identifier, code string) string {
	return fmt.Sprintf("%s/view/%s?authenticationCode=%s",
		viper.GetString("host.base_url"), identifier, code)
}
