package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/bandhan-app/matrimony/internal/pkg/validate"
)

const (
	defaultTOTPIssuer   = "Bandhan"
	defaultTOTPSetupTTL = 10 * time.Minute
	qrCodeSize          = 256
)

type TOTPSecretStore interface {
	SetTOTPSecret(ctx context.Context, userID int64, secret string) error
}

// PendingTOTPStore holds a generated secret until the user proves they enrolled it.
type PendingTOTPStore interface {
	SavePending(ctx context.Context, userID int64, secret string, ttl time.Duration) error
	GetPending(ctx context.Context, userID int64) (string, error)
	DeletePending(ctx context.Context, userID int64) error
}

type TOTPConfig struct {
	Issuer   string
	SetupTTL time.Duration
}

type TOTPSetup struct {
	Secret     string
	OTPAuthURL string
	QRCode     string
	ExpiresAt  time.Time
}

// AttachTOTP enables two-factor enrollment. Login enforces codes for any
// account with a stored secret regardless of whether this was called.
func (s *Service) AttachTOTP(secrets TOTPSecretStore, pending PendingTOTPStore, cfg TOTPConfig) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = defaultTOTPIssuer
	}
	if cfg.SetupTTL <= 0 {
		cfg.SetupTTL = defaultTOTPSetupTTL
	}
	s.totpSecrets = secrets
	s.totpPending = pending
	s.totpCfg = cfg
}

// StartTOTPSetup issues a fresh secret labelled with the account's username.
func (s *Service) StartTOTPSetup(ctx context.Context, userID int64) (TOTPSetup, error) {
	if s.totpSecrets == nil || s.totpPending == nil {
		return TOTPSetup{}, ErrTOTPUnavailable
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return TOTPSetup{}, err
	}

	secret, otpURL, err := generateTOTPSecret(s.totpCfg.Issuer, user.Username)
	if err != nil {
		return TOTPSetup{}, fmt.Errorf("generate totp secret: %w", err)
	}
	qr, err := makeQRCodeDataURL(otpURL, qrCodeSize)
	if err != nil {
		return TOTPSetup{}, fmt.Errorf("generate qr code: %w", err)
	}
	if err := s.totpPending.SavePending(ctx, userID, secret, s.totpCfg.SetupTTL); err != nil {
		return TOTPSetup{}, fmt.Errorf("save pending totp secret: %w", err)
	}

	return TOTPSetup{
		Secret:     secret,
		OTPAuthURL: otpURL,
		QRCode:     qr,
		ExpiresAt:  s.now().Add(s.totpCfg.SetupTTL),
	}, nil
}

func (s *Service) ConfirmTOTPSetup(ctx context.Context, userID int64, code string) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if s.totpSecrets == nil || s.totpPending == nil {
		return ErrTOTPUnavailable
	}

	secret, err := s.totpPending.GetPending(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrTOTPSetupNotFound) {
			return fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("code", "no setup in progress"))
		}
		return fmt.Errorf("get pending totp secret: %w", err)
	}
	if !validateTOTP(secret, code, s.now()) {
		return fmt.Errorf("%w: %w", ErrValidation, validate.NewFieldError("code", "is invalid"))
	}

	if err := s.totpSecrets.SetTOTPSecret(ctx, userID, secret); err != nil {
		return fmt.Errorf("store totp secret: %w", err)
	}
	_ = s.totpPending.DeletePending(ctx, userID)
	return nil
}

func generateTOTPSecret(issuer, accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
		Digits:      otp.DigitsSix,
		Period:      30,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func validateTOTP(secret, code string, now time.Time) bool {
	cleanCode := strings.TrimSpace(code)
	if len(cleanCode) != 6 {
		return false
	}
	valid, err := totp.ValidateCustom(cleanCode, secret, now, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}

func makeQRCodeDataURL(content string, size int) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
