package dto

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type AuthResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"isAdmin"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresInSec int64  `json:"expiresInSec"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}

type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresInSec int64  `json:"expiresInSec"`
}

type TOTPSetupResponse struct {
	Secret       string `json:"secret"`
	OTPAuthURL   string `json:"otpauthUrl"`
	QRCode       string `json:"qrCode"`
	ExpiresInSec int64  `json:"expiresInSec"`
}

type TOTPConfirmRequest struct {
	Code string `json:"code"`
}

type TOTPConfirmResponse struct {
	Enabled bool `json:"enabled"`
}
