package educator

import (
	"encoding/json"
	"os"
	"time"
)

// RecentAlertsLimit is how many records the dashboard receives.
const RecentAlertsLimit = 50

type AlertResponse struct {
	ID          int64           `json:"id"`
	StudentID   string          `json:"student_id"`
	Type        string          `json:"type"`
	AlertLevel  string          `json:"alert_level"`
	Message     string          `json:"message"`
	Details     json.RawMessage `json:"details"`
	Timestamp   time.Time       `json:"timestamp"`
	EvidenceURL string          `json:"evidence_url,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Account is the single educator allowed to sign in.
type Account struct {
	Username     string
	PasswordHash string
}

func (a Account) Enabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

func AccountFromEnv() Account {
	return Account{
		Username:     os.Getenv("EDUCATOR_USERNAME"),
		PasswordHash: os.Getenv("EDUCATOR_PASSWORD_HASH"),
	}
}
