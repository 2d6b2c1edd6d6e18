package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ipnlife/clinic_backend/config"
)

// Password-reset tokens live in Redis with a TTL, so they survive restarts
// and are shared across instances.

const resetTokenTTL = time.Hour

type resetTokenPayload struct {
	Account  string    `json:"account"`
	IssuedAt time.Time `json:"issued_at"`
}

func resetTokenKey(token string) string {
	return "pwreset:" + token
}

// CreateResetToken issues a reset token for the given store account,
// valid for one hour.
func CreateResetToken(account string) (string, error) {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	payload := resetTokenPayload{Account: account, IssuedAt: time.Now()}
	if err := config.SetRedisObject(resetTokenKey(token), payload, resetTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

// ResetTokenAccount returns the account a token was issued for.
// Expired or unknown tokens report found=false.
func ResetTokenAccount(token string) (string, bool, error) {
	var payload resetTokenPayload
	found, err := config.GetRedisObject(resetTokenKey(token), &payload)
	if err != nil || !found {
		return "", false, err
	}
	return payload.Account, true, nil
}

func DeleteResetToken(token string) error {
	return config.RemoveRedisKey(resetTokenKey(token))
}
