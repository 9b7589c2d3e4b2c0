package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var b64 = base64.RawURLEncoding

// Claims carried by a caller token. The subject is the caller's wallet
// address; the platform bot mints these after verifying a wallet signature
// out of band, standing in for the chain's own caller identity.
type Claims struct {
	Wallet    string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// SignCallerToken creates a compact HS256 token for the wallet.
func SignCallerToken(wallet string, secret []byte, ttl time.Duration) (string, error) {
	if wallet == "" {
		return "", errors.New("wallet is required")
	}
	now := time.Now()
	claims := Claims{Wallet: wallet, IssuedAt: now.Unix(), ExpiresAt: now.Add(ttl).Unix()}

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	unsigned := b64.EncodeToString(header) + "." + b64.EncodeToString(payload)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(unsigned))
	return unsigned + "." + b64.EncodeToString(mac.Sum(nil)), nil
}

// VerifyCallerToken checks the signature and expiry and returns the wallet
// the token was issued for.
func VerifyCallerToken(token string, secret []byte) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", errors.New("invalid token format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := b64.DecodeString(parts[2])
	if err != nil {
		return "", errors.New("invalid signature encoding")
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(unsigned))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", errors.New("signature mismatch")
	}

	payload, err := b64.DecodeString(parts[1])
	if err != nil {
		return "", errors.New("invalid payload encoding")
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", errors.New("invalid claims json")
	}
	if claims.Wallet == "" {
		return "", errors.New("token has no wallet subject")
	}
	if claims.ExpiresAt != 0 && time.Now().Unix() > claims.ExpiresAt {
		return "", errors.New("token expired")
	}
	return claims.Wallet, nil
}
