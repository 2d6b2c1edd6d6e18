package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtStoreClaim carries the store identity issued at login.
type JwtStoreClaim struct {
	StoreId    int    `json:"store_id"`
	StoreLevel string `json:"store_level"`
	StoreName  string `json:"store_name"`
	Permission string `json:"permission"`
	jwt.StandardClaims
}

// IsHeadOffice reports whether the claim may see every store's data.
func (c *JwtStoreClaim) IsHeadOffice() bool {
	return c.Permission == "admin" || c.StoreLevel == "總店"
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return "ipn-clinic-secret"
	}
	return secret
}

func jwtLifespan() time.Duration {
	seconds, err := strconv.Atoi(os.Getenv("JWT_EXPIRATION"))
	if err != nil || seconds <= 0 {
		seconds = 86400
	}
	return time.Duration(seconds) * time.Second
}

func JwtGenerate(storeId int, storeLevel string, storeName string, permission string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtStoreClaim{
		StoreId:    storeId,
		StoreLevel: storeLevel,
		StoreName:  storeName,
		Permission: permission,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(jwtLifespan()).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	token, err := t.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return token, nil
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtStoreClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
}
