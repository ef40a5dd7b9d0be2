package utils

import (
	"errors"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ExportClaim authorizes a single report download. Export links are opened
// directly by the browser, so they carry a short-lived signed token in the
// query string instead of the session header.
type ExportClaim struct {
	StaffId string `json:"staff_id"`
	Report  string `json:"report"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "campusfees-secret"
	}
	return secret
}

func ExportTokenGenerate(staffId string, report string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &ExportClaim{
		StaffId: staffId,
		Report:  report,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(15 * time.Minute).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	return t.SignedString(jwtSecret)
}

func ExportTokenValidate(tokenString string) (*ExportClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ExportClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claim, ok := token.Claims.(*ExportClaim)
	if !ok || !token.Valid {
		return nil, errors.New("invalid export token")
	}
	return claim, nil
}
