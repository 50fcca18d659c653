package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

type Conf struct {
	AccessSecret  string
	AccessExpire  time.Duration `json:",default=2h"`
	RefreshSecret string
	RefreshExpire time.Duration `json:",default=168h"`
}

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func BuildPair(c Conf, userID, email, role string) (*Pair, error) {
	access, err := sign(c.AccessSecret, c.AccessExpire, userID, email, role)
	if err != nil {
		return nil, err
	}
	refresh, err := sign(c.RefreshSecret, c.RefreshExpire, userID, email, role)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(c.AccessExpire.Seconds()),
	}, nil
}

func ParseAccess(c Conf, tokenStr string) (*Claims, error) {
	return parse(tokenStr, c.AccessSecret)
}

func ParseRefresh(c Conf, tokenStr string) (*Claims, error) {
	return parse(tokenStr, c.RefreshSecret)
}

func sign(secret string, ttl time.Duration, userID, email, role string) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parse(tokenStr, secret string) (*Claims, error) {
	if tokenStr == "" || secret == "" {
		return nil, ErrInvalid
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.UserID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
