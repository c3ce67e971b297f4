package jwtmw

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer は本サービスが発行するアクセストークンのiss値です。
// 検証側はこの値以外のトークンを拒否します。
const Issuer = "stock-insight"

// Claims はアクセストークンのペイロードです。
// Subjectには数値のユーザーIDを10進文字列で格納します。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Generator はHS256署名のアクセストークンを発行します。
type Generator struct {
	secret     []byte
	expiration time.Duration

	// now はテストで時刻を固定するために差し替え可能にしています。
	now func() time.Time
}

// NewGenerator は署名シークレットと有効期限からGeneratorを生成します。
func NewGenerator(secret string, expiration time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken は指定ユーザーの署名済みアクセストークンを生成します。
func (g *Generator) GenerateToken(userID uint, email string) (string, error) {
	now := g.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
