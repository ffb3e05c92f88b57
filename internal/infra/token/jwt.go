package token

import (
	"errors"
	"strconv"
	"time"

	"marketplace/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// トークンから取り出す情報
type Claims struct {
	PrincipalID int64
	Role        model.Role
}

// HS256でアクセストークンを発行・検証する
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// DI
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *JWTManager) Issue(principalID int64, role model.Role) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(principalID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (m *JWTManager) Verify(raw string) (Claims, error) {
	parser := jwt.Parser{}
	claims := jwt.MapClaims{}

	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || tok == nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}

	//expは必須（無期限トークンは受け付けない）
	if !claims.VerifyExpiresAt(m.now().Unix(), true) {
		return Claims{}, ErrInvalidToken
	}

	id, err := parseSubject(claims["sub"])
	if err != nil || id <= 0 {
		return Claims{}, ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if !role.Valid() {
		return Claims{}, ErrInvalidToken
	}

	return Claims{PrincipalID: id, Role: role}, nil
}

func parseSubject(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
