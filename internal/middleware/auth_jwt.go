package middleware

import (
	"net/http"
	"strings"

	"marketplace/internal/domain/model"
	"marketplace/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxPrincipalIDKey = "principal_id" // int64（顧客IDまたは店舗ID）
	CtxRoleKey        = "role"         // model.Role
)

// トークン検証の約束
type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

// bearerAuth用のJWT検証ミドルウェア。
// roleが一致しないトークンも401。
func AuthJWT(verifier TokenVerifier, role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, err := verifier.Verify(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if claims.Role != role {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxPrincipalIDKey, claims.PrincipalID)
			c.Set(CtxRoleKey, claims.Role)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
