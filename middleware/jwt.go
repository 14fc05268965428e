package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"trialbalance/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextClientKey JWTAuth 写入 gin.Context 的调用方标识
const ContextClientKey = "client"

const jwtIssuer = "trialbalance"

var (
	jwtMu     sync.RWMutex
	jwtSecret []byte
)

// Claims 访问令牌声明，Client 为调用方名称（上传工具、报表系统等）
type Claims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}

// InitJWT 从配置加载签名密钥
func InitJWT(cfg *config.Config) {
	jwtMu.Lock()
	defer jwtMu.Unlock()
	jwtSecret = []byte(cfg.JWT.Secret)
}

func secret() ([]byte, error) {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	if len(jwtSecret) == 0 {
		return nil, errors.New("JWT 密钥未配置")
	}
	return jwtSecret, nil
}

// GenerateToken 为 client 签发有效期为 ttl 的令牌
func GenerateToken(client string, ttl time.Duration) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	client = strings.TrimSpace(client)
	if client == "" {
		return "", errors.New("client 不能为空")
	}

	now := time.Now()
	claims := Claims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   client,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 校验签名和有效期
func ParseToken(tokenString string) (*Claims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(jwtIssuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("令牌无效")
	}
	return claims, nil
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": message})
	c.Abort()
}

// JWTAuth 校验 Authorization: Bearer <token>
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "缺少认证信息")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			unauthorized(c, "认证格式错误")
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			unauthorized(c, "令牌无效或已过期")
			return
		}

		c.Set(ContextClientKey, claims.Client)
		c.Next()
	}
}

// GetCurrentClient 返回当前请求的调用方，未认证时为空串
func GetCurrentClient(c *gin.Context) string {
	return c.GetString(ContextClientKey)
}
