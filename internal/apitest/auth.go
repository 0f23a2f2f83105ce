package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cooknet-client/internal/types"
)

func (s *Server) handleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findUserByEmail(req.Email)
	if user == nil || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if user.Blocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is blocked"})
		return
	}

	ts := now()
	user.LastLoginAt = &ts
	c.JSON(http.StatusOK, s.mintTokens(user))
}

func (s *Server) handleRegister(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByEmail(req.Email) != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := &userRecord{
		ID:               s.id(),
		Username:         req.Username,
		Email:            req.Email,
		PasswordHash:     hash,
		Roles:            []string{types.RoleUser},
		RegistrationDate: now(),
	}
	s.users[user.ID] = user

	c.JSON(http.StatusCreated, types.RegisterResponse{Email: user.Email, Username: user.Username})
}

func (s *Server) handleRefreshToken(c *gin.Context) {
	var req types.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCalls++

	userID, ok := s.refreshTokens[req.RefreshToken]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	user, ok := s.users[userID]
	if !ok || user.Blocked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	// Rotation: the presented token is spent regardless of what follows.
	delete(s.refreshTokens, req.RefreshToken)
	c.JSON(http.StatusOK, s.mintTokens(user))
}

// mintTokens issues a fresh access/refresh pair. Callers hold mu.
func (s *Server) mintTokens(user *userRecord) types.TokenResponse {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		panic(err) // HS256 signing over a static secret cannot fail
	}

	refresh := uuid.NewString()
	s.refreshTokens[refresh] = user.ID

	return types.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserInfo: types.UserInfo{
			Email:    user.Email,
			Roles:    user.Roles,
			Username: user.Username,
		},
	}
}

// IssueTokens mints a token pair for a fixture user outside the login flow,
// letting tests seed a session store directly. accessTTL overrides the
// server TTL; a negative value yields an already-expired access token.
func (s *Server) IssueTokens(email string, accessTTL time.Duration) types.TokenResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findUserByEmail(email)
	if user == nil {
		panic("apitest: unknown fixture user " + email)
	}

	saved := s.accessTTL
	s.accessTTL = accessTTL
	resp := s.mintTokens(user)
	s.accessTTL = saved
	return resp
}

// requireAuth validates the bearer token and, when roles are given,
// requires at least one of them.
func (s *Server) requireAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		userID, err := s.validateAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		s.mu.Lock()
		user, ok := s.users[userID]
		s.mu.Unlock()
		if !ok || user.Blocked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account unavailable"})
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasAnyRole(user.Roles, roles) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}

func (s *Server) validateAccessToken(token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return int64(sub), nil
}

func (s *Server) findUserByEmail(email string) *userRecord {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func hasAnyRole(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}
