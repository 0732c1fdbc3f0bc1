package mockapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/domain/auth"
)

type sessionClaims struct {
	Phone string `json:"phone"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &payload); err != nil || payload.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	code := s.fixedOTP
	if code == "" {
		code = randomOTP()
	}

	s.mu.Lock()
	s.otps[payload.Phone] = code
	s.mu.Unlock()

	// No delivery channel in the mock; the operator reads the code here.
	s.log.WithFields(logrus.Fields{"phone": payload.Phone, "otp": code}).Info("otp issued")
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := decodeJSON(r, &payload); err != nil || payload.Phone == "" || payload.OTP == "" {
		writeError(w, http.StatusBadRequest, "phone and otp are required")
		return
	}

	s.mu.Lock()
	expected, ok := s.otps[payload.Phone]
	if !ok || expected != payload.OTP {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "invalid OTP")
		return
	}
	delete(s.otps, payload.Phone)

	user, ok := s.users[payload.Phone]
	if !ok {
		// First login auto-provisions an admin user.
		user = auth.User{ID: uuid.New().String(), Phone: payload.Phone, Role: "admin"}
		s.users[payload.Phone] = user
	}
	s.mu.Unlock()

	token, err := s.issueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(24 * time.Hour / time.Second),
	})
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) issueToken(user auth.User) (string, error) {
	claims := sessionClaims{
		Phone: user.Phone,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// requireSession rejects requests without a valid session cookie or bearer
// token with the JSON 401 shape the console's adapter expects.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			token = cookie.Value
		} else if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil || !parsed.Valid {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func randomOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing is unrecoverable enough to not pretend.
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
