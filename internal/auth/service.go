package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/sokolgood/duga-backend/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL = 30 * 24 * time.Hour
	codeTTL        = 5 * time.Minute
)

var (
	ErrInvalidCode = errors.New("verification code invalid or expired")
	ErrUnavailable = errors.New("verification store unavailable")
)

type Service struct {
	secret []byte
	db     db.Querier
	redis  *redis.Client
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier, redisClient *redis.Client) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
		redis:  redisClient,
	}
}

var generateCodeFn = func() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// RequestCode stores a short-lived verification code for the phone number.
// SMS delivery is an external concern; the code is logged for now.
func (s *Service) RequestCode(ctx context.Context, phone string) error {
	if s.redis == nil {
		return ErrUnavailable
	}

	code := generateCodeFn()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, codeKey(phone), string(hash), codeTTL).Err(); err != nil {
		return err
	}

	log.Printf("verification code for %s: %s", phone, code)
	return nil
}

// VerifyCode checks the code against the stored hash, creates the user row on
// first login and returns a signed access token.
func (s *Service) VerifyCode(ctx context.Context, phone, code string) (User, TokenResponse, error) {
	if s.redis == nil {
		return User{}, TokenResponse{}, ErrUnavailable
	}

	hash, err := s.redis.Get(ctx, codeKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return User{}, TokenResponse{}, ErrInvalidCode
	}
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return User{}, TokenResponse{}, ErrInvalidCode
	}

	user, err := s.userByPhone(ctx, phone)
	if errors.Is(err, pgx.ErrNoRows) {
		user, err = s.createUser(ctx, phone)
	}
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	_ = s.redis.Del(ctx, codeKey(phone)).Err()

	access, err := s.signToken(user.ID, accessTokenTTL)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) userByPhone(ctx context.Context, phone string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, phone_number, preferences, created_at
		FROM users WHERE phone_number = $1
	`, phone)
	var user User
	if err := row.Scan(&user.ID, &user.PhoneNumber, &user.Preferences, &user.CreatedAt); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) createUser(ctx context.Context, phone string) (User, error) {
	user := User{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		Preferences: []string{},
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, phone_number, preferences)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, user.ID, user.PhoneNumber, user.Preferences)
	if err := row.Scan(&user.CreatedAt); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func codeKey(phone string) string {
	return "verify:" + phone
}
