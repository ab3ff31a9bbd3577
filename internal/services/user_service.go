package services

import (
	"context"
	"errors"
	"time"

	"helphub-backend/internal/db"
	"helphub-backend/internal/models"
	"helphub-backend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var exists bool
	if err := db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	user := models.User{ID: uuid.New().String(), Email: req.Email}
	query := `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`
	if err := db.Pool.QueryRow(ctx, query, user.ID, user.Email, string(hash)).Scan(&user.CreatedAt); err != nil {
		return nil, err
	}

	// Every account gets a profile row up front so public lookups never miss.
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO profiles (id, user_id, full_name) VALUES ($1, $2, $3)`,
		uuid.New().String(), user.ID, req.FullName)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var user models.User
	query := `SELECT id, email, password_hash FROM users WHERE email = $1`
	err := db.Pool.QueryRow(ctx, query, req.Email).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Email:        user.Email,
	}, nil
}

// GetProfile returns the full profile for userID, phone included.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	query := `SELECT id, user_id, full_name, avatar_url, bio, city, phone, is_helper, is_seeker, created_at, updated_at
		FROM profiles WHERE user_id = $1`
	err := db.Pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.AvatarURL, &p.Bio, &p.City, &p.Phone,
		&p.IsHelper, &p.IsSeeker, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PublicProfile returns the projection of a profile any user may see:
// display name and avatar only.
func (s *UserService) PublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	var p models.PublicProfile
	query := `SELECT user_id, full_name, avatar_url FROM profiles WHERE user_id = $1`
	if err := db.Pool.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.FullName, &p.AvatarURL); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies non-nil fields to the caller's profile and returns
// the updated row.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, fullName, bio, city, phone *string, isHelper, isSeeker *bool) (*models.Profile, error) {
	query := `UPDATE profiles SET
		full_name = COALESCE($2, full_name),
		bio = COALESCE($3, bio),
		city = COALESCE($4, city),
		phone = COALESCE($5, phone),
		is_helper = COALESCE($6, is_helper),
		is_seeker = COALESCE($7, is_seeker),
		updated_at = NOW()
		WHERE user_id = $1`
	if _, err := db.Pool.Exec(ctx, query, userID, fullName, bio, city, phone, isHelper, isSeeker); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// HasRole is the privileged check: whether userID holds the named role.
func (s *UserService) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var has bool
	query := `SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`
	if err := db.Pool.QueryRow(ctx, query, userID, role).Scan(&has); err != nil {
		return false, err
	}
	return has, nil
}

func GenerateJWT(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.GetEnv("JWT_SECRET", "secret")))
}

func GenerateRefreshToken(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"type":    "refresh",
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.GetEnv("JWT_REFRESH_SECRET", "refresh-secret")))
}

func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	return parseHMAC(tokenString, utils.GetEnv("JWT_SECRET", "secret"))
}

func ValidateRefreshToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := parseHMAC(tokenString, utils.GetEnv("JWT_REFRESH_SECRET", "refresh-secret"))
	if err != nil {
		return nil, err
	}
	if t, _ := claims["type"].(string); t != "refresh" {
		return nil, errors.New("not a refresh token")
	}
	return claims, nil
}

func parseHMAC(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
