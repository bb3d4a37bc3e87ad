package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Carune/Ticket-Service-Practice/config"
	"github.com/Carune/Ticket-Service-Practice/internal/models"
	repo "github.com/Carune/Ticket-Service-Practice/internal/repository/mysql"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

// AuthService issues and verifies the access tokens the gate identifies
// users by. The token subject is the member ID.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*models.Member, error)
	Login(ctx context.Context, in LoginInput) (*LoginOutput, error)
	GetMember(ctx context.Context, memberID uint64) (*models.Member, error)
	// VerifyToken validates an HS256 access token and returns its subject.
	VerifyToken(ctx context.Context, token string) (string, error)
}

type authService struct {
	memberRepo repo.MemberRepository
	cfg        config.JWTConfig
	l          logger.Logger
}

func NewAuthService(memberRepo repo.MemberRepository, cfg config.JWTConfig, l logger.Logger) AuthService {
	return &authService{
		memberRepo: memberRepo,
		cfg:        cfg,
		l:          l,
	}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*models.Member, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	m := &models.Member{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		CreatedAt:    time.Now(),
	}

	if err := s.memberRepo.Create(ctx, m); err != nil {
		if err == repo.ErrDuplicateEntry {
			s.l.Warnf(ctx, "service.authService.Signup: %v", ErrEmailTaken)
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.l.Infof(ctx, "Member %d signed up", m.ID)

	return m, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	m, err := s.memberRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expAt := time.Now().Add(s.cfg.Expiry)

	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(m.ID, 10),
		"exp": expAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginOutput{
		AccessToken: tokenStr,
		ExpiresAt:   expAt,
	}, nil
}

func (s *authService) GetMember(ctx context.Context, memberID uint64) (*models.Member, error) {
	m, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrMemberNotFound
		}

		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return m, nil
}

func (s *authService) VerifyToken(ctx context.Context, token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		s.l.Warnf(ctx, "service.authService.VerifyToken: invalid token: %v", err)
		return "", ErrInvalidCredentials
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidCredentials
	}

	return sub, nil
}
