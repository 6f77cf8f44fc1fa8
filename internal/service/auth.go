package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/repository"
	"mentormatch-backend/internal/security"
	"mentormatch-backend/internal/store"
)

type authService struct {
	students    repository.StudentRepository
	supervisors repository.SupervisorRepository
	admins      repository.AdminRepository
	tokens      security.TokenManager
}

func NewAuthService(
	students repository.StudentRepository,
	supervisors repository.SupervisorRepository,
	admins repository.AdminRepository,
	tokens security.TokenManager,
) AuthService {
	return &authService{
		students:    students,
		supervisors: supervisors,
		admins:      admins,
		tokens:      tokens,
	}
}

func (s *authService) SignupStudent(ctx context.Context, in SignupStudentInput) (*domain.Student, *TokenPair, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, nil, domain.Validationf("name is required")
	}

	if _, err := s.students.GetByEmail(ctx, email); err == nil {
		return nil, nil, domain.Conflictf("an account with this email already exists")
	} else if !store.IsNotFound(err) {
		return nil, nil, domain.Internalf(err, "failed to check existing accounts")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, domain.Internalf(err, "failed to hash password")
	}

	student := &domain.Student{
		Email:             email,
		PasswordHash:      string(hash),
		Name:              strings.TrimSpace(in.Name),
		StudentNumber:     in.StudentNumber,
		Program:           in.Program,
		PartnershipStatus: domain.PartnershipStatusNone,
		MatchStatus:       domain.MatchStatusUnmatched,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, nil, domain.Internalf(err, "failed to create student")
	}

	pair, err := s.issueTokens(student.ID, email, domain.RoleStudent)
	if err != nil {
		return nil, nil, err
	}
	return student, pair, nil
}

func (s *authService) SignupSupervisor(ctx context.Context, in SignupSupervisorInput) (*domain.Supervisor, *TokenPair, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, nil, domain.Validationf("name is required")
	}
	if in.MaxCapacity < 0 {
		return nil, nil, domain.Validationf("maxCapacity must not be negative")
	}

	if _, err := s.supervisors.GetByEmail(ctx, email); err == nil {
		return nil, nil, domain.Conflictf("an account with this email already exists")
	} else if !store.IsNotFound(err) {
		return nil, nil, domain.Internalf(err, "failed to check existing accounts")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, domain.Internalf(err, "failed to hash password")
	}

	sup := &domain.Supervisor{
		Email:             email,
		PasswordHash:      string(hash),
		Name:              strings.TrimSpace(in.Name),
		Department:        in.Department,
		ResearchInterests: in.ResearchInterests,
		MaxCapacity:       in.MaxCapacity,
	}
	if err := s.supervisors.Create(ctx, sup); err != nil {
		return nil, nil, domain.Internalf(err, "failed to create supervisor")
	}

	pair, err := s.issueTokens(sup.ID, email, domain.RoleSupervisor)
	if err != nil {
		return nil, nil, err
	}
	return sup, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string, role domain.Role) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.Validationf("invalid role %q", role)
	}

	var (
		userID string
		hash   string
	)
	switch role {
	case domain.RoleStudent:
		st, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return nil, loginError(err)
		}
		userID, hash = st.ID, st.PasswordHash
	case domain.RoleSupervisor:
		sup, err := s.supervisors.GetByEmail(ctx, email)
		if err != nil {
			return nil, loginError(err)
		}
		userID, hash = sup.ID, sup.PasswordHash
	case domain.RoleAdmin:
		admin, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return nil, loginError(err)
		}
		userID, hash = admin.ID, admin.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, domain.Forbiddenf("invalid email or password")
	}
	return s.issueTokens(userID, email, role)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, domain.Forbiddenf("invalid refresh token")
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, domain.Forbiddenf("invalid refresh token")
	}
	return s.issueTokens(claims.Subject, claims.Email, claims.Role)
}

func (s *authService) issueTokens(userID, email string, role domain.Role) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(userID, email, role)
	if err != nil {
		return nil, domain.Internalf(err, "failed to issue access token")
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID, email, role)
	if err != nil {
		return nil, domain.Internalf(err, "failed to issue refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", domain.Validationf("a valid email is required")
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.Validationf("password must be at least 8 characters")
	}
	return nil
}

// loginError hides whether the account exists.
func loginError(err error) error {
	if store.IsNotFound(err) {
		return domain.Forbiddenf("invalid email or password")
	}
	return domain.Internalf(err, "failed to read account")
}
