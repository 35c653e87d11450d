package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tablebite/pkg/auth"
	"tablebite/restaurant-svc/internal/domain"
)

const minPasswordLength = 6

type AuthService struct {
	users       UserRepository
	restaurants RestaurantRepository
	tokens      *auth.TokenManager
	qr          QRGenerator
	hashCost    int
}

func NewAuthService(users UserRepository, restaurants RestaurantRepository, tokens *auth.TokenManager, qr QRGenerator) *AuthService {
	return &AuthService{
		users:       users,
		restaurants: restaurants,
		tokens:      tokens,
		qr:          qr,
		hashCost:    bcrypt.DefaultCost,
	}
}

// WithHashCost sets the bcrypt cost, tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// Register creates a user of the given role. Admins are created by a superadmin
// together with their restaurant; staff are created by an admin and bound to
// that admin's restaurant. Without a creator only the first superadmin and
// plain users may sign up.
func (s *AuthService) Register(ctx context.Context, creator *auth.Principal, role auth.Role, in domain.RegisterInput) (*domain.AuthResult, error) {
	if _, err := auth.ParseRole(string(role)); err != nil {
		return nil, domain.Invalid("role", "invalid role")
	}

	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return nil, domain.Invalid("name", "name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("email", "a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if err := s.checkCreator(ctx, creator, role); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	switch role {
	case auth.RoleAdmin:
		return s.registerAdmin(ctx, creator, user, in)
	case auth.RoleStaff:
		owner, err := s.users.GetUser(ctx, creator.UserID)
		if err != nil {
			return nil, err
		}
		if owner.RestaurantID == 0 {
			return nil, domain.Invalid("restaurant", "admin has no restaurant to assign staff to")
		}
		user.CreatedBy = owner.ID
		user.RestaurantID = owner.RestaurantID
		user.RestaurantName = owner.RestaurantName
		user.Domain = owner.Domain
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user, user.CreatedBy)
}

func (s *AuthService) checkCreator(ctx context.Context, creator *auth.Principal, role auth.Role) error {
	switch role {
	case auth.RoleAdmin:
		if creator == nil || creator.Role != auth.RoleSuperadmin {
			return fmt.Errorf("%w: only a superadmin can create admins", domain.ErrForbidden)
		}
	case auth.RoleStaff:
		if creator == nil || creator.Role != auth.RoleAdmin {
			return fmt.Errorf("%w: only an admin can create staff", domain.ErrForbidden)
		}
	case auth.RoleSuperadmin:
		if creator != nil && creator.Role == auth.RoleSuperadmin {
			return nil
		}
		existing, err := s.users.ListUsersByRole(ctx, auth.RoleSuperadmin, 0)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: a superadmin already exists", domain.ErrForbidden)
		}
	}
	return nil
}

func (s *AuthService) registerAdmin(ctx context.Context, creator *auth.Principal, user *domain.User, in domain.RegisterInput) (*domain.AuthResult, error) {
	host := NormalizeHost(in.Domain)
	restaurantName := strings.TrimSpace(in.RestaurantName)
	if host == "" {
		return nil, domain.Invalid("domain", "domain is required for admins")
	}
	if restaurantName == "" {
		return nil, domain.Invalid("restaurant_name", "restaurant name is required for admins")
	}

	qr, err := s.qr.Generate(host)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	user.Domain = host
	user.RestaurantName = restaurantName
	user.CreatedBy = creator.UserID

	rest := &domain.Restaurant{
		Name:           user.Name,
		RestaurantName: restaurantName,
		Domain:         host,
		QRCode:         qr,
		OrderModes:     domain.OrderModes{EatHere: true, TakeAway: true},
		IsOpen:         true,
	}
	if err := s.users.CreateAdminWithRestaurant(ctx, user, rest); err != nil {
		return nil, err
	}
	user.RestaurantID = rest.ID

	return s.issue(user, user.ID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	ownerID, err := s.ownerOf(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(user, ownerID)
}

// ownerOf returns the admin that owns the tenant the user works for.
func (s *AuthService) ownerOf(ctx context.Context, user *domain.User) (int64, error) {
	switch user.Role {
	case auth.RoleAdmin:
		return user.ID, nil
	case auth.RoleStaff:
		if user.RestaurantID == 0 {
			return user.CreatedBy, nil
		}
		rest, err := s.restaurants.GetRestaurant(ctx, user.RestaurantID)
		if err != nil {
			return 0, err
		}
		return rest.OwnerID, nil
	}
	return 0, nil
}

func (s *AuthService) issue(user *domain.User, ownerID int64) (*domain.AuthResult, error) {
	token, err := s.tokens.Issue(auth.Principal{
		UserID:       user.ID,
		Role:         user.Role,
		RestaurantID: user.RestaurantID,
		OwnerID:      ownerID,
	})
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{
		Token:          token,
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		RestaurantID:   user.RestaurantID,
		RestaurantName: user.RestaurantName,
		Domain:         user.Domain,
	}, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.Invalid("email", "a valid email is required")
		}
		upd.Email = &email
	}
	if upd.Domain != nil {
		host := NormalizeHost(*upd.Domain)
		upd.Domain = &host
	}
	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLength {
			return nil, domain.Invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		upd.PasswordHash = &h
		upd.Password = nil
	}
	return s.users.UpdateUser(ctx, id, upd)
}

func (s *AuthService) ListByRole(ctx context.Context, role auth.Role, createdBy int64) ([]domain.User, error) {
	return s.users.ListUsersByRole(ctx, role, createdBy)
}

// VerifyPrincipal rejects tokens whose user has since been removed.
func (s *AuthService) VerifyPrincipal(ctx context.Context, p auth.Principal) error {
	user, err := s.users.GetUser(ctx, p.UserID)
	if err != nil {
		return err
	}
	if user.Deleted {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, p.UserID)
	}
	return nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
