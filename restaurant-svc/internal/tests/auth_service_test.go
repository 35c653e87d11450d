package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tablebite/pkg/auth"
	"tablebite/restaurant-svc/internal/domain"
	"tablebite/restaurant-svc/internal/mocks"
	"tablebite/restaurant-svc/internal/service"
)

const testSecret = "test-secret"

func newAuthService() (*service.AuthService, *mocks.UserRepository, *mocks.RestaurantRepository, *mocks.QRGenerator, *auth.TokenManager) {
	users := new(mocks.UserRepository)
	restaurants := new(mocks.RestaurantRepository)
	qr := new(mocks.QRGenerator)
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	svc := service.NewAuthService(users, restaurants, tokens, qr).WithHashCost(bcrypt.MinCost)
	return svc, users, restaurants, qr, tokens
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    domain.RegisterInput
		field string
	}{
		{name: "missing name", in: domain.RegisterInput{Email: "a@b.co", Password: "secret1"}, field: "name"},
		{name: "bad email", in: domain.RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, field: "email"},
		{name: "short password", in: domain.RegisterInput{Name: "A", Email: "a@b.co", Password: "123"}, field: "password"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, users, _, _, _ := newAuthService()

			_, err := svc.Register(context.Background(), nil, auth.RoleUser, testCase.in)

			var ve domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, testCase.field, ve.Field)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_Permissions(t *testing.T) {
	admin := &auth.Principal{UserID: 7, Role: auth.RoleAdmin, OwnerID: 7}
	staff := &auth.Principal{UserID: 9, Role: auth.RoleStaff, OwnerID: 7}
	in := domain.RegisterInput{Name: "New", Email: "new@example.com", Password: "secret1"}

	tests := []struct {
		name    string
		creator *auth.Principal
		role    auth.Role
	}{
		{name: "anonymous admin", creator: nil, role: auth.RoleAdmin},
		{name: "admin creating admin", creator: admin, role: auth.RoleAdmin},
		{name: "anonymous staff", creator: nil, role: auth.RoleStaff},
		{name: "staff creating staff", creator: staff, role: auth.RoleStaff},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, _, _, _, _ := newAuthService()

			_, err := svc.Register(context.Background(), testCase.creator, testCase.role, in)

			assert.ErrorIs(t, err, domain.ErrForbidden)
		})
	}
}

func TestAuthService_Register_SecondSuperadmin(t *testing.T) {
	svc, users, _, _, _ := newAuthService()
	users.On("ListUsersByRole", mock.Anything, auth.RoleSuperadmin, int64(0)).
		Return([]domain.User{{ID: 1, Role: auth.RoleSuperadmin}}, nil).Once()

	_, err := svc.Register(context.Background(), nil, auth.RoleSuperadmin,
		domain.RegisterInput{Name: "Root", Email: "root@example.com", Password: "secret1"})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	users.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, users, _, _, _ := newAuthService()
	users.On("GetUserByEmail", mock.Anything, "taken@example.com").
		Return(&domain.User{ID: 3}, nil).Once()

	_, err := svc.Register(context.Background(), nil, auth.RoleUser,
		domain.RegisterInput{Name: "A", Email: " Taken@Example.com ", Password: "secret1"})

	assert.ErrorIs(t, err, domain.ErrConflict)
	users.AssertExpectations(t)
}

func TestAuthService_Register_Admin(t *testing.T) {
	svc, users, _, qr, tokens := newAuthService()
	super := &auth.Principal{UserID: 1, Role: auth.RoleSuperadmin}

	users.On("GetUserByEmail", mock.Anything, "owner@spice.com").Return(nil, domain.ErrNotFound).Once()
	qr.On("Generate", "spice.example.com").Return([]byte("png"), nil).Once()
	users.On("CreateAdminWithRestaurant", mock.Anything,
		mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == auth.RoleAdmin && u.CreatedBy == 1 && u.Domain == "spice.example.com"
		}),
		mock.MatchedBy(func(r *domain.Restaurant) bool {
			return r.RestaurantName == "Spice Route" && string(r.QRCode) == "png" && r.IsOpen && r.OrderModes.EatHere
		}),
	).Run(func(args mock.Arguments) {
		u := args.Get(1).(*domain.User)
		r := args.Get(2).(*domain.Restaurant)
		u.ID = 7
		r.ID = 3
		r.OwnerID = 7
	}).Return(nil).Once()

	res, err := svc.Register(context.Background(), super, auth.RoleAdmin, domain.RegisterInput{
		Name:           "Owner",
		Email:          "owner@spice.com",
		Password:       "secret1",
		Domain:         "WWW.Spice.Example.com:443",
		RestaurantName: "Spice Route",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), res.RestaurantID)
	p, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{UserID: 7, Role: auth.RoleAdmin, RestaurantID: 3, OwnerID: 7}, p)
	users.AssertExpectations(t)
	qr.AssertExpectations(t)
}

func TestAuthService_Register_Staff(t *testing.T) {
	svc, users, _, _, tokens := newAuthService()
	admin := &auth.Principal{UserID: 7, Role: auth.RoleAdmin, RestaurantID: 3, OwnerID: 7}

	users.On("GetUserByEmail", mock.Anything, "cook@spice.com").Return(nil, domain.ErrNotFound).Once()
	users.On("GetUser", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, RestaurantID: 3, RestaurantName: "Spice Route", Domain: "spice.example.com"}, nil).Once()
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Role == auth.RoleStaff && u.RestaurantID == 3 && u.CreatedBy == 7
	})).Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 11 }).Return(nil).Once()

	res, err := svc.Register(context.Background(), admin, auth.RoleStaff,
		domain.RegisterInput{Name: "Cook", Email: "cook@spice.com", Password: "secret1"})

	require.NoError(t, err)
	p, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.OwnerID)
	assert.Equal(t, auth.RoleStaff, p.Role)
	users.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash := hashed(t, "secret1")

	tests := []struct {
		name      string
		password  string
		user      *domain.User
		findErr   error
		setup     func(r *mocks.RestaurantRepository)
		wantErr   error
		wantOwner int64
	}{
		{
			name:      "admin owns itself",
			password:  "secret1",
			user:      &domain.User{ID: 7, Role: auth.RoleAdmin, PasswordHash: hash, RestaurantID: 3},
			wantOwner: 7,
		},
		{
			name:     "staff resolves owner through restaurant",
			password: "secret1",
			user:     &domain.User{ID: 11, Role: auth.RoleStaff, PasswordHash: hash, RestaurantID: 3},
			setup: func(r *mocks.RestaurantRepository) {
				r.On("GetRestaurant", mock.Anything, int64(3)).Return(openRestaurant(), nil).Once()
			},
			wantOwner: 7,
		},
		{
			name:     "wrong password",
			password: "nope",
			user:     &domain.User{ID: 7, Role: auth.RoleAdmin, PasswordHash: hash},
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "deleted user",
			password: "secret1",
			user:     &domain.User{ID: 7, Role: auth.RoleAdmin, PasswordHash: hash, Deleted: true},
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: "secret1",
			findErr:  domain.ErrNotFound,
			wantErr:  domain.ErrInvalidCredentials,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, users, restaurants, _, tokens := newAuthService()
			users.On("GetUserByEmail", mock.Anything, "user@example.com").Return(testCase.user, testCase.findErr).Once()
			if testCase.setup != nil {
				testCase.setup(restaurants)
			}

			res, err := svc.Login(context.Background(), "User@Example.com", testCase.password)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			p, err := tokens.Parse(res.Token)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantOwner, p.OwnerID)
			users.AssertExpectations(t)
			restaurants.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateUser_HashesPassword(t *testing.T) {
	svc, users, _, _, _ := newAuthService()
	users.On("UpdateUser", mock.Anything, int64(7), mock.MatchedBy(func(u domain.UserUpdate) bool {
		return u.Password == nil && u.PasswordHash != nil &&
			bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("newpass1")) == nil &&
			*u.Email == "owner@spice.com"
	})).Return(&domain.User{ID: 7}, nil).Once()

	_, err := svc.UpdateUser(context.Background(), 7, domain.UserUpdate{
		Email:    ptr(" Owner@Spice.com"),
		Password: ptr("newpass1"),
	})

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestAuthService_VerifyPrincipal(t *testing.T) {
	svc, users, _, _, _ := newAuthService()
	users.On("GetUser", mock.Anything, int64(7)).Return(&domain.User{ID: 7}, nil).Once()
	users.On("GetUser", mock.Anything, int64(8)).Return(&domain.User{ID: 8, Deleted: true}, nil).Once()

	assert.NoError(t, svc.VerifyPrincipal(context.Background(), auth.Principal{UserID: 7}))
	assert.ErrorIs(t, svc.VerifyPrincipal(context.Background(), auth.Principal{UserID: 8}), domain.ErrNotFound)
}
