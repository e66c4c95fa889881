package service

import (
	"context"
	"time"

	"tugas-api/internal/apperrors"
	"tugas-api/internal/models"
	"tugas-api/pkg/crypto"
)

// RegisterParams adalah payload registrasi yang sudah tervalidasi di boundary.
type RegisterParams struct {
	Fullname string
	Email    string
	Phone    string
	Password string
}

// EditUserParams adalah partial update profil user.
type EditUserParams struct {
	Fullname string
	Phone    string
}

// userEdit adalah bentuk internal update user dengan field audit.
type userEdit struct {
	Fullname  string    `bson:"fullname,omitempty"`
	Phone     string    `bson:"phone,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
	UpdatedBy string    `bson:"updated_by,omitempty"`
}

type updateCreatedBy struct {
	CreatedBy string `bson:"created_by"`
}

type grantAdmin struct {
	Type      string    `bson:"type"`
	UpdatedAt time.Time `bson:"updated_at"`
	UpdatedBy string    `bson:"updated_by,omitempty"`
}

// UserService membungkus service generik dengan aturan khusus user:
// registrasi dengan email unik, login, promosi admin, dan bootstrap admin.
type UserService struct {
	*Service[models.User]
	adminEmail    string
	adminPassword string
}

func NewUserService(store Store, ownershipField, adminEmail, adminPassword string) *UserService {
	return &UserService{
		Service:       New[models.User]("users", store, ownershipField),
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
	}
}

func (s *UserService) GetByEmail(ctx context.Context, email string, ignoreError bool) (*models.User, error) {
	return s.GetByField(ctx, email, "email", Options{IgnoreError: ignoreError})
}

// Register membuat user baru dengan role default "user". Setelah insert,
// created_by diisi dengan id user itu sendiri supaya query ownership tetap
// konsisten untuk record miliknya.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	hashed, err := crypto.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Fullname:  params.Fullname,
		Email:     params.Email,
		Phone:     params.Phone,
		Password:  hashed,
		Type:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	saved, err := s.SaveUnique(ctx, user, []string{"email"}, false)
	if err != nil {
		return nil, err
	}
	return s.UpdateByID(ctx, saved.ID, updateCreatedBy{CreatedBy: saved.ID}, UpdateOptions{})
}

// Login memverifikasi kredensial. Email tidak dikenal dan password salah
// menghasilkan error yang sama persis, tidak ada yang bisa dibedakan dari
// luar.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email, true)
	if err != nil {
		return nil, err
	}
	if user == nil || !crypto.VerifyPassword(password, user.Password) {
		return nil, apperrors.Unauthorized()
	}
	return user, nil
}

func (s *UserService) Edit(ctx context.Context, id string, params EditUserParams, commons *Commons) (*models.User, error) {
	update := userEdit{
		Fullname:  params.Fullname,
		Phone:     params.Phone,
		UpdatedAt: time.Now(),
	}
	if commons != nil {
		update.UpdatedBy = commons.UserID
	}
	return s.UpdateByID(ctx, id, update, UpdateOptions{Commons: commons})
}

// GrantAdmin mempromosikan user menjadi admin.
func (s *UserService) GrantAdmin(ctx context.Context, id string, commons *Commons) (*models.User, error) {
	update := grantAdmin{
		Type:      models.RoleAdmin,
		UpdatedAt: time.Now(),
	}
	if commons != nil {
		update.UpdatedBy = commons.UserID
	}
	return s.UpdateByID(ctx, id, update, UpdateOptions{Commons: commons})
}

// EnsureAdmin membuat admin default dari konfigurasi kalau belum ada.
// Dipanggil sekali saat startup.
func (s *UserService) EnsureAdmin(ctx context.Context) (*models.User, error) {
	existing, err := s.GetByEmail(ctx, s.adminEmail, true)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	admin, err := s.Register(ctx, RegisterParams{
		Fullname: "Admin",
		Email:    s.adminEmail,
		Password: s.adminPassword,
	})
	if err != nil {
		return nil, err
	}
	return s.GrantAdmin(ctx, admin.ID, nil)
}
