package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pankajol/aits-erp-core/internal/application/dto"
	"github.com/Pankajol/aits-erp-core/internal/domain"
	"github.com/Pankajol/aits-erp-core/internal/domain/entity"
	"github.com/Pankajol/aits-erp-core/pkg/jwt"
)

// memUserRepo fake en memoria del puerto de usuarios.
type memUserRepo struct {
	users map[string]*entity.User // por ID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) FindByID(id string) (*entity.User, error)       { return r.GetByID(id) }
func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) { return r.GetByEmail(email) }

// memCompanyRepo fake en memoria del puerto de empresas.
type memCompanyRepo struct {
	companies map[string]*entity.Company
}

func newMemCompanyRepo(ids ...string) *memCompanyRepo {
	r := &memCompanyRepo{companies: make(map[string]*entity.Company)}
	for _, id := range ids {
		r.companies[id] = &entity.Company{ID: id, Name: "Empresa " + id, Status: "active"}
	}
	return r
}

func (r *memCompanyRepo) Create(c *entity.Company) error { r.companies[c.ID] = c; return nil }
func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	return r.companies[id], nil
}
func (r *memCompanyRepo) GetByTaxID(string) (*entity.Company, error)      { return nil, nil }
func (r *memCompanyRepo) Update(c *entity.Company) error                  { r.companies[c.ID] = c; return nil }
func (r *memCompanyRepo) List(int, int) ([]*entity.Company, error)        { return nil, nil }
func (r *memCompanyRepo) Delete(id string) error                          { delete(r.companies, id); return nil }
func (r *memCompanyRepo) SetModule(string, string, bool) error            { return nil }
func (r *memCompanyRepo) ListModules(string) ([]*entity.CompanyModule, error) { return nil, nil }
func (r *memCompanyRepo) HasActiveModule(context.Context, string, string) (bool, error) {
	return true, nil
}

const testSecret = "secreto-de-prueba"

func newAuthUC(users *memUserRepo, companies *memCompanyRepo) *AuthUseCase {
	return NewAuthUseCase(users, companies, JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "erp-core-test",
	})
}

func TestRegisterUser_RolPorDefectoYValidacion(t *testing.T) {
	users := newMemUserRepo()
	uc := newAuthUC(users, newMemCompanyRepo("comp-1"))

	// Sin rol explícito queda vendedor
	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:     "ana@acme.co",
		Password:  "supersecreta",
		CompanyID: "comp-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, out.Role)
	assert.Equal(t, "comp-1", out.CompanyID)

	// Un rol fuera del catálogo se rechaza antes de tocar la persistencia
	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email:     "eve@acme.co",
		Password:  "supersecreta",
		CompanyID: "comp-1",
		Role:      "contador",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	u, _ := users.GetByEmailAndCompany("eve@acme.co", "comp-1")
	assert.Nil(t, u, "el usuario con rol inválido no se persiste")
}

func TestRegisterUser_EmailUnicoPorEmpresa(t *testing.T) {
	uc := newAuthUC(newMemUserRepo(), newMemCompanyRepo("comp-1", "comp-2"))

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@acme.co", Password: "supersecreta", CompanyID: "comp-1",
	})
	require.NoError(t, err)

	// Mismo email en la misma empresa: conflicto
	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@acme.co", Password: "supersecreta", CompanyID: "comp-1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// Mismo email en otra empresa: válido, el email es único por tenant
	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@acme.co", Password: "supersecreta", CompanyID: "comp-2",
	})
	assert.NoError(t, err)
}

func TestLogin_TokenCargaEmpresaYRol(t *testing.T) {
	users := newMemUserRepo()
	uc := newAuthUC(users, newMemCompanyRepo("comp-1"))

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:     "bodega@acme.co",
		Password:  "supersecreta",
		CompanyID: "comp-1",
		Role:      entity.RoleBodeguero,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "bodega@acme.co", Password: "supersecreta"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, companyID, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, "comp-1", companyID)
	assert.Equal(t, entity.RoleBodeguero, role)
}

func TestLogin_Rechazos(t *testing.T) {
	users := newMemUserRepo()
	uc := newAuthUC(users, newMemCompanyRepo("comp-1"))

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecreta"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	users.users["u-1"] = &entity.User{
		ID: "u-1", CompanyID: "comp-1", Email: "ana@acme.co",
		PasswordHash: string(hash), Role: entity.RoleVendedor,
		Status: "active", CreatedAt: now, UpdatedAt: now,
	}
	users.users["u-2"] = &entity.User{
		ID: "u-2", CompanyID: "comp-1", Email: "baja@acme.co",
		PasswordHash: string(hash), Role: entity.RoleVendedor,
		Status: "suspended", CreatedAt: now, UpdatedAt: now,
	}

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@acme.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "baja@acme.co", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
