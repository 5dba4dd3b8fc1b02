package service

import (
	"context"
	"testing"

	"cinerec/internal/models"
)

// memUserStore es un UserStore en memoria para los tests.
type memUserStore struct {
	users map[string]*models.UserDoc
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*models.UserDoc{}}
}

func (m *memUserStore) FindByUsername(ctx context.Context, username string) (*models.UserDoc, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *memUserStore) GetNextUserID(ctx context.Context) (int, error) {
	return len(m.users) + 1, nil
}

func (m *memUserStore) Insert(ctx context.Context, u *models.UserDoc) error {
	m.users[u.Username] = u
	return nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), "test-secret")
	ctx := context.Background()

	u, err := svc.Register(ctx, "dera", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.UserID != 1 || u.Username != "dera" {
		t.Errorf("usuario registrado: %+v", u)
	}
	if u.PasswordHash == "hunter2" {
		t.Error("la contraseña quedó en texto plano")
	}

	token, logged, err := svc.Login(ctx, "dera", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("Login no devolvió token")
	}
	if logged.UserID != u.UserID {
		t.Errorf("Login devolvió userId %d, esperaba %d", logged.UserID, u.UserID)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), "test-secret")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "pass"); err == nil {
		t.Error("username vacío debería fallar")
	}
	if _, err := svc.Register(ctx, "dera", ""); err == nil {
		t.Error("password vacío debería fallar")
	}

	if _, err := svc.Register(ctx, "dera", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "  dera  ", "otra"); err == nil {
		t.Error("username duplicado (con espacios) debería fallar")
	}
}

func TestAuthService_LoginBadCredentials(t *testing.T) {
	svc := NewAuthService(newMemUserStore(), "test-secret")
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dera", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "dera", "incorrecta"); err == nil {
		t.Error("password incorrecta debería fallar")
	}
	if _, _, err := svc.Login(ctx, "nadie", "hunter2"); err == nil {
		t.Error("usuario inexistente debería fallar")
	}
}
