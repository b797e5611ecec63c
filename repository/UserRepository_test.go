package repository

import (
	"sync"
	"testing"

	"farmFresh/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepo_FindByEmailAndRole(t *testing.T) {
	repo, err := NewUserRepository(DemoUsers(), bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)

	u, ok := repo.FindByEmailAndRole("customer@example.com", "customer")
	require.True(t, ok)
	assert.Equal(t, "1", u.Id)
	assert.Equal(t, "John Customer", u.Name)

	u, ok = repo.FindByEmailAndRole(" Farmer@Example.com ", "farmer")
	require.True(t, ok)
	assert.Equal(t, "2", u.Id)

	_, ok = repo.FindByEmailAndRole("customer@example.com", "farmer")
	assert.False(t, ok)
}

func TestUserRepo_AddUserNoUniqueness(t *testing.T) {
	repo, err := NewUserRepository(DemoUsers(), bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)

	repo.AddUser(models.User_db{Id: "x", Name: "Dup", Email: "customer@example.com", Role: "customer"})
	u, ok := repo.FindByEmailAndRole("customer@example.com", "customer")
	require.True(t, ok)
	assert.Equal(t, "1", u.Id, "first entry wins")

	repo.AddUser(models.User_db{Id: "y", Name: "New", Email: "new@example.com", Role: "farmer"})
	u, ok = repo.FindByEmailAndRole("new@example.com", "farmer")
	require.True(t, ok)
	assert.Equal(t, "y", u.Id)
}

func TestUserRepo_SeedIsCopied(t *testing.T) {
	seed := DemoUsers()
	repo, err := NewUserRepository(seed, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)
	seed[0].Email = "changed@example.com"

	_, ok := repo.FindByEmailAndRole("customer@example.com", "customer")
	assert.True(t, ok)
}

func TestUserRepo_Passwords(t *testing.T) {
	repo, err := NewUserRepository(nil, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)

	hash, err := repo.EncryptPassword("secret")
	require.NoError(t, err)
	assert.True(t, repo.VerifyPassword(hash, "secret"))
	assert.False(t, repo.VerifyPassword(hash, "wrong"))

	_, err = NewUserRepository(nil, 99, zap.NewNop())
	assert.Error(t, err)
}

func TestUserRepo_ConcurrentAccess(t *testing.T) {
	repo, err := NewUserRepository(DemoUsers(), bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			repo.AddUser(models.User_db{Id: "n", Email: "n@example.com", Role: "customer"})
		}()
		go func() {
			defer wg.Done()
			repo.FindByEmailAndRole("farmer@example.com", "farmer")
		}()
	}
	wg.Wait()
	_, ok := repo.FindByEmailAndRole("n@example.com", "customer")
	assert.True(t, ok)
}
