package repository

import (
	"errors"
	"strings"
	"sync"

	"farmFresh/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByEmailAndRole(email, role string) (models.User_db, bool)
	AddUser(uModel models.User_db)
	EncryptPassword(userPass string) (hashedPassword string, err error)
	VerifyPassword(hashedPassword string, sentPassword string) bool
}

// UserRepo is the in-memory user directory. Signup appends to it and it is
// lost on restart.
type UserRepo struct {
	mu         sync.RWMutex
	users      []models.User_db
	bcryptCost int
	log        *zap.Logger
}

// DemoUsers is the directory every process starts with.
func DemoUsers() []models.User_db {
	return []models.User_db{
		{Id: "1", Name: "John Customer", Email: "customer@example.com", Role: "customer"},
		{Id: "2", Name: "Jane Farmer", Email: "farmer@example.com", Role: "farmer"},
	}
}

func NewUserRepository(seed []models.User_db, bcryptCost int, log *zap.Logger) (UserRepository, error) {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	users := make([]models.User_db, len(seed))
	copy(users, seed)
	return &UserRepo{
		users:      users,
		bcryptCost: bcryptCost,
		log:        log,
	}, nil
}

// FindByEmailAndRole matches the email case-insensitively and the role exactly.
func (u *UserRepo) FindByEmailAndRole(email, role string) (uModel models.User_db, exists bool) {
	email = strings.TrimSpace(email)
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, usr := range u.users {
		if strings.EqualFold(usr.Email, email) && usr.Role == role {
			return usr, true
		}
	}
	return
}

// AddUser appends without a uniqueness check; the first match wins on lookup.
func (u *UserRepo) AddUser(uModel models.User_db) {
	u.mu.Lock()
	u.users = append(u.users, uModel)
	u.mu.Unlock()
}

func (u *UserRepo) EncryptPassword(userPass string) (hashedPassword string, err error) {
	var password []byte
	password, err = bcrypt.GenerateFromPassword([]byte(userPass), u.bcryptCost)
	if err != nil {
		u.log.Error("EncryptPassword", zap.Error(err))
		err = models.ErrServerError
		return
	}
	hashedPassword = string(password)
	return
}

func (u *UserRepo) VerifyPassword(hashedPassword string, sentPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(sentPassword))
	if err != nil {
		u.log.Debug("VerifyPassword", zap.Error(err))
	}
	return err == nil
}
