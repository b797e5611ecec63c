package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmFresh/entities"
	"farmFresh/models"
	"farmFresh/notify"
	"farmFresh/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid credentials. Try customer@example.com or farmer@example.com"

type UserService struct {
	ur              repository.UserRepository
	sr              repository.SessionRepository
	n               notify.Notifier
	log             *zap.Logger
	sessionTTL      time.Duration
	verifyPasswords bool
}

type UserServiceParams struct {
	SessionTTL      time.Duration
	VerifyPasswords bool
}

func NewUserService(uRepo repository.UserRepository, sRepo repository.SessionRepository, n notify.Notifier, log *zap.Logger, params UserServiceParams) UserService {
	return UserService{
		ur:              uRepo,
		sr:              sRepo,
		n:               n,
		log:             log,
		sessionTTL:      params.SessionTTL,
		verifyPasswords: params.VerifyPasswords,
	}
}

func parseRole(raw string) (entities.Role, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entities.RoleCustomer, nil
	}
	role := entities.Role(raw)
	if !role.Valid() {
		return "", models.Invalid("role", "Role must be customer or farmer")
	}
	return role, nil
}

// startSession replaces the browser's previous session, if any, with a new
// one for user.
func (us *UserService) startSession(ctx context.Context, previousSessionId string, user entities.User) (sessionId string, err error) {
	if previousSessionId != "" {
		if err = us.sr.DeleteSession(ctx, previousSessionId); err != nil {
			return
		}
	}
	return us.sr.CreateSession(ctx, user)
}

// Login looks the user up by email and role. On a match the user becomes
// the current session, replacing previousSessionId, and is sent to the
// role's home route.
func (us *UserService) Login(ctx context.Context, creds models.Credentials, previousSessionId string) (resp entities.AuthResponse, sessionId string, err error) {
	role, err := parseRole(creds.Role)
	if err != nil {
		return
	}
	uModel, ex := us.ur.FindByEmailAndRole(creds.Email, string(role))
	if ex && us.verifyPasswords && uModel.PasswordHash != "" {
		ex = us.ur.VerifyPassword(uModel.PasswordHash, creds.Password)
	}
	if !ex {
		us.log.Info("Login: no matching user", zap.String("email", creds.Email), zap.String("role", string(role)))
		us.n.Notify(ctx, notify.Error(invalidCredentials))
		err = models.ErrUnautorized
		return
	}

	user := toUser(uModel)
	sessionId, err = us.startSession(ctx, previousSessionId, user)
	if err != nil {
		return
	}
	us.n.Notify(ctx, notify.Success("Logged in successfully as "+string(user.Role)))
	resp = entities.AuthResponse{User: user, Redirect: user.Role.Home()}
	return
}

// Signup registers a new user in the directory and starts its session in
// place of previousSessionId. Emails are not checked for uniqueness.
func (us *UserService) Signup(ctx context.Context, req models.SignupRequest, previousSessionId string) (resp entities.AuthResponse, sessionId string, err error) {
	if req, err = validateSignup(req); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			us.n.Notify(ctx, notify.Error(verr.Message))
		}
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return
	}

	uModel := models.User_db{
		Id:    uuid.NewString(),
		Name:  req.Name,
		Email: req.Email,
		Role:  string(role),
	}
	if us.verifyPasswords {
		uModel.PasswordHash, err = us.ur.EncryptPassword(req.Password)
		if err != nil {
			return
		}
	}
	us.ur.AddUser(uModel)

	user := toUser(uModel)
	sessionId, err = us.startSession(ctx, previousSessionId, user)
	if err != nil {
		return
	}
	us.n.Notify(ctx, notify.Success("Account created successfully as "+string(role)))
	resp = entities.AuthResponse{User: user, Redirect: role.Home()}
	return
}

// Logout ends the session and returns the login route.
func (us *UserService) Logout(ctx context.Context, sessionId string) (redirect string, err error) {
	if sessionId != "" {
		if err = us.sr.DeleteSession(ctx, sessionId); err != nil {
			return
		}
	}
	redirect = "/login"
	return
}

// CurrentUser rehydrates the user stored for the session, if any.
func (us *UserService) CurrentUser(ctx context.Context, sessionId string) (user entities.User, exists bool, err error) {
	return us.sr.GetSession(ctx, sessionId)
}

func (us *UserService) Refresh(ctx context.Context, sessionId string) (err error) {
	return us.sr.RefreshSession(ctx, sessionId, us.sessionTTL)
}

func toUser(uModel models.User_db) entities.User {
	return entities.User{
		Id:    uModel.Id,
		Name:  uModel.Name,
		Email: uModel.Email,
		Role:  entities.Role(uModel.Role),
	}
}
