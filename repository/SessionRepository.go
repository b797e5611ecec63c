package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"farmFresh/entities"
	"farmFresh/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "farmFreshUser:"

type SessionRepository interface {
	CreateSession(ctx context.Context, user entities.User) (sessionId string, err error)
	GetSession(ctx context.Context, sessionId string) (user entities.User, exists bool, err error)
	DeleteSession(ctx context.Context, sessionId string) (err error)
	RefreshSession(ctx context.Context, sessionId string, expirationTime time.Duration) (err error)
}

type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewSessionRepository(ctx context.Context, redis_conn *redis.Client, ttl time.Duration, log *zap.Logger) (SessionRepository, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	return &SessionRepo{
		rdb: redis_conn,
		ttl: ttl,
		log: log,
	}, nil
}

// CreateSession persists the user snapshot under a fresh session id.
func (s *SessionRepo) CreateSession(ctx context.Context, user entities.User) (sessionId string, err error) {
	data, err := json.Marshal(user)
	if err != nil {
		s.log.Error("CreateSession: marshal", zap.Error(err))
		err = models.ErrServerError
		return
	}
	sessionId = uuid.NewString()
	err = s.rdb.Set(ctx, sessionKeyPrefix+sessionId, data, s.ttl).Err()
	if err != nil {
		s.log.Error("CreateSession: redis", zap.Error(err))
		sessionId = ""
		err = models.ErrServerError
	}
	return
}

func (s *SessionRepo) GetSession(ctx context.Context, sessionId string) (user entities.User, exists bool, err error) {
	if sessionId == "" {
		return
	}
	val, e := s.rdb.Get(ctx, sessionKeyPrefix+sessionId).Bytes()
	if e != nil {
		if errors.Is(e, redis.Nil) {
			return
		}
		s.log.Error("GetSession: redis", zap.Error(e))
		err = models.ErrServerError
		return
	}
	// A snapshot that does not decode is treated as no session.
	if e = json.Unmarshal(val, &user); e != nil {
		s.log.Warn("GetSession: corrupt snapshot", zap.String("session", sessionId), zap.Error(e))
		user = entities.User{}
		return
	}
	exists = true
	return
}

func (s *SessionRepo) DeleteSession(ctx context.Context, sessionId string) (err error) {
	err = s.rdb.Del(ctx, sessionKeyPrefix+sessionId).Err()
	if err != nil {
		s.log.Error("DeleteSession: redis", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

func (s *SessionRepo) RefreshSession(ctx context.Context, sessionId string, expirationTime time.Duration) (err error) {
	err = s.rdb.Expire(ctx, sessionKeyPrefix+sessionId, expirationTime).Err()
	if err != nil {
		s.log.Error("RefreshSession: redis", zap.Error(err))
		err = models.ErrServerError
	}
	return
}
