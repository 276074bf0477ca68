package educatorService

import (
	"ProctorGuard/internal/api/educator"
	educatorRepository "ProctorGuard/internal/api/educator/repository"
	"ProctorGuard/pkg/bcrypt"
	"ProctorGuard/pkg/redis"
	"ProctorGuard/pkg/s3"
	"context"

	"github.com/sirupsen/logrus"
)

type IEducatorService interface {
	ListAlerts(ctx context.Context) ([]educator.AlertResponse, error)
	Login(ctx context.Context, req educator.LoginRequest) (educator.LoginResponse, error)
	SubscribeAlerts(ctx context.Context) (<-chan []byte, func() error, error)
}

type educatorService struct {
	log          *logrus.Logger
	educatorRepo educatorRepository.Repository
	s3Client     s3.ItfS3
	redisClient  redis.IRedis
	bcrypt       bcrypt.IBcrypt
	account      educator.Account
}

// NewEducatorService accepts nil s3Client and redisClient: evidence links and
// the live feed are then left out.
func NewEducatorService(
	log *logrus.Logger,
	educatorRepo educatorRepository.Repository,
	s3Client s3.ItfS3,
	redisClient redis.IRedis,
	bcrypt bcrypt.IBcrypt,
	account educator.Account,
) IEducatorService {
	return &educatorService{
		log:          log,
		educatorRepo: educatorRepo,
		s3Client:     s3Client,
		redisClient:  redisClient,
		bcrypt:       bcrypt,
		account:      account,
	}
}
