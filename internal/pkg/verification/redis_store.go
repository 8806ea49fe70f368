package verification

import (
	"fmt"
	"time"

	"github.com/go-redis/redis/v7"
)

// RedisStore хранит коды подтверждения в Redis. SET с TTL перекрывает
// предыдущий код договора за одну операцию, истечение обеспечивает
// сам Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает хранилище поверх клиента Redis
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func codeKey(contractNumber string) string {
	return fmt.Sprintf("verification:code:%s", contractNumber)
}

func (s *RedisStore) Set(contractNumber, code string, ttl time.Duration) error {
	return s.client.Set(codeKey(contractNumber), code, ttl).Err()
}

func (s *RedisStore) Get(contractNumber string) (string, error) {
	code, err := s.client.Get(codeKey(contractNumber)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *RedisStore) Delete(contractNumber string) error {
	return s.client.Del(codeKey(contractNumber)).Err()
}
