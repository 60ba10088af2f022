// Package tokenstore provides the shared token store adapters: redis for
// deployment, memory for tests. Both sides implement the domain ports with
// identical observable behavior.
package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zopsm/internal/config"
	"zopsm/internal/domain"
)

// Key shapes are shared with the other platform services and must not
// change: per-user token sets, one hash per consumer token plus a reverse
// lookup hash, and a per-(project, service) token list for cascades.
const (
	userTokenKeyFmt      = "SUT:%s"
	consumerTokenKeyFmt  = "P:%s:S:%s:RefTok:%s"
	consumerTokenListFmt = "TokenList:P:%s:S:%s"
	tokensKeysKey        = "TokensKeys"
	resetPasswordKey     = "ResetPasswordKeys"
)

const defaultConsumerTokenTTL = time.Minute

func NewClient(cfg config.Config) *redis.Client {
	timeout := time.Duration(cfg.RedisTimeoutSeconds) * time.Second
	return redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInfrastructure, op, err)
}

// RedisUserTokens implements domain.TokenStore over a redis set per
// principal. SADD/SREM/DEL are idempotent, which gives the required
// add-twice/revoke-twice behavior for free.
type RedisUserTokens struct {
	client *redis.Client
}

func NewRedisUserTokens(client *redis.Client) *RedisUserTokens {
	return &RedisUserTokens{client: client}
}

func userTokenKey(principalID string) string {
	return fmt.Sprintf(userTokenKeyFmt, principalID)
}

func (s *RedisUserTokens) Add(ctx context.Context, principalID, token string) error {
	if err := s.client.SAdd(ctx, userTokenKey(principalID), token).Err(); err != nil {
		return storeErr("add user token", err)
	}
	return nil
}

func (s *RedisUserTokens) Exists(ctx context.Context, principalID, token string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, userTokenKey(principalID), token).Result()
	if err != nil {
		return false, storeErr("check user token", err)
	}
	return ok, nil
}

func (s *RedisUserTokens) RemoveOne(ctx context.Context, principalID, token string) error {
	if err := s.client.SRem(ctx, userTokenKey(principalID), token).Err(); err != nil {
		return storeErr("remove user token", err)
	}
	return nil
}

func (s *RedisUserTokens) RemoveAll(ctx context.Context, principalID string) error {
	if err := s.client.Del(ctx, userTokenKey(principalID)).Err(); err != nil {
		return storeErr("remove user tokens", err)
	}
	return nil
}

// RedisConsumerTokens implements domain.ConsumerTokenStore. Each token owns
// a hash holding its scope, expired by TTL; the TokensKeys hash maps raw
// token to hash key for revocation, and the per-scope list backs bulk
// cascades.
type RedisConsumerTokens struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisConsumerTokens(client *redis.Client) *RedisConsumerTokens {
	return &RedisConsumerTokens{client: client, ttl: defaultConsumerTokenTTL}
}

func consumerTokenKey(projectID, serviceCode, token string) string {
	return fmt.Sprintf(consumerTokenKeyFmt, projectID, serviceCode, token)
}

func consumerTokenListKey(projectID, serviceCode string) string {
	return fmt.Sprintf(consumerTokenListFmt, projectID, serviceCode)
}

func (s *RedisConsumerTokens) Add(ctx context.Context, rec domain.ConsumerToken, tokenValue string) error {
	key := consumerTokenKey(rec.ProjectID, rec.ServiceCode, tokenValue)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"account": rec.AccountID,
		"project": rec.ProjectID,
		"service": rec.ServiceCode,
		"user":    rec.ConsumerID,
	})
	pipe.Expire(ctx, key, s.ttl)
	pipe.HSet(ctx, tokensKeysKey, tokenValue, key)
	pipe.SAdd(ctx, consumerTokenListKey(rec.ProjectID, rec.ServiceCode), tokenValue)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("add consumer token", err)
	}
	return nil
}

func (s *RedisConsumerTokens) Remove(ctx context.Context, projectID, serviceCode, tokenValue string) error {
	key := consumerTokenKey(projectID, serviceCode, tokenValue)
	stored, err := s.client.HGet(ctx, tokensKeysKey, tokenValue).Result()
	if err == redis.Nil {
		return domain.ErrNotFound
	}
	if err != nil {
		return storeErr("lookup consumer token", err)
	}
	if stored != key {
		return domain.ErrNotFound
	}
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, tokensKeysKey, tokenValue)
	pipe.Del(ctx, key)
	pipe.SRem(ctx, consumerTokenListKey(projectID, serviceCode), tokenValue)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("remove consumer token", err)
	}
	return nil
}

func (s *RedisConsumerTokens) RemoveAllFor(ctx context.Context, projectID, serviceCode string) error {
	listKey := consumerTokenListKey(projectID, serviceCode)
	tokens, err := s.client.SMembers(ctx, listKey).Result()
	if err != nil {
		return storeErr("list consumer tokens", err)
	}
	if len(tokens) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, tokensKeysKey, tokens...)
	for _, tokenValue := range tokens {
		pipe.Del(ctx, consumerTokenKey(projectID, serviceCode, tokenValue))
	}
	pipe.Del(ctx, listKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("remove consumer tokens", err)
	}
	return nil
}

// RedisResetTokens implements domain.ResetTokenStore over a single set.
type RedisResetTokens struct {
	client *redis.Client
}

func NewRedisResetTokens(client *redis.Client) *RedisResetTokens {
	return &RedisResetTokens{client: client}
}

func (s *RedisResetTokens) Add(ctx context.Context, token string) error {
	if err := s.client.SAdd(ctx, resetPasswordKey, token).Err(); err != nil {
		return storeErr("add reset token", err)
	}
	return nil
}

func (s *RedisResetTokens) Exists(ctx context.Context, token string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, resetPasswordKey, token).Result()
	if err != nil {
		return false, storeErr("check reset token", err)
	}
	return ok, nil
}

func (s *RedisResetTokens) Remove(ctx context.Context, token string) error {
	if err := s.client.SRem(ctx, resetPasswordKey, token).Err(); err != nil {
		return storeErr("remove reset token", err)
	}
	return nil
}
