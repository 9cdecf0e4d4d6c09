package document_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/redis"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo document.Repository
	ctx  context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	client, err := redis.NewClient(mr.Addr(), nil)
	s.Require().NoError(err)

	s.repo, err = document.NewRedisRepository(&document.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.mr.Close()
}

func (s *RedisRepositoryTestSuite) TestConfigRequiresClient() {
	_, err := document.NewRedisRepository(&document.RedisConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = document.NewRedisRepository(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestLoadEmpty() {
	out, err := s.repo.Load(s.ctx, &document.LoadInput{})
	s.Require().NoError(err)
	s.False(out.Found)
	s.Empty(out.Data)
}

func (s *RedisRepositoryTestSuite) TestSaveLoadClear() {
	_, err := s.repo.Save(s.ctx, &document.SaveInput{Data: `{"version":7}`, UpdatedAt: 1700000000000})
	s.Require().NoError(err)

	stored, err := s.mr.Get("sheet:document")
	s.Require().NoError(err)
	s.Equal(`{"version":7}`, stored)

	out, err := s.repo.Load(s.ctx, &document.LoadInput{})
	s.Require().NoError(err)
	s.True(out.Found)
	s.Equal(`{"version":7}`, out.Data)
	s.Equal(int64(1700000000000), out.UpdatedAt)

	cleared, err := s.repo.Clear(s.ctx, &document.ClearInput{})
	s.Require().NoError(err)
	s.True(cleared.Existed)
	s.False(s.mr.Exists("sheet:document"))

	out, err = s.repo.Load(s.ctx, &document.LoadInput{})
	s.Require().NoError(err)
	s.False(out.Found)
}

func (s *RedisRepositoryTestSuite) TestCustomKey() {
	client, err := redis.NewClient(s.mr.Addr(), nil)
	s.Require().NoError(err)
	repo, err := document.NewRedisRepository(&document.RedisConfig{Client: client, Key: "ana"})
	s.Require().NoError(err)

	_, err = repo.Save(s.ctx, &document.SaveInput{Data: "{}"})
	s.Require().NoError(err)
	s.True(s.mr.Exists("sheet:ana"))
	s.False(s.mr.Exists("sheet:document"))
}

func (s *RedisRepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Save(s.ctx, &document.SaveInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Save(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Load(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestUnavailable() {
	s.mr.Close()

	_, err := s.repo.Load(s.ctx, &document.LoadInput{})
	s.True(errors.IsUnavailable(err))

	_, err = s.repo.Save(s.ctx, &document.SaveInput{Data: "{}"})
	s.True(errors.IsUnavailable(err))
}
