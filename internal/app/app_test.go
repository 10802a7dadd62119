package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/GlebRadaev/mileage/internal/cache"
	"github.com/GlebRadaev/mileage/internal/config"
	"github.com/GlebRadaev/mileage/internal/events"
	"github.com/GlebRadaev/mileage/internal/memstore"
)

type ApplicationSuite struct {
	suite.Suite
	app *Application
}

func TestApplication(t *testing.T) {
	suite.Run(t, &ApplicationSuite{})
}

func (s *ApplicationSuite) SetupTest() {
	s.app = New()
	s.app.cfg = &config.Config{
		Storage:  config.StorageMemory,
		CacheTTL: time.Minute,
	}
}

func (s *ApplicationSuite) TestWait() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.errCh = make(chan error)
	go func() {
		s.app.errCh <- fmt.Errorf("mock error")
	}()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "mock error")
}

func (s *ApplicationSuite) TestWait_ClosesInReverseOrder() {
	var order []string
	s.app.onClose(func(context.Context) error {
		order = append(order, "pool")
		return nil
	})
	s.app.onClose(func(context.Context) error {
		order = append(order, "redis")
		return errors.New("redis close failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "redis close failed")
	s.Equal([]string{"redis", "pool"}, order)
}

func (s *ApplicationSuite) TestStartWorker_StopsWithContext() {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	s.app.startWorker(ctx, func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	})
	cancel()

	s.Require().NoError(s.app.Wait(ctx, cancel))
	select {
	case <-stopped:
	default:
		s.Fail("worker still running after Wait")
	}
}

func (s *ApplicationSuite) TestBuildRepositories_Memory() {
	repos, err := s.app.buildRepositories(context.Background())

	s.Require().NoError(err)
	s.IsType(&memstore.Store{}, repos.AccountRepo)
	s.Empty(s.app.closers)
}

func (s *ApplicationSuite) TestBuildCache() {
	c, err := s.app.buildCache(context.Background())
	s.Require().NoError(err)
	s.IsType(cache.Noop{}, c)

	mr := miniredis.RunT(s.T())
	s.app.cfg.RedisAddress = mr.Addr()

	c, err = s.app.buildCache(context.Background())
	s.Require().NoError(err)
	s.IsType(&cache.AccountCache{}, c)
	s.Len(s.app.closers, 1)
}

func (s *ApplicationSuite) TestBuildPublisher() {
	s.IsType(events.Noop{}, s.app.buildPublisher())

	s.app.cfg.KafkaBrokers = []string{"localhost:9092"}
	s.app.cfg.KafkaTopic = events.DefaultTopic
	s.IsType(&events.KafkaPublisher{}, s.app.buildPublisher())
	s.Len(s.app.closers, 1)
}

func (s *ApplicationSuite) TestStartGRPCServer_Disabled() {
	s.NoError(s.app.startGRPCServer(context.Background()))
}
