package processor

import (
	"context"
	"fmt"
	"sync"

	"bazaar/catalog-service/internal/app/catalog/service"
	"bazaar/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CascadeSweeper по расписанию дорабатывает удаления категорий,
// остановившиеся после удаления товаров
type CascadeSweeper struct {
	cron     *cron.Cron
	cascades service.CascadeResumer
	mu       sync.Mutex // один проход за раз
}

func NewCascadeSweeper(cascades service.CascadeResumer) *CascadeSweeper {
	c := cron.New(cron.WithLogger(newCronLogger()))

	return &CascadeSweeper{
		cron:     c,
		cascades: cascades,
	}
}

func (s *CascadeSweeper) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cascade sweeper")

	_, err := s.cron.AddFunc(schedule, func() {
		resumed, failed := s.Sweep(ctx)
		if resumed > 0 || failed > 0 {
			logger.Info().
				Int("resumed", resumed).
				Int("failed", failed).
				Msg("Cascade sweep completed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	s.cron.Start()

	// Ledger мог остаться от прошлого запуска
	s.cascades.RefreshPending(ctx)
	if resumed, failed := s.Sweep(ctx); resumed > 0 || failed > 0 {
		logger.Info().Int("resumed", resumed).Int("failed", failed).Msg("Initial cascade sweep completed")
	}

	return nil
}

// Sweep проходит по ledger и возвращает число доработанных и неудачных каскадов
func (s *CascadeSweeper) Sweep(ctx context.Context) (resumed, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.cascades.Pending(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list pending cascades")
		return 0, 0
	}

	for _, id := range pending {
		if ctx.Err() != nil {
			break
		}
		if err := s.cascades.Resume(ctx, id); err != nil {
			logger.Warn().Err(err).Int64("category_id", id).Msg("Pending cascade still failing")
			failed++
			continue
		}
		resumed++
	}

	return resumed, failed
}

func (s *CascadeSweeper) Stop() {
	logger.Info().Msg("Stopping cascade sweeper...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cascade sweeper stopped")
}

func (s *CascadeSweeper) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

// cronLogger направляет логи cron в zerolog
type cronLogger struct {
	log zerolog.Logger
}

func newCronLogger() cronLogger {
	return cronLogger{log: logger.Logger()}
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
