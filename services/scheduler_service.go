package services

import (
	"context"
	"errors"
	"fmt"

	"gin-inventory/config"
	"gin-inventory/constants"
	"gin-inventory/repositories"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ISchedulerService interface {
	Start() error
	Stop() context.Context
	RunDaily(ctx context.Context)
	NotifyUpcomingReleases(ctx context.Context) error
	NotifyExpiringFoods(ctx context.Context) error
	CheckEmergencyItems(ctx context.Context) error
	PurgeExpiredTokens(ctx context.Context) error
}

type SchedulerService struct {
	cfg           config.SchedulerConfig
	books         repositories.IBookRepository
	foods         repositories.IFoodRepository
	emergency     repositories.IEmergencyRepository
	notifications repositories.INotificationRepository
	tokens        repositories.ITokenRepository
	notifier      INotificationService
	clock         Clock
	cron          *cron.Cron
	logger        zerolog.Logger
}

func NewSchedulerService(
	cfg config.SchedulerConfig,
	books repositories.IBookRepository,
	foods repositories.IFoodRepository,
	emergency repositories.IEmergencyRepository,
	notifications repositories.INotificationRepository,
	tokens repositories.ITokenRepository,
	notifier INotificationService,
	clock Clock,
	logger zerolog.Logger,
) ISchedulerService {
	return &SchedulerService{
		cfg:           cfg,
		books:         books,
		foods:         foods,
		emergency:     emergency,
		notifications: notifications,
		tokens:        tokens,
		notifier:      notifier,
		clock:         clock,
		cron:          cron.New(cron.WithLocation(cfg.Location())),
		logger:        logger.With().Str("component", "scheduler").Logger(),
	}
}

func (s *SchedulerService) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("scheduler disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.cfg.Spec, func() { s.RunDaily(context.Background()) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.cfg.Spec, err)
	}
	if s.cfg.RunOnStart {
		go s.RunDaily(context.Background())
	}
	s.cron.Start()
	s.logger.Info().Str("spec", s.cfg.Spec).Str("timezone", s.cfg.Location().String()).Msg("scheduler started")
	return nil
}

// Stop returns a context that is done once a running job has finished.
func (s *SchedulerService) Stop() context.Context {
	return s.cron.Stop()
}

// RunDaily runs every job. A failing job does not stop the others.
func (s *SchedulerService) RunDaily(ctx context.Context) {
	jobs := []struct {
		name string
		run  func(context.Context) error
	}{
		{"upcoming_releases", s.NotifyUpcomingReleases},
		{"expiring_foods", s.NotifyExpiringFoods},
		{"emergency_items", s.CheckEmergencyItems},
		{"token_purge", s.PurgeExpiredTokens},
	}
	for _, job := range jobs {
		if err := job.run(ctx); err != nil {
			s.logger.Error().Err(err).Str("job", job.name).Msg("scheduled job failed")
			continue
		}
		s.logger.Debug().Str("job", job.name).Msg("scheduled job finished")
	}
}

// NotifyUpcomingReleases notifies owners of books published tomorrow. A
// notification with the same text that already exists is marked read instead.
func (s *SchedulerService) NotifyUpcomingReleases(ctx context.Context) error {
	tomorrow := s.clock.Today().AddDays(1)
	books, err := s.books.FindReleasingOn(ctx, tomorrow)
	if err != nil {
		return err
	}
	for _, book := range books {
		message := fmt.Sprintf(constants.NotificationReleaseFormat, book.Title)
		existing, err := s.notifications.FindByMessage(ctx, book.UserID, message)
		switch {
		case err == nil:
			if err := s.notifications.MarkRead(ctx, existing.ID, book.UserID); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if _, err := s.notifier.Notify(ctx, book.UserID, message); err != nil {
				return err
			}
		default:
			return err
		}
	}
	s.logger.Info().Int("books", len(books)).Str("date", tomorrow.String()).Msg("release notifications processed")
	return nil
}

// NotifyExpiringFoods creates one notification per food item expiring within
// the configured window unless an identical one already exists.
func (s *SchedulerService) NotifyExpiringFoods(ctx context.Context) error {
	today := s.clock.Today()
	foods, err := s.foods.FindAllExpiringBetween(ctx, today, today.AddDays(s.cfg.NotifyDays))
	if err != nil {
		return err
	}
	created := 0
	for _, food := range foods {
		message := fmt.Sprintf(constants.NotificationExpiryFormat, food.Name, food.ExpirationDate.String())
		_, err := s.notifications.FindByMessage(ctx, food.UserID, message)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := s.notifier.Notify(ctx, food.UserID, message); err != nil {
			return err
		}
		created++
	}
	s.logger.Info().Int("items", len(foods)).Int("created", created).Msg("expiry notifications processed")
	return nil
}

// CheckEmergencyItems only logs; the stockpile has no owner to notify.
func (s *SchedulerService) CheckEmergencyItems(ctx context.Context) error {
	target := s.clock.Today().AddDays(s.cfg.NotifyDays)
	items, err := s.emergency.FindExpiringOn(ctx, target)
	if err != nil {
		return err
	}
	for _, item := range items {
		s.logger.Warn().
			Uint("item_id", item.ID).
			Str("name", item.Name).
			Str("location", item.Location).
			Str("expiration_date", target.String()).
			Msg("emergency item expiring")
	}
	return nil
}

func (s *SchedulerService) PurgeExpiredTokens(ctx context.Context) error {
	removed, err := s.tokens.CleanExpiredTokens(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("expired tokens purged")
	}
	return nil
}
