package app

import (
	"context"
	"fmt"
	"time"

	"hirepulse/internal/config"
	"hirepulse/internal/database"
	"hirepulse/internal/database/migration"
	dbpostgres "hirepulse/internal/database/postgres"
	"hirepulse/internal/domain/matching"
	"hirepulse/internal/infrastructure/cache"
	"hirepulse/internal/notify"
	"hirepulse/internal/pkg/webtoken"
	"hirepulse/internal/repository"
	"hirepulse/internal/scheduler"
	"hirepulse/internal/sheets"
	"hirepulse/internal/telegram"
	"hirepulse/internal/usecase"

	"go.uber.org/zap"
)

// Container wires every service once at startup. Nothing in here is a
// package-level singleton: tests construct the same pieces with fakes.
type Container struct {
	Config config.Config
	Log    *zap.Logger

	DB    database.DB
	Cache *cache.Redis

	Telegram *telegram.Client
	Admin    *telegram.AdminNotifier

	Matcher     usecase.MatcherUsecase
	Preferences usecase.PreferenceUsecase
	VacancySync usecase.VacancySyncUsecase
	SurveySync  usecase.SurveySyncUsecase

	Notifications repository.NotificationRepository
	Questions     repository.SurveyQuestionRepository
	TagDir        repository.TagRepository

	Dispatcher *notify.Dispatcher
	Scheduler  *scheduler.Scheduler
	WebTokens  webtoken.Service
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := (migration.Runner{Dir: "migrations"}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisCache := cache.NewRedis(cfg.Redis, log)

	tg := telegram.NewClient(cfg.Telegram.BotToken, log)
	admin := telegram.NewAdminNotifier(tg, cfg.Telegram.AdminChatID, log)

	tagDir := repository.NewPostgresTagRepository(db)
	userTags := repository.NewPostgresUserTagRepository(db)
	vacancyTags := repository.NewPostgresVacancyTagRepository(db)
	prefs := repository.NewPostgresUserPreferenceRepository(db)
	vacancies := repository.NewPostgresVacancyRepository(db)
	notifications := repository.NewPostgresNotificationRepository(db)
	questions := repository.NewPostgresSurveyQuestionRepository(db)

	matcher := usecase.NewMatcher(userTags, vacancyTags, notifications, vacancies, matching.Options{
		MinOverlap: cfg.Matching.MinOverlap,
		Limit:      cfg.Matching.TopN,
	}, log)

	preferences := usecase.NewPreferences(prefs, userTags, tagDir, log)

	source := sheets.NewGoogleSource(cfg.Sheets.APIKey, cfg.Sheets.VacanciesSheetID, cfg.Sheets.SurveySheetID)
	vacancySync := usecase.NewVacancySync(source, vacancies, vacancyTags, tagDir, log)
	surveySync := usecase.NewSurveySync(source, questions, log)

	dispatcher := notify.NewDispatcher(
		prefs,
		matcher,
		notifications,
		tg,
		notify.NewDelayPacer(cfg.Notify.SendDelay),
		notify.NewDelayPacer(cfg.Notify.UserDelay),
		log,
	)

	c := &Container{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Cache:       redisCache,
		Telegram:    tg,
		Admin:       admin,
		Matcher:     matcher,
		Preferences: preferences,
		VacancySync: vacancySync,
		SurveySync:  surveySync,

		Notifications: notifications,
		Questions:     questions,
		TagDir:        tagDir,

		Dispatcher: dispatcher,
		Scheduler:   scheduler.New(redisCache, cfg.Scheduler.LeaseTTL, log),
		WebTokens:   webtoken.NewHMACService(cfg.WebApp.JWTSecret, cfg.WebApp.TokenTTL),
	}

	c.registerJobs()
	return c, nil
}

func (c *Container) registerJobs() {
	cfg := c.Config.Scheduler

	if c.Config.Sheets.VacanciesSheetID != "" {
		c.Scheduler.Register("vacancy-sync", cfg.VacancySyncSpec, func(ctx context.Context) {
			res, err := c.VacancySync.SyncAll(ctx)
			if err != nil {
				c.Log.Error("vacancy sync failed", zap.Error(err))
				c.Admin.Notify(ctx, fmt.Sprintf("Ошибка синхронизации вакансий: %v", err))
				return
			}
			if res.Changed() {
				c.Admin.Notify(ctx, fmt.Sprintf(
					"Синхронизация завершена: %d новых, %d обновленных, %d снятых",
					res.Synced, res.Updated, res.Deactivated,
				))
			}
		})
	} else {
		c.Log.Warn("vacancies sheet not configured, vacancy sync job disabled")
	}

	if c.Config.Sheets.SurveySheetID != "" {
		c.Scheduler.Register("survey-sync", cfg.SurveySyncSpec, func(ctx context.Context) {
			n, err := c.SurveySync.Sync(ctx)
			if err != nil {
				c.Log.Error("survey sync failed", zap.Error(err))
				return
			}
			if n > 0 {
				c.Admin.Notify(ctx, fmt.Sprintf("Синхронизация вопросов: %d", n))
			}
		})
	}

	if c.Telegram.Enabled() {
		c.Scheduler.Register("notifications", cfg.NotifySpec, func(ctx context.Context) {
			res := c.Dispatcher.RunCycle(ctx)
			if !res.Changed() {
				return
			}
			stats, err := c.Notifications.StatsSince(ctx, time.Now().Add(-24*time.Hour))
			if err != nil {
				c.Log.Warn("load notification stats", zap.Error(err))
			}
			c.Admin.Notify(ctx, notificationSummary(res, stats))
		})
	} else {
		c.Log.Warn("telegram disabled, notification job not scheduled")
	}
}

// notificationSummary renders the admin report for one finished cycle,
// appending the last 24h ledger totals when they are available.
func notificationSummary(res notify.CycleResult, stats repository.NotificationStats) string {
	s := fmt.Sprintf(
		"Рассылка завершена: отправлено %d, пользователей %d, ошибок %d",
		res.Sent, res.UsersProcessed, res.Errors,
	)
	if stats.Total > 0 {
		s += fmt.Sprintf(
			"\nЗа сутки: всего %d, доставлено %d, ошибок %d",
			stats.Total, stats.Sent, stats.Failed,
		)
	}
	return s
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
