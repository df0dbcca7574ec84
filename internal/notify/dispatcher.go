// Package notify drives notification cycles: for every active subscriber it
// asks the matcher for relevant vacancies, delivers them through the
// messaging channel, and records each successful send in the ledger.
package notify

import (
	"context"
	"errors"

	"hirepulse/internal/repository"
	"hirepulse/internal/usecase"

	"go.uber.org/zap"
)

type CycleResult struct {
	Sent           int
	Errors         int
	UsersProcessed int
}

func (r CycleResult) Changed() bool {
	return r.Sent > 0
}

type Dispatcher struct {
	prefs         repository.UserPreferenceRepository
	matcher       usecase.MatcherUsecase
	notifications repository.NotificationRepository
	sender        Sender
	sendPacer     Pacer
	userPacer     Pacer
	log           *zap.Logger
}

func NewDispatcher(
	prefs repository.UserPreferenceRepository,
	matcher usecase.MatcherUsecase,
	notifications repository.NotificationRepository,
	sender Sender,
	sendPacer Pacer,
	userPacer Pacer,
	log *zap.Logger,
) *Dispatcher {
	if sendPacer == nil {
		sendPacer = NopPacer{}
	}
	if userPacer == nil {
		userPacer = NopPacer{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		prefs:         prefs,
		matcher:       matcher,
		notifications: notifications,
		sender:        sender,
		sendPacer:     sendPacer,
		userPacer:     userPacer,
		log:           log,
	}
}

// RunCycle processes every active subscriber sequentially. Delivery is
// at-most-once per (user, vacancy): the matcher already excludes recorded
// vacancies, and only successful sends are recorded. A blocked recipient
// deactivates the subscription and skips that user's remaining vacancies.
func (d *Dispatcher) RunCycle(ctx context.Context) CycleResult {
	var res CycleResult

	users, err := d.prefs.ListActive(ctx)
	if err != nil {
		d.log.Error("load active subscribers", zap.Error(err))
		return res
	}
	if len(users) == 0 {
		return res
	}

	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		res.UsersProcessed++

		sent, errs := d.notifyUser(ctx, user)
		res.Sent += sent
		res.Errors += errs

		d.userPacer.Wait(ctx)
	}

	if res.Sent > 0 {
		d.log.Info("notification cycle finished",
			zap.Int("sent", res.Sent),
			zap.Int("errors", res.Errors),
			zap.Int("users_processed", res.UsersProcessed),
		)
	}
	return res
}

func (d *Dispatcher) notifyUser(ctx context.Context, user repository.UserPreference) (sent, errs int) {
	matches := d.matcher.FindMatches(ctx, user.UserID)

	for _, m := range matches {
		if ctx.Err() != nil {
			return sent, errs
		}

		text := FormatMatch(user, m)
		err := d.sender.Send(ctx, user.UserID, text, MatchKeyboard(m))
		if err != nil {
			errs++
			if errors.Is(err, ErrRecipientBlocked) {
				d.log.Info("subscriber blocked the bot, deactivating",
					zap.Int64("user_id", user.UserID),
				)
				if derr := d.prefs.Deactivate(ctx, user.UserID); derr != nil {
					d.log.Error("deactivate subscription", zap.Int64("user_id", user.UserID), zap.Error(derr))
				}
				return sent, errs
			}
			d.log.Warn("send failed",
				zap.Int64("user_id", user.UserID),
				zap.String("vacancy_id", m.Vacancy.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := d.notifications.Record(ctx, user.UserID, m.Vacancy.ID, repository.NotificationStatusSent); err != nil {
			// The send went out but the ledger write failed; the vacancy may
			// be offered again next cycle. Prefer a possible duplicate over
			// a silent gap.
			d.log.Error("record notification",
				zap.Int64("user_id", user.UserID),
				zap.String("vacancy_id", m.Vacancy.ID.String()),
				zap.Error(err),
			)
		}
		sent++

		d.sendPacer.Wait(ctx)
	}
	return sent, errs
}
