package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/logger"
	tghelpers "github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/helpers"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/state"
)

// RequireState returns a middleware that only lets updates through while the
// user is in the expected FSM state. Updates in any other state are ignored.
func RequireState(mgr state.Manager, expected state.State) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			current := mgr.GetState(userID)
			ctx := tghelpers.BuildContext(c)
			event := "fsm.skip"
			if current == expected {
				event = "fsm.match"
			}
			logger.TG.LogAttrs(ctx, slog.LevelDebug, event,
				slog.Int64("user_id", userID),
				slog.String("state", string(current)),
				slog.String("expected", string(expected)),
				slog.String("rid", logger.RIDFrom(ctx)),
			)
			if current != expected {
				return nil
			}
			return next(c)
		}
	}
}
