// Package main собирает клиентское ядро stellar-burgers и выполняет
// стартовую последовательность приложения.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/stellar-burgers-core/internal/api"
	"github.com/mmeshcher/stellar-burgers-core/internal/catalog"
	"github.com/mmeshcher/stellar-burgers-core/internal/config"
	"github.com/mmeshcher/stellar-burgers-core/internal/feed"
	"github.com/mmeshcher/stellar-burgers-core/internal/orders"
	"github.com/mmeshcher/stellar-burgers-core/internal/session"
	"github.com/mmeshcher/stellar-burgers-core/internal/token"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	tokens := token.NewFileStorage(cfg.TokenFile)
	client := api.NewClient(cfg.APIBaseURL, tokens, time.Duration(cfg.RequestTimeout)*time.Second, logger)

	catalogStore := catalog.NewStore(client, logger)
	feedStore := feed.NewStore(client, logger)
	orderManager := orders.NewManager(client, logger)
	sessionManager := session.NewManager(client, tokens, logger)
	sessionManager.SetTeardown(orderManager.ClearUserState)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Стартовая последовательность: каталог, лента и проверка сессии
	// загружаются параллельно и независимо. Ошибка одной операции не
	// отменяет остальные: каждое хранилище записывает её у себя.
	g.Go(func() error {
		if err := catalogStore.LoadCatalog(ctx); err != nil {
			sugar.Errorw("catalog load failed", "error", err.Error())
		}
		return nil
	})
	g.Go(func() error {
		if err := feedStore.RefreshFeed(ctx); err != nil {
			sugar.Errorw("feed refresh failed", "error", err.Error())
		}
		return nil
	})
	g.Go(func() error {
		if err := sessionManager.VerifySession(ctx); err != nil {
			sugar.Infow("session not restored", "error", err.Error())
		}
		return nil
	})

	_ = g.Wait()

	if user, ok := sessionManager.User(); ok {
		if err := orderManager.FetchUserOrders(ctx); err != nil {
			sugar.Errorw("user orders load failed", "error", err.Error())
		}
		sugar.Infow("session restored",
			"email", user.Email,
			"orders", len(orderManager.UserOrders()),
		)
	} else {
		sugar.Infow("anonymous session", "checked", sessionManager.IsAuthChecked())
	}

	snapshot, _ := feedStore.Snapshot()
	sugar.Infow("startup complete",
		"ingredients", len(catalogStore.Ingredients()),
		"feed_orders", len(snapshot.Orders),
		"feed_total", snapshot.Total,
		"feed_total_today", snapshot.TotalToday,
	)
}
