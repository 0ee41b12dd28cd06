package bot

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/KLYMENKORUS/telegram-bot-shop/internal/config"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/database"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/shop"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/storage"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/commands"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/middleware"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/router"
	"github.com/KLYMENKORUS/telegram-bot-shop/internal/telegram/state"
)

// Handlers carries the dependencies shared by all update handlers.
type Handlers struct {
	cfg    *config.Config
	store  *storage.Store
	engine *shop.Engine
	fsm    state.Manager
}

// App is the assembled shop bot: infrastructure plus handler wiring.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	handlers *Handlers
}

// New connects to the database, applies migrations, and wires the handlers.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("bot: database initialization failed: %w", err)
	}
	if err := database.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bot: migrations failed: %w", err)
	}

	st := storage.New(db)
	h := &Handlers{
		cfg:    cfg,
		store:  st,
		engine: shop.NewEngine(shop.NewStore(st)),
		fsm:    state.NewMemoryManager(),
	}

	return &App{cfg: cfg, db: db, handlers: h}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	return a.db.Close()
}

// TelegramRunOptions assembles registry, routes, and middleware for RunTelegram.
func (a *App) TelegramRunOptions() (telegram.RunOptions, error) {
	reg := telegram.NewRegistry()
	h := a.handlers

	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.handleStart,
		Description: "Restart the bot",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.handleHelp,
		Description: "How to use the bot",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:   h.handleAdmin,
		AdminOnly: true,
		Hidden:    true,
	})

	clientCallbacks := map[string]tele.HandlerFunc{
		cbMainMenu:    h.handleMainMenu,
		cbHelp:        h.handleHelp,
		cbInfo:        h.handleInfo,
		cbSettings:    h.handleGuide,
		cbChooseGoods: h.handleChooseGoods,
		cbCategory:    h.handleCategory,
		cbProduct:     h.handleSelectProduct,
		cbOrder:       h.handleOrder,
		cbOrderPrev:   h.handleOrderPrev,
		cbOrderNext:   h.handleOrderNext,
		cbOrderIncr:   h.handleOrderIncrease,
		cbOrderDecr:   h.handleOrderDecrease,
		cbOrderRemove: h.handleOrderRemove,
		cbOrderApply:  h.handleOrderApply,
	}
	for key, handler := range clientCallbacks {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return telegram.RunOptions{}, err
		}
	}

	// the wizard's category pick is only valid while that dialog step is active
	wizardCategory := middleware.RequireState(h.fsm, stateAddProductCategory)(h.handleWizardCategory)

	adminCallbacks := map[string]tele.HandlerFunc{
		cbAdminMenu:      h.handleAdmin,
		cbAddCategory:    h.handleAddCategory,
		cbListCategory:   h.handleListCategories,
		cbOnlyCategory:   h.handleOnlyCategory,
		cbDeleteCategory: h.handleDeleteCategory,
		cbAddProduct:     h.handleAddProduct,
		cbWizardCategory: wizardCategory,
		cbSaveProduct:    h.handleSaveProduct,
		cbRepealProduct:  h.handleRepealProduct,
		cbListProduct:    h.handleListProducts,
		cbProductsOfCat:  h.handleProductsOfCategory,
		cbOnlyProduct:    h.handleOnlyProduct,
		cbDeleteProduct:  h.handleDeleteProduct,
		cbCancel:         h.handleCancel,
	}
	for key, handler := range adminCallbacks {
		if err := reg.RegisterCallback(key, h.requireAdmin(handler)); err != nil {
			return telegram.RunOptions{}, err
		}
	}

	state.RegisterHandler(stateAddCategoryName, h.onCategoryName)
	state.RegisterHandler(stateAddProductName, h.onProductName)
	state.RegisterHandler(stateAddProductTitle, h.onProductTitle)
	state.RegisterHandler(stateAddProductPrice, h.onProductPrice)
	state.RegisterHandler(stateAddProductQuantity, h.onProductQuantity)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
		OnAdminReject: func(c tele.Context) error {
			return c.Send(textNotAdmin)
		},
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(h.fsm, reg, router.TextOptions{}))

	return telegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: telegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
	}, nil
}
