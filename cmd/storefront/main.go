package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/azuracommerce/go-storefront/gateway"
	"github.com/azuracommerce/go-storefront/server"
	"github.com/azuracommerce/go-storefront/social/google"
)

type App struct {
	config *storefront.EnvConfig
	store  storefront.SessionStore
	gw     *gateway.Client
	srv    router.Server[*fiber.App]
}

func main() {
	cfg, err := storefront.LoadConfig()
	if err != nil {
		panic(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg))
	fmt.Println("============")

	logger := storefront.DefaultLogger()

	app := &App{
		config: cfg,
	}

	machine := storefront.NewSessionStateMachine(
		storefront.WithStateMachineLogger(logger),
	)

	app.store = storefront.NewCookieSessionStore(cfg,
		storefront.WithSessionLogger(logger),
	)

	app.gw = gateway.New(cfg,
		gateway.WithLogger(logger),
	)

	manager := storefront.NewSessionManager(app.gw, app.store, cfg,
		storefront.WithManagerLogger(logger),
		storefront.WithManagerStateMachine(machine),
	)

	bridge := google.NewBridge(app.gw, app.store, cfg,
		google.WithBridgeLogger(logger),
		google.WithBridgeStateMachine(machine),
	)

	app.srv = router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	r := app.srv.Router()

	r.Use(storefront.ReactiveLogout(app.store, cfg,
		storefront.WithInterceptorLogger(logger),
		storefront.WithInterceptorStateMachine(machine),
		storefront.WithSilentPaths("/cart", "/wishlist"),
	))

	controller := server.NewController(manager, app.gw, bridge, app.store, cfg,
		server.WithControllerLogger(logger),
	)

	anonymous := storefront.AnonymousOnly(app.store, cfg)
	protected := storefront.RequireSession(app.store, cfg)

	controller.RegisterRoutes(r, anonymous, protected)

	app.srv.Serve(cfg.GetListenAddr())

	WaitExitSignal()
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
