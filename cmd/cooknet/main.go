// Command cooknet is a terminal client for the CookNet recipe platform.
//
// Usage:
//
//	cooknet <command> [flags]
//
// Run cooknet with no arguments for the full command list. Configuration
// comes from COOKNET_* environment variables, see the config package.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cooknet-client/config"
	"cooknet-client/internal/client"
	"cooknet-client/internal/localdata"
	"cooknet-client/internal/session"
)

type app struct {
	cfg    *config.Config
	client *client.Client
	cache  *localdata.Cache
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cooknet: %v", err)
	}

	store, err := openSessionStore(cfg)
	if err != nil {
		log.Fatalf("cooknet: %v", err)
	}

	cache, err := localdata.Open(cfg.CacheDBPath)
	if err != nil {
		log.Fatalf("cooknet: open offline cache: %v", err)
	}
	defer cache.Close()

	a := &app{
		cfg:   cfg,
		cache: cache,
	}
	a.client = client.New(cfg.BaseURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithSessionExpiredHandler(func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("cooknet: %v", err)
	}
}

func openSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rc, err := session.DialRedis(session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			URL:      cfg.RedisURL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		return session.NewRedisStore(rc, "cooknet:session"), nil
	default:
		return session.NewFileStore(cfg.SessionPath), nil
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		return a.cmdLogout()
	case "whoami":
		return a.cmdWhoami()
	case "search":
		return a.cmdSearch(ctx, args)
	case "show":
		return a.cmdShow(ctx, args)
	case "my":
		return a.cmdMy(ctx, args)
	case "create":
		return a.cmdCreate(ctx, args)
	case "edit":
		return a.cmdEdit(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "submit":
		return a.cmdSubmit(ctx, args)
	case "moderate":
		return a.cmdModerate(ctx, args)
	case "rate":
		return a.cmdRate(ctx, args)
	case "favorites":
		return a.cmdFavorites(ctx, args)
	case "upload-image":
		return a.cmdUploadImage(ctx, args)
	case "feedback":
		return a.cmdFeedback(ctx, args)
	case "dict":
		return a.cmdDict(ctx, args)
	case "offline":
		return a.cmdOffline(ctx, args)
	case "admin":
		return a.cmdAdmin(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `cooknet - terminal client for the CookNet recipe platform

Account:
  login         sign in and persist the session
  register      create an account
  logout        drop the stored session
  whoami        show the signed-in user

Recipes:
  search        search published recipes
  show          show one recipe, optionally rescaled
  my            list your own recipes
  create        create a draft recipe from a JSON file
  edit          update a recipe from a JSON file
  delete        delete a recipe
  submit        send a draft to moderation
  rate          rate a published recipe 1-5
  favorites     list, add or remove favorites
  upload-image  attach an image file

Moderation:
  moderate      list pending recipes, approve or reject

Reference data:
  dict          list ingredients, units or categories

Offline:
  offline       browse the local recipe cache

Admin:
  admin         user, dictionary, audit and feedback management
`)
}
