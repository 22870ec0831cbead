package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"

	"authd/internal/authcode"
	"authd/internal/config"
	"authd/internal/keys"
	"authd/internal/logging"
	"authd/internal/providers"
	"authd/internal/repo"
	"authd/internal/store"
	"authd/internal/tokenize"
	"authd/internal/tokens"
)

// app bundles every long-lived component the serve and seed subcommands
// share, so neither has to duplicate the wiring order.
type app struct {
	Config    *config.Config
	Log       *logging.Logger
	Store     *store.Store
	Repos     *repo.Repos
	Keys      *keys.Store
	JWT       *tokenize.Service
	Tokens    *tokens.Engine
	AuthCode  *authcode.Engine
	Providers *providers.Registry
}

// bootstrap loads env files, config, keys, applies migrations, connects to
// the database, and builds every domain engine, mirroring the
// teacher's main.go composition order.
func bootstrap(ctx context.Context) (*app, error) {
	loadEnvFiles()
	cfg := config.Load()

	log := logging.New(cfg.Server.Environment)

	keyStore, err := keys.Load(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load keys: %w", err)
	}

	if err := store.Migrate(cfg.Database.URL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	st, err := store.Connect(ctx, cfg.Database.URL, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	repos := repo.New(st.Pool)
	jwtSvc := tokenize.New(keyStore, cfg.JWT.Issuer)
	tokenEngine := tokens.NewEngine(repos, jwtSvc, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	authCodeEngine := authcode.NewEngine(repos, tokenEngine, cfg.OAuth2.AuthorizationCodeExpiry)

	passwordProvider := providers.NewPasswordProvider(repos)
	wechatProvider := providers.NewWeChatProvider(repos, &unconfiguredWeChatClient{})
	testProvider := providers.NewTestProvider(repos)
	registry := providers.NewRegistry(passwordProvider, wechatProvider, testProvider, cfg.OAuth2.EnableTestProvider)

	return &app{
		Config:    cfg,
		Log:       log,
		Store:     st,
		Repos:     repos,
		Keys:      keyStore,
		JWT:       jwtSvc,
		Tokens:    tokenEngine,
		AuthCode:  authCodeEngine,
		Providers: registry,
	}, nil
}

// loadEnvFiles loads .env.local then .env from the directory that held this
// source file at build time (found through runtime.Caller), not from the
// working directory, matching the teacher's main.go (godotenv.Load then
// Overload, so values from .env replace ones already set).
func loadEnvFiles() {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return
	}
	dir := filepath.Dir(thisFile)
	_ = godotenv.Load(filepath.Join(dir, ".env.local"))
	_ = godotenv.Overload(filepath.Join(dir, ".env"))
}

// unconfiguredWeChatClient is the WeChat client bootstrap wires in; no
// WeChat app credentials are read from configuration, so every exchange
// fails closed rather than silently succeeding.
type unconfiguredWeChatClient struct{}

func (unconfiguredWeChatClient) ExchangeCode(ctx context.Context, code string) (string, map[string]string, error) {
	return "", nil, fmt.Errorf("wechat provider is not configured")
}
