package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/whatsb/whatsb-embedding-example/internal/audit"
	"github.com/whatsb/whatsb-embedding-example/internal/config"
	"github.com/whatsb/whatsb-embedding-example/internal/journal"
	"github.com/whatsb/whatsb-embedding-example/internal/middleware"
	"github.com/whatsb/whatsb-embedding-example/internal/token"
	"github.com/whatsb/whatsb-embedding-example/internal/token/handler"
	"github.com/whatsb/whatsb-embedding-example/internal/token/issuer"
	"github.com/whatsb/whatsb-embedding-example/internal/token/issuer/oidc"
	"github.com/whatsb/whatsb-embedding-example/internal/token/issuer/remote"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Issuers
	// ----------------------------

	var issuers []token.Issuer

	if cfg.UpstreamTokenURL != "" {
		remoteIssuer, err := remote.New(cfg.UpstreamTokenURL, cfg.UpstreamSecretKey)
		if err != nil {
			return nil, nil, err
		}
		issuers = append(issuers, remoteIssuer)
	}

	if cfg.OIDCIssuer != "" {
		oidcIssuer, err := oidc.New(
			ctx,
			cfg.OIDCIssuer,
			cfg.OIDCClientID,
			cfg.OIDCClientSecret,
		)
		if err != nil {
			return nil, nil, err
		}
		issuers = append(issuers, oidcIssuer)
	}

	registry := issuer.NewRegistry(issuers...)

	active, err := registry.Get(cfg.UpstreamMode)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	auditRecorder := audit.Recorder(audit.Noop{})
	if infra.DB != nil {
		auditRecorder = audit.NewPostgresRecorder(infra.DB)
	}

	exchangeJournal := journal.Recorder(journal.NewMemory(0))
	if infra.Redis != nil {
		exchangeJournal = journal.NewRedisRecorder(infra.Redis.Client, "journal:exchanges", 0)
	}

	tokenHandler := handler.NewHandler(active, auditRecorder, exchangeJournal)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	tokenHandler.RegisterRoutes(router, cfg.AllowedOrigins)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if infra.DB != nil {
			return infra.DB.Close()
		}
		return nil
	}, nil
}
