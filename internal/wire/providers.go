package wire

import (
	"time"

	"nexoecos/internal/codex"
	"nexoecos/internal/common"
	"nexoecos/internal/community"
	"nexoecos/internal/config"
	"nexoecos/internal/dbmongo"
	"nexoecos/internal/news"
	"nexoecos/internal/notif"
	"nexoecos/internal/user"

	"gorm.io/gorm"
)

// Application bundles everything main needs to run and shut down the
// server.
type Application struct {
	Config *config.Config
	DB     *gorm.DB
	Mongo  *dbmongo.MongoClient
	Syncer *codex.MirrorSyncer
	Tokens *common.TokenIssuer

	UserHandler         *user.UserHandler
	CommunityHandler    *community.CommunityHandler
	CodexHandler        *codex.CodexHandler
	NewsHandler         *news.NewsHandler
	NotificationHandler *notif.NotificationHandler
}

func ProvideDocumentStore(mc *dbmongo.MongoClient, cfg *config.Config) common.DocumentStore {
	return dbmongo.NewMirror(mc, time.Duration(cfg.Sync.WriteTimeout)*time.Second)
}

func ProvideMirrorSyncer(store common.DocumentStore, cfg *config.Config) *codex.MirrorSyncer {
	return codex.NewMirrorSyncer(store, cfg.Sync.Workers, cfg.Sync.ChannelBufferSize)
}

func ProvideProjector(cfg *config.Config) *codex.Projector {
	return codex.NewProjector(cfg.Site.BaseURL)
}

func ProvideTokenIssuer(cfg *config.Config) *common.TokenIssuer {
	return common.NewTokenIssuer(cfg.Server.JWTSecret)
}

func ProvideIdentityProvider(cfg *config.Config) user.IdentityProvider {
	return user.NewRESTIdentityClient(cfg.Identity.BaseURL, cfg.Identity.APIKey)
}

func ProvideUserService(repo *user.UserRepository, identity user.IdentityProvider, tokens *common.TokenIssuer, cfg *config.Config) *user.UserService {
	return user.NewUserService(repo, identity, tokens, cfg.Identity.Enabled)
}
