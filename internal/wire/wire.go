//go:build wireinject
// +build wireinject

package wire

import (
	"nexoecos/internal/codex"
	"nexoecos/internal/community"
	"nexoecos/internal/config"
	"nexoecos/internal/dbmongo"
	"nexoecos/internal/dbmysql"
	"nexoecos/internal/news"
	"nexoecos/internal/notif"
	"nexoecos/internal/user"

	"github.com/google/wire"
)

// InitializeApplication wires the whole dependency graph: the relational
// store, the document mirror, the sync workers and every handler.
func InitializeApplication() (*Application, error) {
	wire.Build(
		config.Load,
		dbmysql.NewMySQL,
		dbmongo.NewMongoConnection,

		ProvideDocumentStore,
		ProvideMirrorSyncer,
		wire.Bind(new(codex.Syncer), new(*codex.MirrorSyncer)),
		ProvideProjector,
		codex.NewCodexRepository,
		codex.NewCodexService,
		codex.NewCodexHandler,

		ProvideTokenIssuer,
		ProvideIdentityProvider,
		ProvideUserService,
		user.NewUserRepository,
		user.NewUserHandler,
		wire.Bind(new(codex.UserFinder), new(*user.UserRepository)),

		community.NewCommunityRepository,
		wire.Bind(new(community.Store), new(*community.CommunityRepository)),
		community.NewCommunityService,
		community.NewCommunityHandler,

		dbmysql.NewNotificationRepository,
		notif.NewNotificationService,
		notif.NewNotificationHandler,

		news.NewNewsRepository,
		news.NewNewsService,
		news.NewNewsHandler,

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
