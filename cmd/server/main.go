package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexoecos/internal/common"
	"nexoecos/internal/wire"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app, err := wire.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	log.Println("Dependencies wired successfully")

	router := buildRouter(app)

	addr := fmt.Sprintf("%s:%s", app.Config.Server.Host, app.Config.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// drain pending mirror writes before closing the stores
	app.Syncer.Shutdown()

	if err := app.Mongo.Close(ctx); err != nil {
		log.Printf("Mongo close error: %v", err)
	}
	if sqlDB, err := app.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("Shutdown complete")
}

func buildRouter(app *wire.Application) *mux.Router {
	router := mux.NewRouter()
	router.Use(common.LoggingMiddleware)
	router.Use(common.CORSMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	auth := common.AuthMiddleware(app.Tokens)

	// auth
	api.HandleFunc("/auth/register", app.UserHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", app.UserHandler.Login).Methods(http.MethodPost)

	me := api.PathPrefix("/me").Subrouter()
	me.Use(auth)
	me.HandleFunc("", app.UserHandler.Me).Methods(http.MethodGet)
	me.HandleFunc("/profile", app.UserHandler.UpdateProfile).Methods(http.MethodPut)

	// notifications
	notifs := api.PathPrefix("/notifications").Subrouter()
	notifs.Use(auth)
	notifs.HandleFunc("", app.NotificationHandler.List).Methods(http.MethodGet)
	notifs.HandleFunc("/read", app.NotificationHandler.MarkAllRead).Methods(http.MethodPost)
	notifs.HandleFunc("/unread-count", app.NotificationHandler.UnreadCount).Methods(http.MethodGet)

	// community: public reads
	ch := app.CommunityHandler
	api.HandleFunc("/posts", ch.Feed).Methods(http.MethodGet)
	api.HandleFunc("/posts/{slug}", ch.PostDetail).Methods(http.MethodGet)
	api.HandleFunc("/forums", ch.ForumIndex).Methods(http.MethodGet)
	api.HandleFunc("/forums/{slug}", ch.ForumDetail).Methods(http.MethodGet)
	api.HandleFunc("/forums/{forumSlug}/threads/{slug}", ch.ThreadDetail).Methods(http.MethodGet)

	// community: authenticated writes
	community := api.PathPrefix("").Subrouter()
	community.Use(auth)
	community.HandleFunc("/posts", ch.CreatePost).Methods(http.MethodPost)
	community.HandleFunc("/posts/{slug}", ch.EditPost).Methods(http.MethodPut)
	community.HandleFunc("/posts/{slug}/comments", ch.CreateComment).Methods(http.MethodPost)
	community.HandleFunc("/posts/{slug}/react/{reaction}", ch.ReactToPost).Methods(http.MethodPost)
	community.HandleFunc("/comments/{id}/react/{reaction}", ch.ReactToComment).Methods(http.MethodPost)
	community.HandleFunc("/threads", ch.CreateThread).Methods(http.MethodPost)
	community.HandleFunc("/threads/{slug}/replies", ch.CreateReply).Methods(http.MethodPost)
	community.HandleFunc("/posts/{id}/remove", ch.RemoveContent(common.ContentPost)).Methods(http.MethodPost)
	community.HandleFunc("/comments/{id}/remove", ch.RemoveContent(common.ContentComment)).Methods(http.MethodPost)
	community.HandleFunc("/threads/{id}/remove", ch.RemoveContent(common.ContentThread)).Methods(http.MethodPost)
	community.HandleFunc("/replies/{id}/remove", ch.RemoveContent(common.ContentReply)).Methods(http.MethodPost)
	community.HandleFunc("/moderation/log", ch.ModerationLog).Methods(http.MethodGet)

	// codex: public reads
	cx := app.CodexHandler
	api.HandleFunc("/codex/domains", cx.ListDomains).Methods(http.MethodGet)
	api.HandleFunc("/codex/domains/{slug}", cx.DomainDetail).Methods(http.MethodGet)
	api.HandleFunc("/codex/assets", cx.ListAssets).Methods(http.MethodGet)
	api.HandleFunc("/codex/stories", cx.ListLoreEntries).Methods(http.MethodGet)
	api.HandleFunc("/codex/stories/{slug}", cx.LoreEntryDetail).Methods(http.MethodGet)
	api.HandleFunc("/codex/emblems", cx.ListArtifacts).Methods(http.MethodGet)
	api.HandleFunc("/codex/emblems/{slug}", cx.ArtifactDetail).Methods(http.MethodGet)
	api.HandleFunc("/codex/characters", cx.ListCharacters).Methods(http.MethodGet)
	api.HandleFunc("/codex/characters/{slug}", cx.CharacterDetail).Methods(http.MethodGet)
	api.HandleFunc("/codex/enemies", cx.ListEnemies).Methods(http.MethodGet)
	api.HandleFunc("/codex/enemies/{slug}", cx.EnemyDetail).Methods(http.MethodGet)
	api.HandleFunc("/codex/traps", cx.ListTraps).Methods(http.MethodGet)
	api.HandleFunc("/codex/guides", cx.ListGuides).Methods(http.MethodGet)
	api.HandleFunc("/codex/guides/{slug}", cx.GuideDetail).Methods(http.MethodGet)

	// codex: superuser mutations
	codexAdmin := api.PathPrefix("/codex").Subrouter()
	codexAdmin.Use(auth)
	codexAdmin.HandleFunc("/domains", cx.SaveDomain).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/domains/{id:[0-9]+}", cx.DeleteDomain).Methods(http.MethodDelete)
	codexAdmin.HandleFunc("/assets", cx.SaveAsset).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/assets/{id:[0-9]+}", cx.DeleteAsset).Methods(http.MethodDelete)
	codexAdmin.HandleFunc("/stories", cx.SaveLoreEntry).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/stories/{id:[0-9]+}", cx.DeleteLoreEntry).Methods(http.MethodDelete)
	codexAdmin.HandleFunc("/emblems", cx.SaveArtifact).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/emblems/{id:[0-9]+}", cx.DeleteArtifact).Methods(http.MethodDelete)
	codexAdmin.HandleFunc("/characters", cx.SaveCharacter).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/characters/{id:[0-9]+}", cx.DeleteCharacter).Methods(http.MethodDelete)
	codexAdmin.HandleFunc("/enemies", cx.SaveEnemy).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/enemies/{id:[0-9]+}", cx.DeleteEnemy).Methods(http.MethodDelete)
	codexAdmin.HandleFunc("/traps", cx.SaveTrap).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/traps/{id:[0-9]+}", cx.DeleteTrap).Methods(http.MethodDelete)
	codexAdmin.HandleFunc("/guides", cx.SaveGuide).Methods(http.MethodPost, http.MethodPut)
	codexAdmin.HandleFunc("/guides/{id:[0-9]+}", cx.DeleteGuide).Methods(http.MethodDelete)

	// news
	nh := app.NewsHandler
	api.HandleFunc("/news", nh.List).Methods(http.MethodGet)
	api.HandleFunc("/news/home", nh.Home).Methods(http.MethodGet)
	api.HandleFunc("/news/categories", nh.Categories).Methods(http.MethodGet)
	api.HandleFunc("/news/tags", nh.Tags).Methods(http.MethodGet)
	api.HandleFunc("/news/{slug}", nh.Detail).Methods(http.MethodGet)

	newsAdmin := api.PathPrefix("/news").Subrouter()
	newsAdmin.Use(auth)
	newsAdmin.HandleFunc("", nh.SaveArticle).Methods(http.MethodPost, http.MethodPut)
	newsAdmin.HandleFunc("/{id:[0-9]+}", nh.DeleteArticle).Methods(http.MethodDelete)

	// uploaded media
	mediaDir := app.Config.Site.MediaDir
	router.PathPrefix("/media/").Handler(
		http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir))))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return router
}
