package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LiaoAnn/edgecalidraw/internal/api/auth"
	"github.com/LiaoAnn/edgecalidraw/internal/api/library"
	"github.com/LiaoAnn/edgecalidraw/internal/api/rooms"
	"github.com/LiaoAnn/edgecalidraw/internal/api/uploads"
	"github.com/LiaoAnn/edgecalidraw/internal/config"
	"github.com/LiaoAnn/edgecalidraw/internal/middleware"
	"github.com/LiaoAnn/edgecalidraw/internal/session"
	"github.com/LiaoAnn/edgecalidraw/internal/storage"
	"github.com/LiaoAnn/edgecalidraw/internal/storage/memory"
	"github.com/LiaoAnn/edgecalidraw/internal/storage/valkeystore"
	"github.com/LiaoAnn/edgecalidraw/internal/ws"
)

func main() {
	cfg := config.Load()

	var (
		roomStore    storage.RoomStore
		sceneStore   storage.SceneStore
		uploadStore  storage.UploadStore
		libraryStore storage.LibraryStore
	)
	if cfg.ValkeyAddr != "" {
		client, err := valkeystore.NewClient(cfg.ValkeyAddr)
		if err != nil {
			log.Fatalf("valkey: %v", err)
		}
		defer client.Close()
		roomStore = valkeystore.NewRoomStore(client)
		sceneStore = valkeystore.NewSceneStore(client)
		uploadStore = valkeystore.NewUploadStore(client)
		libraryStore = valkeystore.NewLibraryStore(client)
		log.Printf("[Main] Using Valkey storage at %s", cfg.ValkeyAddr)
	} else {
		roomStore = memory.NewRoomStore()
		sceneStore = memory.NewSceneStore()
		uploadStore = memory.NewUploadStore()
		libraryStore = memory.NewLibraryStore()
		log.Println("[Main] VALKEY_ADDR not set, using in-memory storage")
	}

	sessions := session.NewManager(cfg.TokenSecret)
	relay := ws.NewRegistry(sceneStore)

	roomHandler := &rooms.RoomHandler{Store: roomStore, Relay: relay}
	authHandler := &auth.AuthHandler{
		Sessions:     sessions,
		Password:     cfg.SystemPassword,
		PasswordHash: cfg.SystemPasswordHash,
	}
	uploadHandler := &uploads.UploadHandler{Store: uploadStore}
	libraryHandler := &library.LibraryHandler{Store: libraryStore}

	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(middleware.CORS(cfg.CORSOrigin)))

	public := r.PathPrefix("/api").Subrouter()
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(mux.MiddlewareFunc(middleware.RequireToken(sessions)))

	auth.RegisterAuthRoutes(public, authHandler)
	rooms.RegisterRoomRoutes(protected, public, roomHandler)
	uploads.RegisterUploadRoutes(protected, public, uploadHandler)
	library.RegisterLibraryRoutes(protected, libraryHandler)

	log.Printf("[Main] Server started at %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}
