package rooms

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoomRoutes attaches the room directory to the authenticated
// router and the relay endpoints to the public one: the browser cannot set
// an Authorization header on a WebSocket upgrade.
func RegisterRoomRoutes(protected, public *mux.Router, handler *RoomHandler) {
	protected.HandleFunc("/rooms", handler.ListRooms).Methods(http.MethodGet)
	protected.HandleFunc("/rooms", handler.CreateRoom).Methods(http.MethodPost)
	protected.HandleFunc("/rooms/{roomID}", handler.GetRoom).Methods(http.MethodGet)
	protected.HandleFunc("/rooms/{roomID}/activity", handler.TouchActivity).Methods(http.MethodPatch)
	protected.HandleFunc("/rooms/{roomID}", handler.DeleteRoom).Methods(http.MethodDelete)

	public.HandleFunc("/ws/{roomID}", handler.ServeWS).Methods(http.MethodGet)
	public.HandleFunc("/get-elements/{roomID}", handler.GetElements).Methods(http.MethodGet)
}
