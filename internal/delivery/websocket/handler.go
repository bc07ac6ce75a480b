package websocket

import (
	"log"
	"net/http"
	"time"

	"signals-backend/internal/domain"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Handler streams the latest structure snapshots to connected terminals.
type Handler struct {
	snaps domain.SnapshotRepository
}

func NewHandler(snaps domain.SnapshotRepository) *Handler {
	return &Handler{
		snaps: snaps,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Println("New Client Connected")

	// Send initial data immediately
	if err := conn.WriteJSON(h.snaps.GetAll()); err != nil {
		log.Println("Write error:", err)
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(h.snaps.GetAll()); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}
