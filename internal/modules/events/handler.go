package events

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"pipecrm/internal/pkg/jwt"
	"pipecrm/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub *Hub
	jwt *jwt.Service
}

func NewHandler(hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{hub: hub, jwt: jwtService}
}

// RegisterRoutes mounts the websocket endpoint. Browsers cannot set an
// Authorization header on the upgrade request, so the token rides in the
// query string.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/board", h.Subscribe)
}

func (h *Handler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}

	pipelineID, err := strconv.ParseInt(c.Query("pipeline_id"), 10, 64)
	if err != nil || pipelineID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid pipeline id")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("events: websocket upgrade failed user=%d err=%v", claims.UserID, err)
		return
	}

	h.hub.Register(conn, pipelineID)
	log.Printf("events: client connected user=%d pipeline=%d", claims.UserID, pipelineID)

	go h.pingLoop(conn)
	h.readLoop(conn, claims.UserID)
}

func (h *Handler) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := h.hub.SendPing(conn); err != nil {
			return
		}
	}
}

// readLoop drains client frames until the peer goes away. Clients never send
// commands; the read side only detects disconnects.
func (h *Handler) readLoop(conn *websocket.Conn, userID int64) {
	defer h.hub.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				log.Printf("events: websocket error user=%d err=%v", userID, err)
			}
			return
		}
	}
}
