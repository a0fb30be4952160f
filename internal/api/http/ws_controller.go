package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/gatherly/internal/service"
	"github.com/immxrtalbeast/gatherly/internal/signaling"
	"github.com/immxrtalbeast/gatherly/lib/logger/sl"
)

type WSController struct {
	coordinator *signaling.Coordinator
	users       service.UserInteractor
	upgrader    websocket.Upgrader
	log         *slog.Logger
}

func NewWSController(coordinator *signaling.Coordinator, users service.UserInteractor, log *slog.Logger) *WSController {
	if log == nil {
		log = slog.Default()
	}
	return &WSController{
		coordinator: coordinator,
		users:       users,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// Connect upgrades an authenticated request to the realtime channel. Each
// connection gets one reader and one writer goroutine; the reader hands every
// frame to the coordinator and runs the disconnect path when the transport
// drops.
func (c *WSController) Connect(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	displayName := ctx.Query("name")
	if user, err := c.users.GetUser(ctx.Request.Context(), userID); err == nil {
		displayName = user.FullName
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.log.Error("failed to upgrade connection", sl.Err(err))
		return
	}

	client := signaling.NewClient(conn, userID, displayName)
	c.log.Info("client connected",
		"user_id", userID.String(),
		"client_id", client.ID(),
	)

	go client.WritePump()
	go client.ReadPump(
		func(raw []byte) {
			c.coordinator.HandleEvent(context.Background(), client, raw)
		},
		func() {
			c.coordinator.Disconnect(context.Background(), client)
			c.log.Info("client disconnected",
				"user_id", userID.String(),
				"client_id", client.ID(),
			)
		},
	)
}
