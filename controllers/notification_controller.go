package controllers

import (
	"net/http"
	"time"

	"gin-inventory/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const streamPingInterval = 25 * time.Second

type INotificationController interface {
	Unread(ctx *gin.Context)
	FindAll(ctx *gin.Context)
	MarkRead(ctx *gin.Context)
	MarkAllRead(ctx *gin.Context)
	Stream(ctx *gin.Context)
}

type NotificationController struct {
	service  services.INotificationService
	hub      *services.RealtimeHub
	upgrader websocket.Upgrader
}

// allowedOrigins limits which browser origins may open the stream; empty
// allows any.
func NewNotificationController(service services.INotificationService, hub *services.RealtimeHub, allowedOrigins []string) INotificationController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &NotificationController{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(origins) == 0 || origins[origin]
			},
		},
	}
}

// Unread returns only the message texts, newest first.
func (c *NotificationController) Unread(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	messages, err := c.service.UnreadMessages(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": messages})
}

func (c *NotificationController) FindAll(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	notifications, err := c.service.FindAll(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	notificationID, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.MarkRead(ctx.Request.Context(), notificationID, user.ID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	updated, err := c.service.MarkAllRead(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": updated}})
}

// Stream upgrades to a websocket and keeps it registered on the hub until
// the client goes away.
func (c *NotificationController) Stream(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zerolog.Ctx(ctx.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := services.NewWSClient(user.ID, conn)
	c.hub.Register(client)
	defer c.hub.Unregister(client)

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(streamPingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := client.Write(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// 読み取りエラー（切断）までブロックする
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
