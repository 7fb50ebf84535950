package routes

import (
	"github.com/usdstake/backend/handlers"
	"github.com/usdstake/backend/middleware"
	ws "github.com/usdstake/backend/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notificationsGroup := api.Group("/notifications", middleware.Protected())
	notificationsGroup.Get("", handlers.ListMyNotifications)
	notificationsGroup.Put("/:notificationId/read", handlers.MarkNotificationRead)

	app.Use("/ws", middleware.Protected(), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/notifications", websocket.New(func(conn *websocket.Conn) {
		token := conn.Locals("user").(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		userID, err := uuid.Parse(claims["user_id"].(string))
		if err != nil {
			conn.Close()
			return
		}

		client := &ws.Client{UserID: userID, Conn: conn}
		ws.Register <- client
		defer func() {
			ws.Unregister <- client
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
