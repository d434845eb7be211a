package ws

import (
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

// Authorizer resolves an access token to an admin id.
type Authorizer interface {
	Authorize(token string) (int64, error)
}

type HandlerOptions struct {
	// AllowedOrigins lists the dashboard origins allowed to connect. Empty or
	// "*" allows any origin.
	AllowedOrigins []string
}

// Handler serves the admin event feed. Browsers cannot set headers on a
// websocket handshake, so the token may also arrive as ?token=.
type Handler struct {
	hub      *Hub
	auth     Authorizer
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func NewHandler(hub *Hub, auth Authorizer, opts HandlerOptions, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	origins := opts.AllowedOrigins
	return &Handler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleAdminWS authenticates the admin, upgrades the connection and
// subscribes it to run events.
func (h *Handler) HandleAdminWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.auth == nil {
		return fiber.ErrServiceUnavailable
	}

	token := requestToken(c.Get(fiber.HeaderAuthorization), c.Query("token"))
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	adminID, err := h.auth.Authorize(token)
	if err != nil {
		h.logger.Printf("ws_admin status=rejected reason=invalid_token err=%v", err)
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	if !strings.EqualFold(strings.TrimSpace(c.Get(fiber.HeaderUpgrade)), "websocket") {
		return fiber.NewError(fiber.StatusUpgradeRequired, "Websocket upgrade required")
	}

	upgrade := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("ws_admin admin_id=%d status=error step=upgrade err=%v", adminID, err)
			return
		}

		client := NewClient(h.hub, conn)
		h.hub.Register(client)
		h.logger.Printf("ws_admin admin_id=%d status=connected", adminID)
		go client.WritePump()
		go client.ReadPump()
	})

	return upgrade(c)
}

func requestToken(authHeader, query string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if tok := strings.TrimSpace(parts[1]); tok != "" {
			return tok
		}
	}
	return strings.TrimSpace(query)
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" || len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "*" || strings.EqualFold(strings.TrimRight(a, "/"), strings.TrimRight(origin, "/")) {
			return true
		}
	}
	return false
}
