package api

import (
	"context"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

func listenRealtime(c *websocket.Conn) {
	actor, _ := c.Locals("actor").(*services.Actor)

	err := realtime.Serve(context.Background(), realtime.H, c, services.SnapshotSource{Actor: actor})
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Debug().Err(err).Msg("Realtime connection closed.")
	}
}
