package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/rishikeshvarma/NutriVision/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	RT *services.RealtimeHub
}

func NewRealtimeController(rt *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{RT: rt}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind a proxy if needed
}

// EventsWS streams change notifications and celebration events to the
// client so it can refetch the latest snapshot instead of polling.
func (rc *RealtimeController) EventsWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	rc.RT.Register(cl)

	// The ping goroutine and the read loop can both observe the connection
	// dying; teardown must run once.
	var teardown sync.Once
	leave := func() { teardown.Do(func() { rc.RT.Unregister(cl) }) }

	// ping to keep connections alive through some proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				leave()
				return
			}
		}
	}()

	// read loop ends on client close or error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			leave()
			return
		}
	}
}
