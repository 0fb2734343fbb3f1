package gorelay

import (
	"net/http"

	"github.com/gobwas/ws"
	"github.com/google/uuid"
)

type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// HandleSocket upgrades the request to a WebSocket, assigns the connection
// a fresh opaque identity and attaches it to the hub. The identity lives
// from here until the transport closes.
func (rly *Relay) HandleSocket(onError ErrorHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			onError(w, r, err)
			return
		}
		id := uuid.NewString()
		rly.Slogger.Info("new socket connection", "conn", id, "remote", r.RemoteAddr)

		ss := NewSocketSession(conn, id, rly, SessionOptions{
			SendBuffer:   rly.cfg.SendBuffer,
			PingInterval: rly.cfg.PingInterval,
			Slogger:      rly.Slogger,
		})
		rly.Hub.Attach(ss)
		rly.Router.HandleConnect(id)
	}
}
