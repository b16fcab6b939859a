// File: server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/lguibr/duelpong/bollywood"
	"github.com/lguibr/duelpong/game"

	"golang.org/x/net/websocket"
)

const askTimeout = 2 * time.Second

// HandleSubscribe accepts a WebSocket connection for a player seat and hands
// it off to a ConnectionHandlerActor. The handler blocks until that actor
// finishes so the websocket package does not close the connection early.
// Players who want colored-ASCII frames instead of JSON state, like the
// terminal client, subscribe with `?mode=ascii`.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return s.handleConnection(false)
}

// HandleWatch accepts a WebSocket connection for a read-only spectator.
func (s *Server) HandleWatch() func(ws *websocket.Conn) {
	return s.handleConnection(true)
}

func (s *Server) handleConnection(watcher bool) func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		connectionAddr := ws.RemoteAddr().String()
		fmt.Printf("HandleConnection: New connection from %s (watcher=%t)\n", connectionAddr, watcher)

		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("PANIC recovered in HandleConnection for %s: %v\nStack trace:\n%s\n", connectionAddr, r, string(debug.Stack()))
			}
			_ = ws.Close()
		}()

		engine := s.GetEngine()
		roomManagerPID := s.GetRoomManagerPID()
		if engine == nil || roomManagerPID == nil {
			fmt.Printf("HandleConnection: Server engine or RoomManagerPID is nil. Closing connection %s.\n", connectionAddr)
			return
		}

		mode := game.ClientJSON
		if req := ws.Request(); req != nil && req.URL.Query().Get("mode") == "ascii" {
			mode = game.ClientASCII
		}

		done := make(chan struct{})
		producer := NewConnectionHandlerProducer(ConnectionHandlerArgs{
			Conn:           ws,
			Engine:         engine,
			RoomManagerPID: roomManagerPID,
			Watcher:        watcher,
			Mode:           mode,
			Done:           done,
		})

		handlerPID := engine.Spawn(bollywood.NewProps(producer))
		if handlerPID == nil {
			fmt.Printf("HandleConnection: Failed to spawn handler for %s.\n", connectionAddr)
			return
		}

		<-done
		fmt.Printf("HandleConnection: Handler finished for %s.\n", connectionAddr)
	}
}

// HandleRooms lists the active game rooms and their human occupancy.
func (s *Server) HandleRooms() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("PANIC recovered in HandleRooms: %v\nStack trace:\n%s\n", rec, string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		reply, err := s.engine.Ask(s.roomManagerPID, game.GetRoomListRequest{}, askTimeout)
		if err != nil {
			http.Error(w, "Room manager unavailable", http.StatusServiceUnavailable)
			return
		}

		list, ok := reply.(game.RoomListResponse)
		if !ok {
			http.Error(w, "Unexpected room manager reply", http.StatusInternalServerError)
			return
		}

		payload, err := json.Marshal(list)
		if err != nil {
			http.Error(w, "Error encoding room list", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(payload); err != nil {
			fmt.Println("Error writing room list:", err)
		}
	}
}

// HandleGetState serves the most recent state snapshot of the default room
// via plain HTTP GET.
func (s *Server) HandleGetState() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("PANIC recovered in HandleGetState: %v\nStack trace:\n%s\n", rec, string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		reply, err := s.engine.Ask(s.roomManagerPID, game.GetDefaultRoomRequest{}, askTimeout)
		if err != nil {
			http.Error(w, "Room manager unavailable", http.StatusServiceUnavailable)
			return
		}

		roomReply, ok := reply.(game.DefaultRoomResponse)
		if !ok || roomReply.RoomPID == nil {
			http.Error(w, "No default room", http.StatusNotFound)
			return
		}

		stateReply, err := s.engine.Ask(roomReply.RoomPID, game.GetStateRequest{}, askTimeout)
		if err != nil {
			http.Error(w, "Game room unavailable", http.StatusServiceUnavailable)
			return
		}

		stateJSON, ok := stateReply.([]byte)
		if !ok || len(stateJSON) == 0 {
			http.Error(w, "Game state not ready", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(stateJSON); err != nil {
			fmt.Println("Error writing HTTP game state:", err)
		}
	}
}
