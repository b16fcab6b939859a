// File: server/server.go
package server

import (
	"github.com/lguibr/duelpong/bollywood"
)

// Server ties the HTTP/WebSocket surface to the actor system.
type Server struct {
	engine         *bollywood.Engine
	roomManagerPID *bollywood.PID
}

// New creates a Server wired to the given engine and room manager.
func New(engine *bollywood.Engine, roomManagerPID *bollywood.PID) *Server {
	return &Server{
		engine:         engine,
		roomManagerPID: roomManagerPID,
	}
}

func (s *Server) GetEngine() *bollywood.Engine      { return s.engine }
func (s *Server) GetRoomManagerPID() *bollywood.PID { return s.roomManagerPID }
