package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lguibr/duelpong/bollywood"
	"github.com/lguibr/duelpong/game"
	"github.com/lguibr/duelpong/server"
	"github.com/lguibr/duelpong/utils"
	"golang.org/x/net/websocket"
)

func main() {
	cfg := utils.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	engine := bollywood.NewEngine()
	defer engine.Shutdown(5 * time.Second)

	roomManagerPID := engine.Spawn(bollywood.NewProps(game.NewRoomManagerProducer(engine, cfg)))
	if roomManagerPID == nil {
		panic("failed to spawn room manager actor")
	}
	fmt.Printf("Room manager started: %s\n", roomManagerPID.String())

	wsServer := server.New(engine, roomManagerPID)

	http.Handle("/subscribe", websocket.Handler(wsServer.HandleSubscribe()))
	http.Handle("/watch", websocket.Handler(wsServer.HandleWatch()))
	http.HandleFunc("/rooms", wsServer.HandleRooms())
	http.HandleFunc("/", wsServer.HandleGetState())

	fmt.Println("Listening on :3001")
	panic(http.ListenAndServe(":3001", nil))
}
