// File: game/room_manager.go
package game

import (
	"fmt"
	"runtime/debug"

	"github.com/lguibr/duelpong/bollywood"
	"github.com/lguibr/duelpong/utils"
)

// maxRooms bounds the number of concurrent matches.
const maxRooms = 50

// RoomInfo tracks one active match room.
type RoomInfo struct {
	PID    *bollywood.PID
	Humans int
}

// RoomManagerActor manages the GameActor rooms: new players go to a room
// with a free seat, watchers to the fullest one. The first room is the
// standing demo room and survives emptying out; extra rooms are stopped
// when their last human leaves.
type RoomManagerActor struct {
	engine      *bollywood.Engine
	cfg         utils.Config
	rooms       map[string]*RoomInfo
	defaultRoom *bollywood.PID
	selfPID     *bollywood.PID
}

// NewRoomManagerProducer creates a producer for the RoomManagerActor.
func NewRoomManagerProducer(engine *bollywood.Engine, cfg utils.Config) bollywood.Producer {
	return func() bollywood.Actor {
		return &RoomManagerActor{
			engine: engine,
			cfg:    cfg,
			rooms:  make(map[string]*RoomInfo),
		}
	}
}

// Receive handles messages for the RoomManagerActor.
func (a *RoomManagerActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in RoomManagerActor %s Receive: %v\nStack trace:\n%s\n", a.selfPID, r, string(debug.Stack()))
			if ctx.RequestID() != "" {
				ctx.Reply(fmt.Errorf("room manager panicked: %v", r))
			}
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		// The standing demo room exists from the start so /watch always has
		// a running match to show.
		a.defaultRoom = a.spawnRoom()

	case FindRoomRequest:
		roomPID := a.assignRoom(msg.Watcher)
		if msg.ReplyTo != nil {
			a.engine.Send(msg.ReplyTo, AssignRoomResponse{RoomPID: roomPID, Watcher: msg.Watcher}, a.selfPID)
		}

	case RoomOccupancyUpdate:
		if msg.RoomPID != nil {
			if info, ok := a.rooms[msg.RoomPID.String()]; ok {
				info.Humans = msg.Humans
			}
		}

	case GameRoomEmpty:
		a.handleRoomEmpty(msg.RoomPID)

	case GetRoomListRequest:
		list := make(map[string]int, len(a.rooms))
		for id, info := range a.rooms {
			list[id] = info.Humans
		}
		ctx.Reply(RoomListResponse{Rooms: list})

	case GetDefaultRoomRequest:
		ctx.Reply(DefaultRoomResponse{RoomPID: a.defaultRoom})

	case bollywood.Stopping:
		for _, info := range a.rooms {
			a.engine.Stop(info.PID)
		}
		a.rooms = make(map[string]*RoomInfo)

	case bollywood.Stopped:

	default:
		fmt.Printf("RoomManagerActor %s: unknown message type: %T\n", a.selfPID, msg)
	}
}

// assignRoom picks a room for a new connection: watchers get the busiest
// room, players the first room with a free seat, spawning a new room when
// every seat in every room is taken.
func (a *RoomManagerActor) assignRoom(watcher bool) *bollywood.PID {
	if watcher {
		best := a.defaultRoom
		bestHumans := -1
		for _, info := range a.rooms {
			if info.Humans > bestHumans {
				best = info.PID
				bestHumans = info.Humans
			}
		}
		return best
	}

	for _, info := range a.rooms {
		if info.Humans < 2 {
			return info.PID
		}
	}

	if len(a.rooms) >= maxRooms {
		fmt.Printf("RoomManagerActor %s: room limit (%d) reached, rejecting player\n", a.selfPID, maxRooms)
		return nil
	}
	return a.spawnRoom()
}

func (a *RoomManagerActor) spawnRoom() *bollywood.PID {
	producer, err := NewGameActorProducer(a.engine, a.cfg, a.selfPID)
	if err != nil {
		fmt.Printf("RoomManagerActor %s: cannot create room: %v\n", a.selfPID, err)
		return nil
	}
	pid := a.engine.Spawn(bollywood.NewProps(producer))
	if pid == nil {
		return nil
	}
	a.rooms[pid.String()] = &RoomInfo{PID: pid}
	fmt.Printf("RoomManagerActor %s: spawned room %s (%d active)\n", a.selfPID, pid, len(a.rooms))
	return pid
}

// handleRoomEmpty stops an emptied room unless it is the standing demo room,
// which keeps running its idle match.
func (a *RoomManagerActor) handleRoomEmpty(roomPID *bollywood.PID) {
	if roomPID == nil {
		return
	}
	if a.defaultRoom != nil && roomPID.ID == a.defaultRoom.ID {
		return
	}
	if info, ok := a.rooms[roomPID.String()]; ok {
		delete(a.rooms, roomPID.String())
		a.engine.Stop(info.PID)
		fmt.Printf("RoomManagerActor %s: stopped empty room %s (%d active)\n", a.selfPID, roomPID, len(a.rooms))
	}
}
