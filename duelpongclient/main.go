package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/lguibr/asciiring/helpers"
	"golang.org/x/net/websocket"
	"golang.org/x/sys/unix"
)

type KeyMessage struct {
	Key     string `json:"key"`
	Pressed bool   `json:"pressed"`
}

func setRawMode(fileDescriptor uintptr) (*unix.Termios, error) {
	terminalSettings, err := unix.IoctlGetTermios(int(fileDescriptor), unix.TCGETS)
	if err != nil {
		return nil, err
	}
	savedTerminalSettings := *terminalSettings
	terminalSettings.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	terminalSettings.Oflag &^= unix.OPOST
	terminalSettings.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	terminalSettings.Cflag &^= unix.CSIZE | unix.PARENB
	terminalSettings.Cflag |= unix.CS8
	terminalSettings.Oflag |= unix.ONLCR

	if err := unix.IoctlSetTermios(int(fileDescriptor), unix.TCSETS, terminalSettings); err != nil {
		return nil, err
	}
	return &savedTerminalSettings, nil
}

func sendKeys(websocketConnection *websocket.Conn, messages []KeyMessage) error {
	for _, keyMessage := range messages {
		jsonMessage, err := json.Marshal(keyMessage)
		if err != nil {
			return err
		}
		if _, err := websocketConnection.Write(jsonMessage); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// Subscribing in ascii mode takes a seat and streams colored frames, so
	// the terminal can both render the match and play it.
	websocketConnection, err := websocket.Dial("ws://localhost:3001/subscribe?mode=ascii", "", "http://localhost/")
	if err != nil {
		fmt.Println("Error connecting to server:", err)
		return
	}
	defer websocketConnection.Close()

	go func() {
		helpers.ClearScreen()

		for {
			message := make([]byte, 0)
			buffer := make([]byte, 64)
			for {
				size, err := websocketConnection.Read(buffer)
				if err != nil {
					fmt.Println("Error reading from server:", err)
					return
				}
				message = append(message, buffer[:size]...)
				if size < len(buffer) {
					break
				}
			}
			fmt.Print(string(message))
		}
	}()

	savedTerminalSettings, err := setRawMode(os.Stdin.Fd())
	if err != nil {
		fmt.Println("Error setting raw mode:", err)
		return
	}
	defer unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings)

	interruptSignalChannel := make(chan os.Signal, 1)
	signal.Notify(interruptSignalChannel, os.Interrupt)
	go func() {
		<-interruptSignalChannel
		unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings)
		os.Exit(0)
	}()

	// The terminal only reports presses, never releases, so each keystroke
	// releases the opposite direction before pressing the wanted one.
	for {
		singleByteBuffer := make([]byte, 1)
		os.Stdin.Read(singleByteBuffer)
		var messages []KeyMessage
		switch singleByteBuffer[0] {
		case 'w', 'W':
			messages = []KeyMessage{
				{Key: "down", Pressed: false},
				{Key: "up", Pressed: true},
			}
		case 's', 'S':
			messages = []KeyMessage{
				{Key: "up", Pressed: false},
				{Key: "down", Pressed: true},
			}
		case 'q', 'Q', 'c', 'C':
			fmt.Println("Quitting game")
			unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TCSETS, savedTerminalSettings)
			os.Exit(0)
		default:
			messages = []KeyMessage{
				{Key: "up", Pressed: false},
				{Key: "down", Pressed: false},
			}
		}

		if err := sendKeys(websocketConnection, messages); err != nil {
			fmt.Println("Error sending to server:", err)
			return
		}
	}
}
