package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Engine.IO v4 packet types
const (
	engineOpen    = '0'
	engineClose   = '1'
	enginePing    = '2'
	enginePong    = '3'
	engineMessage = '4'
)

// Socket.IO v5 packet types, carried inside engine message packets
const (
	socketConnect      = '0'
	socketDisconnect   = '1'
	socketEvent        = '2'
	socketConnectError = '4'
)

var errEmptyFrame = errors.New("empty frame")

// handshake is the payload of the engine open packet
type handshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

// frame is a decoded text frame. For socket packets Namespace defaults to
// "/" and Data holds the JSON remainder.
type frame struct {
	Engine    byte
	Socket    byte
	Namespace string
	AckID     string
	Data      string
}

// Event is a named push event with its JSON payload
type Event struct {
	Name    string
	Payload json.RawMessage
}

func decodeFrame(text string) (frame, error) {
	if text == "" {
		return frame{}, errEmptyFrame
	}
	f := frame{Engine: text[0], Namespace: "/"}
	rest := text[1:]
	if f.Engine != engineMessage {
		f.Data = rest
		return f, nil
	}
	if rest == "" {
		return frame{}, fmt.Errorf("message frame without socket packet")
	}
	f.Socket = rest[0]
	rest = rest[1:]

	if strings.HasPrefix(rest, "/") {
		i := strings.IndexByte(rest, ',')
		if i < 0 {
			f.Namespace = rest
			return f, nil
		}
		f.Namespace = rest[:i]
		rest = rest[i+1:]
	}

	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	f.AckID = rest[:i]
	f.Data = rest[i:]
	return f, nil
}

// decodeEvent reads ["name", payload, ...] from an event packet. Only the
// first argument is kept.
func decodeEvent(data string) (Event, error) {
	var args []json.RawMessage
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if len(args) == 0 {
		return Event{}, fmt.Errorf("event without name")
	}
	var ev Event
	if err := json.Unmarshal(args[0], &ev.Name); err != nil {
		return Event{}, fmt.Errorf("decode event name: %w", err)
	}
	if len(args) > 1 {
		ev.Payload = args[1]
	}
	return ev, nil
}

func encodeConnect(namespace string) string {
	if namespace == "" || namespace == "/" {
		return string([]byte{engineMessage, socketConnect})
	}
	return string([]byte{engineMessage, socketConnect}) + namespace + ","
}

func encodePong(data string) string {
	return string(enginePong) + data
}
