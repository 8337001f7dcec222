package natives

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"rslox/internal/value"
)

// wsHandles mirrors dbHandles for WebSocket client connections, grounded on
// the teacher's internal/network/websocket.go client wrapper.
var (
	wsMu      sync.Mutex
	wsHandles = map[int64]*websocket.Conn{}
	wsNext    int64
)

func nativeWSDial(args []value.Value) (value.Value, error) {
	url, err := wantString(args[0], "wsDial()")
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	wsMu.Lock()
	wsNext++
	handle := wsNext
	wsHandles[handle] = conn
	wsMu.Unlock()

	return value.Number(handle), nil
}

func nativeWSSend(args []value.Value) (value.Value, error) {
	handle, err := wantNumber(args[0], "wsSend()")
	if err != nil {
		return nil, err
	}
	msg, err := wantString(args[1], "wsSend()")
	if err != nil {
		return nil, err
	}
	conn, ok := lookupWS(handle)
	if !ok {
		return nil, fmt.Errorf("wsSend(): no open connection for handle %v", handle)
	}
	return value.None, conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

func nativeWSRecv(args []value.Value) (value.Value, error) {
	handle, err := wantNumber(args[0], "wsRecv()")
	if err != nil {
		return nil, err
	}
	conn, ok := lookupWS(handle)
	if !ok {
		return nil, fmt.Errorf("wsRecv(): no open connection for handle %v", handle)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return value.String(data), nil
}

func nativeWSClose(args []value.Value) (value.Value, error) {
	handle, err := wantNumber(args[0], "wsClose()")
	if err != nil {
		return nil, err
	}
	wsMu.Lock()
	conn, ok := wsHandles[int64(handle)]
	delete(wsHandles, int64(handle))
	wsMu.Unlock()
	if !ok {
		return value.None, nil
	}
	return value.None, conn.Close()
}

func lookupWS(handle float64) (*websocket.Conn, bool) {
	wsMu.Lock()
	defer wsMu.Unlock()
	conn, ok := wsHandles[int64(handle)]
	return conn, ok
}
