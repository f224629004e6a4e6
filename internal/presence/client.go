package presence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cadence/internal/logging"
)

// Discord IPC opcodes.
const (
	opHandshake uint32 = 0
	opFrame     uint32 = 1
	opClose     uint32 = 2
)

// maxSocketIndex is the highest discord-ipc-N socket probed during discovery.
const maxSocketIndex = 9

// maxFramePayload caps the length field of an incoming frame. Real responses
// are a few hundred bytes; anything larger means a corrupt or hostile peer.
const maxFramePayload = 64 << 10

const dialTimeout = 2 * time.Second

// ErrNoSocket means no Discord client socket was found. Retryable: the user
// may simply not have started Discord yet.
var ErrNoSocket = errors.New("no discord ipc socket found")

// Client speaks the Discord rich-presence IPC protocol over a unix socket.
// Frames are a little-endian uint32 opcode, a little-endian uint32 payload
// length, and a JSON payload.
type Client struct {
	conn     net.Conn
	clientID string
	logger   *slog.Logger
}

// Dial discovers the local Discord socket, connects, and performs the
// protocol handshake for clientID.
func Dial(clientID string, logger *slog.Logger) (*Client, error) {
	logger = logging.NewComponentLogger(logger, "discord-ipc")

	path, err := discoverSocket()
	if err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}

	c := &Client{conn: conn, clientID: clientID, logger: logger}
	if err := c.handshake(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Debug("connected to discord", logging.String("socket", path))
	return c, nil
}

// discoverSocket probes the conventional socket locations, lowest index
// first.
func discoverSocket() (string, error) {
	for _, dir := range socketDirs() {
		for i := 0; i <= maxSocketIndex; i++ {
			path := filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i))
			if info, err := os.Stat(path); err == nil && info.Mode()&os.ModeSocket != 0 {
				return path, nil
			}
		}
	}
	return "", ErrNoSocket
}

func socketDirs() []string {
	var dirs []string
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir := os.Getenv(env); dir != "" {
			dirs = append(dirs, dir)
			// Sandboxed Discord builds place the socket under an app
			// subdirectory of the runtime dir.
			dirs = append(dirs,
				filepath.Join(dir, "app", "com.discordapp.Discord"),
				filepath.Join(dir, "snap.discord"))
		}
	}
	return append(dirs, "/tmp")
}

type handshakeRequest struct {
	Version  int    `json:"v"`
	ClientID string `json:"client_id"`
}

type commandFrame struct {
	Cmd   string       `json:"cmd"`
	Args  *commandArgs `json:"args,omitempty"`
	Nonce string       `json:"nonce,omitempty"`
}

type commandArgs struct {
	PID      int           `json:"pid"`
	Activity *wireActivity `json:"activity"`
}

type responseFrame struct {
	Cmd   string `json:"cmd"`
	Event string `json:"evt"`
	Data  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"data"`
}

type wireActivity struct {
	Details    string          `json:"details,omitempty"`
	State      string          `json:"state,omitempty"`
	Timestamps *wireTimestamps `json:"timestamps,omitempty"`
	Assets     *wireAssets     `json:"assets,omitempty"`
	Buttons    []wireButton    `json:"buttons,omitempty"`
}

type wireTimestamps struct {
	Start int64 `json:"start,omitempty"`
}

type wireAssets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type wireButton struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

func (c *Client) handshake() error {
	if err := c.writeFrame(opHandshake, handshakeRequest{Version: 1, ClientID: c.clientID}); err != nil {
		return fmt.Errorf("handshake write: %w", err)
	}

	op, payload, err := c.readFrame()
	if err != nil {
		return fmt.Errorf("handshake read: %w", err)
	}
	if op == opClose {
		return fmt.Errorf("discord rejected handshake: %s", payload)
	}

	var resp responseFrame
	if err := json.Unmarshal(payload, &resp); err != nil {
		return fmt.Errorf("handshake response: %w", err)
	}
	if resp.Event == "ERROR" {
		return fmt.Errorf("discord handshake error %d: %s", resp.Data.Code, resp.Data.Message)
	}
	return nil
}

// SetActivity publishes activity as the user's current presence.
func (c *Client) SetActivity(activity Activity) error {
	return c.sendActivity(&wireActivity{
		Details: activity.Details,
		State:   activity.State,
		Timestamps: &wireTimestamps{
			Start: activity.Start.Unix(),
		},
		Assets: &wireAssets{
			LargeImage: activity.LargeImage,
			LargeText:  activity.LargeText,
			SmallImage: activity.SmallImage,
			SmallText:  activity.SmallText,
		},
		Buttons: []wireButton{{Label: activity.Button.Label, URL: activity.Button.URL}},
	})
}

// ClearActivity removes the published presence. A nil activity in the command
// frame tells Discord to drop the status entirely.
func (c *Client) ClearActivity() error {
	return c.sendActivity(nil)
}

func (c *Client) sendActivity(activity *wireActivity) error {
	frame := commandFrame{
		Cmd:   "SET_ACTIVITY",
		Args:  &commandArgs{PID: os.Getpid(), Activity: activity},
		Nonce: uuid.NewString(),
	}

	if err := c.writeFrame(opFrame, frame); err != nil {
		return fmt.Errorf("set activity write: %w", err)
	}

	op, payload, err := c.readFrame()
	if err != nil {
		return fmt.Errorf("set activity read: %w", err)
	}
	if op == opClose {
		return fmt.Errorf("discord closed connection: %s", payload)
	}

	var resp responseFrame
	if err := json.Unmarshal(payload, &resp); err != nil {
		return fmt.Errorf("set activity response: %w", err)
	}
	if resp.Event == "ERROR" {
		return fmt.Errorf("discord error %d: %s", resp.Data.Code, resp.Data.Message)
	}
	return nil
}

// Close tears down the connection. Best-effort; safe to call on a client
// whose connection already failed.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	_ = c.writeFrame(opClose, struct{}{})
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) writeFrame(op uint32, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	buf := make([]byte, 8+len(data))
	binary.LittleEndian.PutUint32(buf[0:4], op)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(data)))
	copy(buf[8:], data)

	if _, err := c.conn.Write(buf); err != nil {
		return err
	}
	return nil
}

func (c *Client) readFrame() (uint32, []byte, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		return 0, nil, err
	}

	op := binary.LittleEndian.Uint32(header[0:4])
	length := binary.LittleEndian.Uint32(header[4:8])
	if length > maxFramePayload {
		return 0, nil, fmt.Errorf("frame payload of %d bytes exceeds %d byte limit", length, maxFramePayload)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return 0, nil, err
	}
	return op, payload, nil
}
