package outputs

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"

	sway "github.com/joshuarubin/go-sway"

	"github.com/matzehuels/rwpspread/pkg/errors"
	"github.com/matzehuels/rwpspread/pkg/monitor"
)

// i3-ipc message types for the output subscription. The sway client
// has no handler for output events, so Refresh frames these itself.
const (
	swaySubscribe uint32 = 2
	swayEventBit  uint32 = 1 << 31
)

var swayMagic = []byte("i3-ipc")

// Sway talks to sway over the i3 IPC protocol.
type Sway struct {
	socket string
}

// NewSway uses the IPC socket at path, usually $SWAYSOCK.
func NewSway(path string) *Sway {
	return &Sway{socket: path}
}

func (s *Sway) Name() string { return "sway" }

// Monitors sends GET_OUTPUTS. Sway reports rects in layout coordinates,
// so scale and rotation are already applied.
func (s *Sway) Monitors(ctx context.Context) ([]monitor.Monitor, error) {
	// The client closes its connection when ctx ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := sway.New(ctx, sway.WithSocketPath(s.socket))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "sway: connect")
	}
	outputs, err := client.GetOutputs(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackend, err, "sway: get outputs")
	}
	return fromSway(outputs), nil
}

func fromSway(outputs []sway.Output) []monitor.Monitor {
	out := make([]monitor.Monitor, 0, len(outputs))
	for _, o := range outputs {
		if !o.Active {
			continue
		}
		out = append(out, monitor.New(o.Name,
			int(o.Rect.X), int(o.Rect.Y), int(o.Rect.Width), int(o.Rect.Height)))
	}
	return out
}

// Refresh subscribes to output events and blocks until one arrives.
func (s *Sway) Refresh(ctx context.Context) (bool, error) {
	conn, err := dialUnix(ctx, s.socket)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeBackend, err, "sway: connect")
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := writeSway(conn, swaySubscribe, []byte(`["output"]`)); err != nil {
		return false, err
	}
	for {
		typ, payload, err := readSway(conn)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			return false, err
		}
		if typ == swaySubscribe {
			var reply struct {
				Success bool `json:"success"`
			}
			if err := json.Unmarshal(payload, &reply); err != nil || !reply.Success {
				return false, errors.New(errors.ErrCodeBackend, "sway: subscribe rejected: %s", payload)
			}
			continue
		}
		if typ&swayEventBit != 0 {
			return true, nil
		}
	}
}

func writeSway(conn net.Conn, typ uint32, payload []byte) error {
	msg := make([]byte, 0, len(swayMagic)+8+len(payload))
	msg = append(msg, swayMagic...)
	msg = binary.NativeEndian.AppendUint32(msg, uint32(len(payload)))
	msg = binary.NativeEndian.AppendUint32(msg, typ)
	msg = append(msg, payload...)
	if _, err := conn.Write(msg); err != nil {
		return errors.Wrap(errors.ErrCodeBackend, err, "sway: send")
	}
	return nil
}

func readSway(r io.Reader) (uint32, []byte, error) {
	header := make([]byte, len(swayMagic)+8)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, errors.Wrap(errors.ErrCodeBackend, err, "sway: read header")
	}
	if string(header[:len(swayMagic)]) != string(swayMagic) {
		return 0, nil, errors.New(errors.ErrCodeBackend, "sway: bad magic %q", header[:len(swayMagic)])
	}
	size := binary.NativeEndian.Uint32(header[len(swayMagic):])
	typ := binary.NativeEndian.Uint32(header[len(swayMagic)+4:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, errors.Wrap(errors.ErrCodeBackend, err, "sway: read payload")
	}
	return typ, payload, nil
}

func dialUnix(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}
