package feed

import (
	"context"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"slam_viewer/num"
)

// Publisher collects changes and sends them to a feed Server on Flush.
// It is not safe for concurrent use.
type Publisher[N num.Number] struct {
	conn  *websocket.Conn
	id    int
	batch Batch[N]
}

// Dial connects to a feed server, for example "ws://localhost:8080/".
func Dial[N num.Number](ctx context.Context, url string) (*Publisher[N], error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial feed")
	}
	_, message, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "read client id")
	}
	id, err := strconv.Atoi(string(message))
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "client id %q", message)
	}
	return &Publisher[N]{conn: conn, id: id}, nil
}

// ID is the client id the server assigned.
func (p *Publisher[N]) ID() int { return p.id }

func (p *Publisher[N]) InsertLandmark(id uint32, pos num.Point3[N]) {
	p.batch.InsertLandmarks = append(p.batch.InsertLandmarks, Insert[Landmark[N]]{ID: id, V: Landmark[N]{pos}})
}

func (p *Publisher[N]) UpdateLandmark(id uint32, pos num.Point3[N]) {
	p.batch.UpdateLandmarks = append(p.batch.UpdateLandmarks, Update[Landmark[N]]{ID: id, V: Landmark[N]{pos}})
}

func (p *Publisher[N]) RemoveLandmark(id uint32) {
	p.batch.RemoveLandmarks = append(p.batch.RemoveLandmarks, Remove[Landmark[N]]{ID: id})
}

func (p *Publisher[N]) InsertKeyFrame(id uint32, pose num.Pose[N]) {
	p.batch.InsertKeyFrames = append(p.batch.InsertKeyFrames, Insert[KeyFrame[N]]{ID: id, V: KeyFrame[N]{pose}})
}

func (p *Publisher[N]) UpdateKeyFrame(id uint32, pose num.Pose[N]) {
	p.batch.UpdateKeyFrames = append(p.batch.UpdateKeyFrames, Update[KeyFrame[N]]{ID: id, V: KeyFrame[N]{pose}})
}

func (p *Publisher[N]) RemoveKeyFrame(id uint32) {
	p.batch.RemoveKeyFrames = append(p.batch.RemoveKeyFrames, Remove[KeyFrame[N]]{ID: id})
}

// Flush sends the pending changes as one batch.
func (p *Publisher[N]) Flush() error {
	if p.batch.Empty() {
		return nil
	}
	msg, err := p.batch.Encode()
	if err != nil {
		return err
	}
	if err := p.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		return errors.Wrap(err, "send batch")
	}
	p.batch.Reset()
	return nil
}

// Close flushes and closes the connection.
func (p *Publisher[N]) Close() error {
	err := p.Flush()
	if werr := p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); werr != nil && err == nil {
		err = errors.Wrap(werr, "send close")
	}
	if cerr := p.conn.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "close feed")
	}
	return err
}
