// Package feed streams a live map from a SLAM process to the viewer over a
// websocket. The publisher sends batches of landmark and keyframe changes;
// the server applies them to a World the viewer draws from.
package feed

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"hash/fnv"
	"reflect"

	"github.com/pkg/errors"

	"slam_viewer/num"
)

// Landmark is a mapped point as sent over the wire.
type Landmark[N num.Number] struct {
	Position num.Point3[N]
}

func (l Landmark[N]) PointWorld() num.Point3[N] { return l.Position }

// KeyFrame is a camera pose as sent over the wire.
type KeyFrame[N num.Number] struct {
	Transform num.Pose[N]
}

func (k KeyFrame[N]) Pose() num.Pose[N] { return k.Transform }

type OpCode uint8

const (
	OpInsert OpCode = iota
	OpUpdate
	OpRemove
)

func (o OpCode) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// Op is one change to a value of type T identified by the host's ID.
type Op interface {
	Kind() uint32
	Code() OpCode
}

type Insert[T any] struct {
	ID uint32
	V  T
}

func (Insert[T]) Kind() uint32 { return KindOf[T]() }
func (Insert[T]) Code() OpCode { return OpInsert }

type Update[T any] struct {
	ID uint32
	V  T
}

func (Update[T]) Kind() uint32 { return KindOf[T]() }
func (Update[T]) Code() OpCode { return OpUpdate }

type Remove[T any] struct {
	ID uint32
}

func (Remove[T]) Kind() uint32 { return KindOf[T]() }
func (Remove[T]) Code() OpCode { return OpRemove }

// KindOf identifies T on the wire.
func KindOf[T any]() uint32 {
	return Hash(reflect.TypeOf((*T)(nil)).Elem().String())
}

func Hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Submessage is the header in front of each gob encoded run of ops.
type Submessage struct {
	Kind     uint32
	Op       OpCode
	NumBytes uint32
}

const headerSize = 9

func (s Submessage) append(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, s.Kind)
	b = append(b, byte(s.Op))
	return binary.BigEndian.AppendUint32(b, s.NumBytes)
}

// ReadSubmessage parses the header at the front of b.
func ReadSubmessage(b []byte) (Submessage, error) {
	if len(b) < headerSize {
		return Submessage{}, errors.Errorf("short submessage header: %d bytes", len(b))
	}
	s := Submessage{
		Kind:     binary.BigEndian.Uint32(b[0:4]),
		Op:       OpCode(b[4]),
		NumBytes: binary.BigEndian.Uint32(b[5:9]),
	}
	if int(s.NumBytes) > len(b)-headerSize {
		return s, errors.Errorf("submessage claims %d bytes, %d left", s.NumBytes, len(b)-headerSize)
	}
	return s, nil
}

// EncodeSubmessage frames v. Empty runs encode to a bare header.
func EncodeSubmessage[T Op](v []T) ([]byte, error) {
	var payload []byte
	if len(v) > 0 {
		var b bytes.Buffer
		if err := gob.NewEncoder(&b).Encode(v); err != nil {
			return nil, errors.Wrap(err, "encode submessage")
		}
		payload = b.Bytes()
	}
	var a T
	s := Submessage{Kind: a.Kind(), Op: a.Code(), NumBytes: uint32(len(payload))}
	return append(s.append(make([]byte, 0, headerSize+len(payload))), payload...), nil
}

// DecodeSubmessage reads one run of ops from the front of b and reports
// how many bytes it used.
func DecodeSubmessage[T Op](b []byte) ([]T, int, error) {
	s, err := ReadSubmessage(b)
	if err != nil {
		return nil, 0, err
	}
	var a T
	if s.Kind != a.Kind() || s.Op != a.Code() {
		return nil, 0, errors.Errorf("submessage is %08x/%s, want %08x/%s", s.Kind, s.Op, a.Kind(), a.Code())
	}
	n := headerSize + int(s.NumBytes)
	if s.NumBytes == 0 {
		return nil, n, nil
	}
	var v []T
	if err := gob.NewDecoder(bytes.NewReader(b[headerSize:n])).Decode(&v); err != nil {
		return nil, 0, errors.Wrap(err, "decode submessage")
	}
	return v, n, nil
}

// Batch is one message worth of changes. Inserts apply before updates,
// updates before removes, landmarks before keyframes.
type Batch[N num.Number] struct {
	InsertLandmarks []Insert[Landmark[N]]
	UpdateLandmarks []Update[Landmark[N]]
	RemoveLandmarks []Remove[Landmark[N]]

	InsertKeyFrames []Insert[KeyFrame[N]]
	UpdateKeyFrames []Update[KeyFrame[N]]
	RemoveKeyFrames []Remove[KeyFrame[N]]
}

func (b *Batch[N]) Empty() bool {
	return len(b.InsertLandmarks)+len(b.UpdateLandmarks)+len(b.RemoveLandmarks)+
		len(b.InsertKeyFrames)+len(b.UpdateKeyFrames)+len(b.RemoveKeyFrames) == 0
}

func (b *Batch[N]) Reset() { *b = Batch[N]{} }

// Encode frames every non-empty run of the batch.
func (b *Batch[N]) Encode() ([]byte, error) {
	var out []byte
	add := func(sub []byte, err error) error {
		if err != nil {
			return err
		}
		out = append(out, sub...)
		return nil
	}
	var err error
	if len(b.InsertLandmarks) > 0 {
		err = add(EncodeSubmessage(b.InsertLandmarks))
	}
	if err == nil && len(b.UpdateLandmarks) > 0 {
		err = add(EncodeSubmessage(b.UpdateLandmarks))
	}
	if err == nil && len(b.RemoveLandmarks) > 0 {
		err = add(EncodeSubmessage(b.RemoveLandmarks))
	}
	if err == nil && len(b.InsertKeyFrames) > 0 {
		err = add(EncodeSubmessage(b.InsertKeyFrames))
	}
	if err == nil && len(b.UpdateKeyFrames) > 0 {
		err = add(EncodeSubmessage(b.UpdateKeyFrames))
	}
	if err == nil && len(b.RemoveKeyFrames) > 0 {
		err = add(EncodeSubmessage(b.RemoveKeyFrames))
	}
	return out, err
}

// DecodeBatch parses a message produced by Encode.
func DecodeBatch[N num.Number](msg []byte) (Batch[N], error) {
	var b Batch[N]
	for len(msg) > 0 {
		s, err := ReadSubmessage(msg)
		if err != nil {
			return b, err
		}
		var n int
		switch {
		case s.Kind == KindOf[Landmark[N]]() && s.Op == OpInsert:
			b.InsertLandmarks, n, err = appendDecoded(b.InsertLandmarks, msg)
		case s.Kind == KindOf[Landmark[N]]() && s.Op == OpUpdate:
			b.UpdateLandmarks, n, err = appendDecoded(b.UpdateLandmarks, msg)
		case s.Kind == KindOf[Landmark[N]]() && s.Op == OpRemove:
			b.RemoveLandmarks, n, err = appendDecoded(b.RemoveLandmarks, msg)
		case s.Kind == KindOf[KeyFrame[N]]() && s.Op == OpInsert:
			b.InsertKeyFrames, n, err = appendDecoded(b.InsertKeyFrames, msg)
		case s.Kind == KindOf[KeyFrame[N]]() && s.Op == OpUpdate:
			b.UpdateKeyFrames, n, err = appendDecoded(b.UpdateKeyFrames, msg)
		case s.Kind == KindOf[KeyFrame[N]]() && s.Op == OpRemove:
			b.RemoveKeyFrames, n, err = appendDecoded(b.RemoveKeyFrames, msg)
		default:
			return b, errors.Errorf("unknown submessage %08x/%s", s.Kind, s.Op)
		}
		if err != nil {
			return b, err
		}
		msg = msg[n:]
	}
	return b, nil
}

func appendDecoded[T Op](dst []T, msg []byte) ([]T, int, error) {
	v, n, err := DecodeSubmessage[T](msg)
	return append(dst, v...), n, err
}
