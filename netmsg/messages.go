// Package netmsg defines the wire message shapes the rollback core's host
// is expected to send/receive, plus binary encode/decode helpers.
// The core itself never imports a transport — these are the shapes a
// transport adapter (see transport/wspeer for a reference one) packs and
// unpacks at the send/receive boundary.
package netmsg

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/nomadcore/rollback/fx"
	"github.com/nomadcore/rollback/input"
	"github.com/nomadcore/rollback/rollconst"
)

// InputHistorySize is how many frames of input history InputUpdate
// carries for redundancy against packet loss.
const InputHistorySize = rollconst.MaxRollbackFrames

// InputUpdate carries a window of input history for one player spot.
// Index 0 is Frame's input, index i is (Frame - i)'s input. Unreliable
// delivery is acceptable thanks to this redundant history window —
// lockstep mode is the one case that additionally requires reliable,
// ordered delivery.
type InputUpdate struct {
	Frame   input.Frame
	Spot    input.Spot
	History [InputHistorySize]input.CharacterInput
}

// TimeQualityReport is a timing/ping message used for clock drift
// management. Ping is an opaque host-chosen timestamp the core doesn't
// interpret.
type TimeQualityReport struct {
	Frame input.Frame
	Ping  uint64
}

// TimeQualityResponse echoes a TimeQualityReport's Ping back unchanged.
type TimeQualityResponse struct {
	Pong uint64
}

// ValidationChecksum carries a verified frame's checksum for desync
// detection. Requires reliable, ordered delivery.
type ValidationChecksum struct {
	Frame    input.Frame
	Checksum uint32
}

// PlayerSpotMapping carries the session's player roster: total player
// count plus a fixed-size array of opaque player identifiers (unused
// entries zeroed), sized to avoid dynamic allocation on the wire.
type PlayerSpotMapping struct {
	TotalPlayers uint8
	PlayerIDs    [input.MaxPlayers]uint64
}

// EncodeInputUpdate serializes msg with encoding/binary, LittleEndian.
func EncodeInputUpdate(msg InputUpdate) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, msg.Frame); err != nil {
		return nil, fmt.Errorf("netmsg: encode frame: %w", err)
	}
	if err := buf.WriteByte(byte(msg.Spot)); err != nil {
		return nil, fmt.Errorf("netmsg: encode spot: %w", err)
	}
	for i := range msg.History {
		if err := encodeCharacterInput(&buf, msg.History[i]); err != nil {
			return nil, fmt.Errorf("netmsg: encode history[%d]: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeInputUpdate deserializes bytes produced by EncodeInputUpdate.
func DecodeInputUpdate(data []byte) (InputUpdate, error) {
	var msg InputUpdate
	buf := bytes.NewReader(data)

	if err := binary.Read(buf, binary.LittleEndian, &msg.Frame); err != nil {
		return msg, fmt.Errorf("netmsg: decode frame: %w", err)
	}

	spotByte, err := buf.ReadByte()
	if err != nil {
		return msg, fmt.Errorf("netmsg: decode spot: %w", err)
	}
	msg.Spot = input.Spot(spotByte)

	for i := range msg.History {
		ci, err := decodeCharacterInput(buf)
		if err != nil {
			return msg, fmt.Errorf("netmsg: decode history[%d]: %w", i, err)
		}
		msg.History[i] = ci
	}

	return msg, nil
}

func encodeCharacterInput(buf *bytes.Buffer, ci input.CharacterInput) error {
	fields := []int64{
		ci.CamPosition.X.Raw(), ci.CamPosition.Y.Raw(), ci.CamPosition.Z.Raw(),
		ci.CamRotation.W.Raw(), ci.CamRotation.V.X.Raw(), ci.CamRotation.V.Y.Raw(), ci.CamRotation.V.Z.Raw(),
		ci.MoveForward.Raw(), ci.MoveRight.Raw(),
	}
	for _, f := range fields {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	if err := buf.WriteByte(byte(ci.UIChoice)); err != nil {
		return err
	}
	return binary.Write(buf, binary.LittleEndian, uint32(ci.Commands))
}

func decodeCharacterInput(r *bytes.Reader) (input.CharacterInput, error) {
	var ci input.CharacterInput
	raws := make([]int64, 9)
	for i := range raws {
		if err := binary.Read(r, binary.LittleEndian, &raws[i]); err != nil {
			return ci, err
		}
	}

	ci.CamPosition.X = fx.FromRaw(raws[0])
	ci.CamPosition.Y = fx.FromRaw(raws[1])
	ci.CamPosition.Z = fx.FromRaw(raws[2])
	ci.CamRotation.W = fx.FromRaw(raws[3])
	ci.CamRotation.V.X = fx.FromRaw(raws[4])
	ci.CamRotation.V.Y = fx.FromRaw(raws[5])
	ci.CamRotation.V.Z = fx.FromRaw(raws[6])
	ci.MoveForward = fx.FromRaw(raws[7])
	ci.MoveRight = fx.FromRaw(raws[8])

	uiChoice, err := r.ReadByte()
	if err != nil {
		return ci, err
	}
	ci.UIChoice = input.UIChoice(uiChoice)

	var commands uint32
	if err := binary.Read(r, binary.LittleEndian, &commands); err != nil {
		return ci, err
	}
	ci.Commands = input.CommandSet(commands)

	return ci, nil
}
