package canio

import (
	"fmt"
	"math"

	"go.einride.tech/can"
)

// EncodeFrame packs values (missing signals fall back to their Default)
// into a frame's raw payload bytes, returning the frame id alongside.
func (m *Map) EncodeFrame(frameName string, values map[string]float64) ([]byte, uint32, error) {
	fd, err := m.FrameByName(frameName)
	if err != nil {
		return nil, 0, err
	}
	if fd.DLC <= 0 || fd.DLC > 8 {
		return nil, 0, fmt.Errorf("canio: frame %s has invalid DLC %d", fd.Name, fd.DLC)
	}

	var payload uint64
	for _, s := range fd.Signals {
		v, ok := values[s.Name]
		if !ok {
			v = s.Default
		}
		v = s.clampPhysical(v)

		raw := int64(math.Round((v - s.Offset) / s.Factor))
		raw = s.clampRaw(raw)

		payload = s.packBits(payload, s.encodeRaw(raw))
	}

	out := make([]byte, fd.DLC)
	for i := 0; i < fd.DLC; i++ {
		out[i] = byte((payload >> (8 * i)) & 0xFF)
	}
	return out, fd.ID, nil
}

// EncodeEinrideFrame is EncodeFrame followed by packing into a go.einride.tech/can
// Frame, ready to transmit over SocketCAN.
func (m *Map) EncodeEinrideFrame(frameName string, values map[string]float64) (can.Frame, error) {
	payload, id, err := m.EncodeFrame(frameName, values)
	if err != nil {
		return can.Frame{}, err
	}
	var f can.Frame
	f.ID = id
	f.Length = uint8(len(payload))
	copy(f.Data[:], payload)
	return f, nil
}

// DecodeFrame unpacks a frame's raw payload into physical signal values.
func (m *Map) DecodeFrame(frameID uint32, data []byte) (map[string]float64, error) {
	fd, err := m.FrameByID(frameID)
	if err != nil {
		return nil, err
	}
	if len(data) < fd.DLC {
		return nil, fmt.Errorf("canio: frame 0x%X expects DLC %d, got %d", frameID, fd.DLC, len(data))
	}

	var payload uint64
	for i := 0; i < fd.DLC && i < 8; i++ {
		payload |= uint64(data[i]) << (8 * i)
	}

	out := make(map[string]float64, len(fd.Signals))
	for _, s := range fd.Signals {
		raw := s.rawValue(payload)
		out[s.Name] = float64(raw)*s.Factor + s.Offset
	}
	return out, nil
}

// DecodeEinrideFrame is DecodeFrame applied to a received go.einride.tech/can
// Frame.
func (m *Map) DecodeEinrideFrame(f can.Frame) (map[string]float64, error) {
	return m.DecodeFrame(uint32(f.ID), f.Data[:f.Length])
}
