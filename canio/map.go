// Package canio adapts the follower's PoseProvider/CommandSink collaborators
// onto a SocketCAN bus, using a DBC-like signal table to pack and unpack
// frames: a VEHICLE_POSE_1 frame carrying the localization estimate, and an
// ACTUATOR_CMD_1 frame carrying the steer/velocity command.
package canio

import "sort"

// SignalDef describes one physical signal packed into a frame's payload.
type SignalDef struct {
	Name      string
	StartBit  int
	BitLength int
	Signed    bool
	Factor    float64
	Offset    float64
	Min       float64
	Max       float64
	Default   float64
	Unit      string
}

// FrameDef describes one CAN frame and the signals packed into its payload.
type FrameDef struct {
	ID        uint32
	Name      string
	DLC       int
	Direction string
	CycleMS   int
	Signals   []SignalDef
}

// Map is a bidirectional lookup of frame definitions, by numeric id and by
// name.
type Map struct {
	ByID   map[uint32]*FrameDef
	ByName map[string]*FrameDef
}

// FrameNames returns every known frame name, sorted.
func (m *Map) FrameNames() []string {
	out := make([]string, 0, len(m.ByName))
	for k := range m.ByName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

const (
	// FramePose is the localization frame: x (m), y (m), heading (rad), seq.
	FramePose = "VEHICLE_POSE_1"
	// FrameCommand is the actuator command frame: v (m/s), steer_front (rad),
	// steer_back (rad).
	FrameCommand = "ACTUATOR_CMD_1"
)

// DefaultMap builds the VEHICLE_POSE_1 / ACTUATOR_CMD_1 signal table used by
// the demo binary, without requiring an external CSV resource. LoadMap
// remains available for callers who maintain their own signal table.
func DefaultMap() *Map {
	m := &Map{ByID: map[uint32]*FrameDef{}, ByName: map[string]*FrameDef{}}

	pose := &FrameDef{
		ID: 0x300, Name: FramePose, DLC: 8, Direction: "rx", CycleMS: 20,
		Signals: []SignalDef{
			{Name: "x", StartBit: 0, BitLength: 16, Signed: true, Factor: 0.001, Min: -32.768, Max: 32.767, Unit: "m"},
			{Name: "y", StartBit: 16, BitLength: 16, Signed: true, Factor: 0.001, Min: -32.768, Max: 32.767, Unit: "m"},
			{Name: "heading", StartBit: 32, BitLength: 16, Signed: true, Factor: 0.0001, Min: -3.2768, Max: 3.2767, Unit: "rad"},
			{Name: "seq", StartBit: 48, BitLength: 16, Signed: false, Factor: 1, Min: 0, Max: 65535, Unit: ""},
		},
	}
	cmd := &FrameDef{
		ID: 0x301, Name: FrameCommand, DLC: 8, Direction: "tx", CycleMS: 20,
		Signals: []SignalDef{
			{Name: "v", StartBit: 0, BitLength: 16, Signed: true, Factor: 0.001, Min: -32.768, Max: 32.767, Unit: "m/s"},
			{Name: "steer_front", StartBit: 16, BitLength: 16, Signed: true, Factor: 0.0001, Min: -3.2768, Max: 3.2767, Unit: "rad"},
			{Name: "steer_back", StartBit: 32, BitLength: 16, Signed: true, Factor: 0.0001, Min: -3.2768, Max: 3.2767, Unit: "rad"},
		},
	}

	for _, fd := range []*FrameDef{pose, cmd} {
		m.ByID[fd.ID] = fd
		m.ByName[fd.Name] = fd
	}
	return m
}

// FrameByName looks up a frame definition by name.
func (m *Map) FrameByName(name string) (*FrameDef, error) {
	fd, ok := m.ByName[name]
	if !ok {
		return nil, &UnknownFrameError{Name: name, Known: m.FrameNames()}
	}
	return fd, nil
}

// FrameByID looks up a frame definition by numeric id.
func (m *Map) FrameByID(id uint32) (*FrameDef, error) {
	fd, ok := m.ByID[id]
	if !ok {
		return nil, &UnknownFrameError{ID: id}
	}
	return fd, nil
}

// extractBits returns s's raw unsigned bitfield out of a frame payload.
func (s SignalDef) extractBits(payload uint64) uint64 {
	if s.BitLength <= 0 || s.BitLength > 64 {
		return 0
	}
	mask := uint64(1)<<s.BitLength - 1
	return (payload >> s.StartBit) & mask
}

// packBits writes value into s's bitfield of payload, clearing whatever
// bits it previously held there.
func (s SignalDef) packBits(payload, value uint64) uint64 {
	if s.BitLength <= 0 || s.BitLength > 64 {
		return payload
	}
	mask := uint64(1)<<s.BitLength - 1
	payload &^= mask << s.StartBit
	payload |= (value & mask) << s.StartBit
	return payload
}

// rawValue decodes s's bitfield out of payload into a two's-complement
// int64, honoring Signed.
func (s SignalDef) rawValue(payload uint64) int64 {
	u := s.extractBits(payload)
	if !s.Signed {
		return int64(u)
	}
	signBit := uint64(1) << (s.BitLength - 1)
	if u&signBit == 0 {
		return int64(u)
	}
	fullMask := uint64(1)<<s.BitLength - 1
	twos := (^u + 1) & fullMask
	return -int64(twos)
}

// encodeRaw converts a signed raw value into s's unsigned two's-complement
// bitfield representation, ready for packBits.
func (s SignalDef) encodeRaw(raw int64) uint64 {
	if raw >= 0 {
		return uint64(raw)
	}
	fullMask := uint64(1)<<s.BitLength - 1
	u := uint64(-raw)
	twos := (^u + 1) & fullMask
	return twos
}

// clampPhysical clamps a physical value to s's [Min, Max] range.
func (s SignalDef) clampPhysical(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// clampRaw clamps a raw integer to the range s.BitLength/s.Signed can hold.
func (s SignalDef) clampRaw(raw int64) int64 {
	if s.BitLength <= 0 || s.BitLength > 63 {
		return raw
	}
	if !s.Signed {
		max := int64(1)<<s.BitLength - 1
		if raw < 0 {
			return 0
		}
		if raw > max {
			return max
		}
		return raw
	}
	min := -int64(1) << (s.BitLength - 1)
	max := int64(1)<<(s.BitLength-1) - 1
	if raw < min {
		return min
	}
	if raw > max {
		return max
	}
	return raw
}
