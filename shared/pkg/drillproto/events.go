// Package drillproto contém as mensagens do protocolo de telemetria do
// DrillVision, serializadas à mão sobre o wire format do protobuf.
package drillproto

import (
	"fmt"

	"DrillVision/shared/pkg/protowire"
)

// Tipos de mensagem carregados no envelope.
const (
	EnvelopeSessionMeta  = 1
	EnvelopeVoxelRemoved = 2
	EnvelopeSessionEnd   = 3
)

// Envelope embrulha qualquer mensagem do protocolo com o seu tipo.
//
//	message Envelope {
//	  int32 type = 1;
//	  bytes payload = 2;
//	}
type Envelope struct {
	Type    int32
	Payload []byte
}

func (m *Envelope) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.Type))
	e.EncodeBytes(2, m.Payload)
	return e.Bytes(), nil
}

func (m *Envelope) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Type = int32(v)
		case 2:
			b, err := d.ReadBytes()
			if err != nil {
				return err
			}
			m.Payload = b
		default:
			if err := d.SkipField(wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// SessionMeta abre uma sessão de gravação no coletor.
//
//	message SessionMeta {
//	  string session_id = 1;
//	  string volume_file = 2;
//	  int32 dim_x = 3;
//	  int32 dim_y = 4;
//	  int32 dim_z = 5;
//	  double started_at = 6;
//	}
type SessionMeta struct {
	SessionID  string
	VolumeFile string
	DimX       int32
	DimY       int32
	DimZ       int32
	StartedAt  float64
}

func (m *SessionMeta) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeString(1, m.SessionID)
	e.EncodeString(2, m.VolumeFile)
	e.EncodeVarint(3, int64(m.DimX))
	e.EncodeVarint(4, int64(m.DimY))
	e.EncodeVarint(5, int64(m.DimZ))
	e.EncodeDouble(6, m.StartedAt)
	return e.Bytes(), nil
}

func (m *SessionMeta) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			m.SessionID, err = d.ReadString()
		case 2:
			m.VolumeFile, err = d.ReadString()
		case 3:
			var v int64
			v, err = d.ReadVarint()
			m.DimX = int32(v)
		case 4:
			var v int64
			v, err = d.ReadVarint()
			m.DimY = int32(v)
		case 5:
			var v int64
			v, err = d.ReadVarint()
			m.DimZ = int32(v)
		case 6:
			m.StartedAt, err = d.ReadDouble()
		default:
			err = d.SkipField(wireType)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// VoxelRemoved registra a remoção de um voxel: índice na grade, cor original
// do voxel e o tempo de simulação da remoção.
//
//	message VoxelRemoved {
//	  int32 x = 1;
//	  int32 y = 2;
//	  int32 z = 3;
//	  uint32 rgba = 4;
//	  double sim_time = 5;
//	  bool critical = 6;
//	}
type VoxelRemoved struct {
	X, Y, Z  int32
	RGBA     uint32 // R nos bits altos, A nos baixos
	SimTime  float64
	Critical bool
}

// PackRGBA empacota os canais de cor no campo RGBA.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// UnpackRGBA desempacota o campo RGBA nos canais de cor.
func UnpackRGBA(v uint32) (r, g, b, a uint8) {
	return uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)
}

func (m *VoxelRemoved) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.X))
	e.EncodeVarint(2, int64(m.Y))
	e.EncodeVarint(3, int64(m.Z))
	e.EncodeUvarint(4, uint64(m.RGBA))
	e.EncodeDouble(5, m.SimTime)
	e.EncodeBool(6, m.Critical)
	return e.Bytes(), nil
}

func (m *VoxelRemoved) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1, 2, 3:
			var v int64
			v, err = d.ReadVarint()
			switch fieldNum {
			case 1:
				m.X = int32(v)
			case 2:
				m.Y = int32(v)
			case 3:
				m.Z = int32(v)
			}
		case 4:
			var v int64
			v, err = d.ReadVarint()
			m.RGBA = uint32(v)
		case 5:
			m.SimTime, err = d.ReadDouble()
		case 6:
			m.Critical, err = d.ReadBool()
		default:
			err = d.SkipField(wireType)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SessionEnd fecha uma sessão de gravação.
//
//	message SessionEnd {
//	  string session_id = 1;
//	  int32 removed_total = 2;
//	  double ended_at = 3;
//	}
type SessionEnd struct {
	SessionID    string
	RemovedTotal int32
	EndedAt      float64
}

func (m *SessionEnd) Marshal() ([]byte, error) {
	e := protowire.NewEncoder()
	e.EncodeString(1, m.SessionID)
	e.EncodeVarint(2, int64(m.RemovedTotal))
	e.EncodeDouble(3, m.EndedAt)
	return e.Bytes(), nil
}

func (m *SessionEnd) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			m.SessionID, err = d.ReadString()
		case 2:
			var v int64
			v, err = d.ReadVarint()
			m.RemovedTotal = int32(v)
		case 3:
			m.EndedAt, err = d.ReadDouble()
		default:
			err = d.SkipField(wireType)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Wrap serializa uma mensagem e a embrulha em um envelope do tipo dado.
func Wrap(msgType int32, m interface{ Marshal() ([]byte, error) }) ([]byte, error) {
	payload, err := m.Marshal()
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar payload: %w", err)
	}
	env := &Envelope{Type: msgType, Payload: payload}
	return env.Marshal()
}
