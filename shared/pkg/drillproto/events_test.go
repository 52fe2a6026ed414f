package drillproto

import "testing"

func TestVoxelRemovedRoundTrip(t *testing.T) {
	in := VoxelRemoved{
		X: 120, Y: 3, Z: 255,
		RGBA:     PackRGBA(196, 30, 58, 255),
		SimTime:  12.625,
		Critical: true,
	}
	data, err := in.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out VoxelRemoved
	if err := out.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round-trip divergiu: %+v vs %+v", out, in)
	}

	r, g, b, a := UnpackRGBA(out.RGBA)
	if r != 196 || g != 30 || b != 58 || a != 255 {
		t.Errorf("UnpackRGBA = (%d, %d, %d, %d), esperado (196, 30, 58, 255)", r, g, b, a)
	}
}

func TestEnvelopeWrap(t *testing.T) {
	meta := &SessionMeta{
		SessionID:  "sess-42",
		VolumeFile: "bone.dvv",
		DimX:       256, DimY: 256, DimZ: 256,
		StartedAt: 1000.5,
	}

	data, err := Wrap(EnvelopeSessionMeta, meta)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	var env Envelope
	if err := env.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal envelope: %v", err)
	}
	if env.Type != EnvelopeSessionMeta {
		t.Fatalf("tipo = %d, esperado %d", env.Type, EnvelopeSessionMeta)
	}

	var out SessionMeta
	if err := out.Unmarshal(env.Payload); err != nil {
		t.Fatalf("Unmarshal payload: %v", err)
	}
	if out != *meta {
		t.Fatalf("round-trip divergiu: %+v vs %+v", out, *meta)
	}
}

func TestVoxelRemovedZeroValuesStayZero(t *testing.T) {
	// Campos zero não são serializados (proto3); o decode devolve os defaults
	in := VoxelRemoved{}
	data, err := in.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("mensagem toda-zero deveria serializar vazia, ficou %d bytes", len(data))
	}

	var out VoxelRemoved
	if err := out.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round-trip divergiu: %+v", out)
	}
}
