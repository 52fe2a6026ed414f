package drill

import (
	"testing"

	"DrillVision/shared/config"
	"DrillVision/shared/util"
	"DrillVision/shared/voldata"

	"github.com/go-gl/mathgl/mgl32"
)

// scriptedDevice é um dispositivo determinístico para testes: o teste dita a
// pose e os botões, e captura as forças aplicadas.
type scriptedDevice struct {
	available bool
	position  util.Vector3
	rotation  mgl32.Mat3
	switches  [2]bool
	forces    []util.Vector3
}

func newScriptedDevice() *scriptedDevice {
	return &scriptedDevice{
		available: true,
		rotation:  mgl32.Ident3(),
	}
}

func (d *scriptedDevice) Available() bool                       { return d.available }
func (d *scriptedDevice) Transform() (util.Vector3, mgl32.Mat3) { return d.position, d.rotation }
func (d *scriptedDevice) Switch(idx int) bool                   { return d.switches[idx] }
func (d *scriptedDevice) ApplyForce(f util.Vector3)             { d.forces = append(d.forces, f) }

func sessionFixture(t *testing.T) (*Session, *scriptedDevice, *voldata.VoxelGrid) {
	t.Helper()

	dim := int32(32)
	total := int(dim) * int(dim) * int(dim)
	src := &voldata.VolumeSource{
		DimX: dim, DimY: dim, DimZ: dim,
		MinCorner:   util.Vector3{X: -0.5, Y: -0.5, Z: -0.5},
		MaxCorner:   util.Vector3{X: 0.5, Y: 0.5, Z: 0.5},
		MaxTexCoord: util.Vector3{X: 1, Y: 1, Z: 1},
		Colors:      make([]voldata.Color, total),
	}
	for i := range src.Colors {
		src.Colors[i] = voldata.Bone
	}
	grid, err := voldata.NewVoxelGrid(src, util.Vector3{}, mgl32.Ident3())
	if err != nil {
		t.Fatalf("NewVoxelGrid: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.ToolCursors = 4
	device := newScriptedDevice()
	// Começa longe do volume
	device.position = util.Vector3{X: 5, Y: 5, Z: 5}

	var dirty voldata.DirtyRegion
	session := NewSession(cfg, grid, &dirty, device, nil)
	return session, device, grid
}

func TestStepFreeSpaceProducesNoContact(t *testing.T) {
	session, device, _ := sessionFixture(t)

	ctx := session.Step()
	if ctx.Removed != 0 || ctx.Critical {
		t.Fatal("tick em espaço livre não pode remover voxels")
	}
	if ctx.TargetIdx != 0 {
		t.Errorf("sem contato, o alvo deveria ser a ponta; ficou %d", ctx.TargetIdx)
	}
	if len(device.forces) != 1 || device.forces[0] != (util.Vector3{}) {
		t.Error("força em espaço livre deveria ser zero")
	}
}

func TestStepCarvesOnContact(t *testing.T) {
	session, device, grid := sessionFixture(t)

	// Ponta em contato com o osso: a escavação dispara sozinha, sem botão
	device.position = grid.VoxelCenter(util.NewVoxelCoord(16, 16, 16))

	ctx := session.Step()
	if ctx.Removed == 0 {
		t.Fatal("ponta em contato com o osso deveria remover voxels")
	}
	if ctx.Critical {
		t.Error("osso não é tecido crítico")
	}
}

func TestStepConstrainsProxyToSurfaceAndCarvesThere(t *testing.T) {
	session, device, grid := sessionFixture(t)

	// Primeiro tick acima do volume assenta os proxies em espaço livre.
	// A descida é vertical: todos os cursores congelam na mesma altura e a
	// ponta segue como alvo.
	goalVoxel := util.NewVoxelCoord(16, 16, 16)
	center := grid.VoxelCenter(goalVoxel)
	device.position = util.Vector3{X: center.X, Y: 5, Z: center.Z}
	session.Step()

	// Goal empurrado fundo no volume: o proxy congela na superfície e a
	// escavação acontece lá, não na posição não-restringida
	device.position = center
	ctx := session.Step()

	if ctx.Removed == 0 {
		t.Fatal("contato da ponta com a superfície deveria escavar")
	}
	if grid.ColorAt(goalVoxel) != voldata.Bone {
		t.Error("o material na posição não-restringida não pode ser escavado")
	}

	snap := session.Snapshot()
	tip := snap.Cursors[0]
	if sep := util.Dist(tip.Proxy, tip.Goal); sep < 0.4 {
		t.Errorf("separação proxy/goal = %.3f, esperado o proxy restrito à superfície", sep)
	}

	// Todo voxel removido fica ao alcance da esfera centrada no proxy
	reach := snap.BurrRadius + 0.1
	for _, c := range ctx.Contacts {
		if d := util.Dist(grid.VoxelCenter(c), tip.Proxy); d > reach {
			t.Errorf("voxel removido %v a %.3f do proxy, além do alcance da broca", c, d)
		}
	}
}

func TestStepCriticalFlagIsLevelTriggered(t *testing.T) {
	session, device, grid := sessionFixture(t)

	nerve := util.NewVoxelCoord(16, 16, 16)
	// Casca de tecido protegido ao redor do centro
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				grid.SetColor(nerve.Add(util.VoxelCoord{X: dx, Y: dy, Z: dz}), voldata.Protected)
			}
		}
	}

	device.position = grid.VoxelCenter(nerve)

	ctx := session.Step()
	if !ctx.Critical {
		t.Fatal("remover tecido protegido deveria levantar a flag no mesmo tick")
	}
	if !session.Snapshot().Critical {
		t.Fatal("snapshot do tick crítico deveria refletir a flag")
	}

	// Próximo tick longe do volume: a flag cai sozinha
	device.position = util.Vector3{X: 5, Y: 5, Z: 5}
	ctx = session.Step()
	if ctx.Critical || session.Snapshot().Critical {
		t.Fatal("a flag crítica é por nível: deveria cair no tick seguinte")
	}
}

func TestStepDeviceUnavailableHoldsPose(t *testing.T) {
	session, device, _ := sessionFixture(t)

	first := session.Step()
	forcesBefore := len(device.forces)

	device.available = false
	device.position = util.Vector3{X: 99, Y: 99, Z: 99} // Não deve ser lida

	ctx := session.Step()
	if ctx.DevicePos != first.DevicePos {
		t.Errorf("pose com dispositivo indisponível = %v, esperado a última conhecida %v",
			ctx.DevicePos, first.DevicePos)
	}
	if len(device.forces) != forcesBefore {
		t.Error("dispositivo indisponível não pode receber força")
	}
}

func TestManipulationSuspendsCarvingAndMovesVolume(t *testing.T) {
	session, device, grid := sessionFixture(t)

	device.position = grid.VoxelCenter(util.NewVoxelCoord(16, 16, 16))
	device.switches[1] = true // Modo de manipulação

	ctx := session.Step()
	if ctx.Removed != 0 {
		t.Fatal("carving deveria ficar suspenso durante a manipulação")
	}
	if !session.Snapshot().Manipulating {
		t.Fatal("snapshot deveria acusar manipulação em curso")
	}

	// Arrasta a ferramenta: a pose pendente do volume acompanha
	drag := util.Vector3{X: 0.25, Y: 0, Z: 0}
	device.position.X += drag.X
	session.Step()

	snap := session.Snapshot()
	if snap.VolumePosition.X < 0.2 {
		t.Errorf("volume deveria acompanhar o arrasto; pose pendente = %v", snap.VolumePosition)
	}
	if grid.Position().X != 0 {
		t.Error("a grade só é transformada quando a seleção termina")
	}

	// Solta o botão: a pose é consolidada na grade
	device.switches[1] = false
	session.Step()
	if grid.Position().X < 0.2 {
		t.Errorf("pose consolidada = %v, esperado o deslocamento do arrasto", grid.Position())
	}
}

func TestCycleBurrSizePropagatesRadius(t *testing.T) {
	session, _, _ := sessionFixture(t)

	session.CycleBurrSize()
	snap := session.Snapshot()
	if snap.BurrMillimeters != 4 {
		t.Fatalf("broca = %d mm, esperado 4", snap.BurrMillimeters)
	}
	for _, c := range snap.Cursors {
		if c.Radius != snap.BurrRadius {
			t.Errorf("cursor %d com raio %v, esperado %v", c.Index, c.Radius, snap.BurrRadius)
		}
	}
}

func TestResetVolumeRestoresCarvedVoxels(t *testing.T) {
	session, device, grid := sessionFixture(t)

	device.position = grid.VoxelCenter(util.NewVoxelCoord(16, 16, 16))
	ctx := session.Step()
	if ctx.Removed == 0 {
		t.Fatal("premissa do teste: o tick deveria remover voxels")
	}
	carved := ctx.Contacts[0]
	if grid.ColorAt(carved) != voldata.Empty {
		t.Fatalf("premissa do teste: %v deveria estar escavado", carved)
	}

	session.ResetVolume()
	if grid.ColorAt(carved) != voldata.Bone {
		t.Error("ResetVolume deveria restaurar as cores originais")
	}
	if session.Snapshot().RemovedTotal != 0 {
		t.Error("contador de removidos deveria zerar no reset")
	}
}
