package drill

import (
	"log"
	"sync"

	"DrillVision/shared/carving"
	"DrillVision/shared/config"
	"DrillVision/shared/util"
	"DrillVision/shared/voldata"

	"github.com/go-gl/mathgl/mgl32"
)

// TickContext carrega tudo que um tick de física produziu. Cada passo recebe
// e devolve o contexto do tick corrente em vez de espalhar o estado por
// variáveis do objeto; um tick nunca enxerga sobras do anterior.
type TickContext struct {
	Tick    uint64
	SimTime float64

	DeviceAvailable bool
	DevicePos       util.Vector3
	DeviceRot       mgl32.Mat3

	TargetIdx int
	Contacts  []util.VoxelCoord
	Removed   int
	Critical  bool
	Force     util.Vector3
}

// RenderState é o retrato do estado da sessão que o loop de renderização lê.
// É uma cópia: o loop nunca toca as estruturas vivas do tick de física.
type RenderState struct {
	DrillPosition   util.Vector3
	BurrRadius      float32
	BurrMillimeters int
	Cursors         []Cursor
	TargetIdx       int
	Critical        bool
	Force           util.Vector3
	Manipulating    bool
	VolumePosition  util.Vector3
	VolumeRotation  mgl32.Mat3
	SmoothFollow    bool
	RemovedTotal    int
}

// Session liga dispositivo, cursores, solver, árbitro, controlador e motor de
// carving em um tick de física. Step roda na goroutine de física; os comandos
// e o Snapshot podem vir de outras goroutines e compartilham o mutex do tick.
type Session struct {
	mu sync.Mutex

	cfg        *config.Config
	grid       *voldata.VoxelGrid
	dirty      *voldata.DirtyRegion
	engine     *carving.Engine
	device     Device
	solver     *ProxySolver
	controller *PoseController

	cursors []Cursor

	tick    uint64
	simTime float64
	dt      float64

	lastPos util.Vector3
	lastRot mgl32.Mat3
	havePos bool

	// Pose do volume durante a manipulação: consolidada na grade (com a
	// reconstrução da tabela de cantos) só quando a seleção termina.
	toolTObject mgl32.Mat4
	pendingPos  util.Vector3
	pendingRot  mgl32.Mat3

	critical     bool
	lastForce    util.Vector3
	removedTotal int
}

// NewSession monta a sessão de perfuração sobre a grade e o dispositivo dados.
// telemetry pode ser nil (telemetria desligada).
func NewSession(cfg *config.Config, grid *voldata.VoxelGrid, dirty *voldata.DirtyRegion, device Device, telemetry carving.Telemetry) *Session {
	cursors := make([]Cursor, cfg.ToolCursors)
	controller := NewPoseController(cfg.SmoothFollow)
	for i := range cursors {
		cursors[i] = Cursor{
			Role:   RoleShaft,
			Index:  i,
			Radius: controller.BurrRadius(),
		}
	}
	cursors[0].Role = RoleTip

	s := &Session{
		cfg:        cfg,
		grid:       grid,
		dirty:      dirty,
		engine:     carving.NewEngine(grid, dirty, telemetry),
		device:     device,
		solver:     NewProxySolver(grid),
		controller: controller,
		cursors:    cursors,
		dt:         1.0 / float64(cfg.PhysicsHz),
		lastRot:    mgl32.Ident3(),
		pendingPos: grid.Position(),
		pendingRot: grid.Rotation(),
	}

	log.Printf("[Sessão] Sessão criada: %d cursores, passo de %.4fs, broca de %d mm",
		len(cursors), s.dt, controller.BurrMillimeters())
	return s
}

// Step executa um tick de física completo e retorna o contexto produzido.
func (s *Session) Step() TickContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	s.simTime += s.dt

	ctx := TickContext{
		Tick:    s.tick,
		SimTime: s.simTime,
	}

	// Pose do dispositivo; indisponível mantém a última pose e não envia força
	ctx.DeviceAvailable = s.device.Available()
	if ctx.DeviceAvailable {
		s.lastPos, s.lastRot = s.device.Transform()
		s.havePos = true
	} else if !s.havePos {
		return ctx
	}
	ctx.DevicePos = s.lastPos
	ctx.DeviceRot = s.lastRot

	xDir := util.Vector3{
		X: ctx.DeviceRot.At(0, 0),
		Y: ctx.DeviceRot.At(1, 0),
		Z: ctx.DeviceRot.At(2, 0),
	}

	// Manipulação do volume: enquanto seleciona, o carving fica suspenso
	manipulating := s.updateManipulation(ctx.DevicePos, ctx.DeviceRot)

	// Cursores distribuídos ao longo do eixo X local da ferramenta. O solver
	// restringe cada proxy à superfície; o contato e a semente da ponta
	// alimentam a busca de colisão.
	var tipContact bool
	var tipSeed util.VoxelCoord
	for i := range s.cursors {
		offset := s.cfg.CursorPitch * float32(s.cursors[i].Index)
		goal := util.Vector3{
			X: ctx.DevicePos.X + xDir.X*offset,
			Y: ctx.DevicePos.Y + xDir.Y*offset,
			Z: ctx.DevicePos.Z + xDir.Z*offset,
		}
		s.cursors[i].Goal = goal
		if s.tick == 1 {
			s.cursors[i].Proxy = goal
		}
		proxy, contact, seed := s.solver.Solve(s.cursors[i].Proxy, goal, s.cursors[i].Radius)
		s.cursors[i].Proxy = proxy
		if s.cursors[i].Role == RoleTip {
			tipContact, tipSeed = contact, seed
		}
	}

	ctx.TargetIdx = SelectTarget(s.cursors)
	target := &s.cursors[ctx.TargetIdx]
	s.controller.UpdatePose(target, xDir, s.cfg.CursorPitch)

	// Carving: sempre que a ponta dita a pose e está em contato com a
	// superfície, centrado no proxy restringido. Fica suspenso durante a
	// manipulação do volume.
	s.critical = false
	if !manipulating && target.Role == RoleTip && tipContact {
		center := target.Proxy
		radius := s.controller.BurrRadius()
		ctx.Contacts = carving.FindContactVoxels(s.grid, center, radius*radius, tipSeed)
		ctx.Removed, ctx.Critical = s.engine.Carve(ctx.Contacts, ctx.SimTime)
		s.removedTotal += ctx.Removed
		// Flag por nível: vale para este tick e cai sozinha no próximo
		s.critical = ctx.Critical
		if ctx.Critical {
			log.Printf("[Sessão] AVISO: tecido crítico removido no tick %d", ctx.Tick)
		}
	}

	// Força de reação: mola proxy/goal do cursor alvo, filtrada pela trava
	// de aquecimento
	raw := util.Vector3{
		X: (target.Proxy.X - target.Goal.X) * s.cfg.Stiffness,
		Y: (target.Proxy.Y - target.Goal.Y) * s.cfg.Stiffness,
		Z: (target.Proxy.Z - target.Goal.Z) * s.cfg.Stiffness,
	}
	ctx.Force = s.controller.FilterForce(raw)
	s.lastForce = ctx.Force
	if ctx.DeviceAvailable {
		s.device.ApplyForce(ctx.Force)
	}

	return ctx
}

// updateManipulation roda a máquina de estados do modo de manipulação e
// mantém a pose pendente do volume. A grade só é transformada (com a
// reconstrução da tabela de cantos) quando a seleção termina.
func (s *Session) updateManipulation(devPos util.Vector3, devRot mgl32.Mat3) bool {
	pressed := s.device.Switch(1)
	worldTTool := mgl32.Translate3D(devPos.X, devPos.Y, devPos.Z).Mul4(devRot.Mat4())

	if s.controller.UpdateManipulation(pressed) {
		if s.controller.ManipulationState() == ManipSelecting {
			// Borda de início: captura a pose do volume relativa à ferramenta
			vp := s.grid.Position()
			worldTObject := mgl32.Translate3D(vp.X, vp.Y, vp.Z).Mul4(s.grid.Rotation().Mat4())
			s.toolTObject = worldTTool.Inv().Mul4(worldTObject)
			log.Printf("[Sessão] Manipulação do volume iniciada")
		} else {
			// Borda de fim: consolida a pose pendente na grade
			s.grid.SetTransform(s.pendingPos, s.pendingRot)
			log.Printf("[Sessão] Manipulação do volume consolidada em %v", s.pendingPos)
		}
	}

	if s.controller.ManipulationState() == ManipSelecting {
		worldTObject := worldTTool.Mul4(s.toolTObject)
		s.pendingPos = util.Vector3{
			X: worldTObject.At(0, 3),
			Y: worldTObject.At(1, 3),
			Z: worldTObject.At(2, 3),
		}
		s.pendingRot = worldTObject.Mat3()
		return true
	}

	s.pendingPos = s.grid.Position()
	s.pendingRot = s.grid.Rotation()
	return false
}

// Snapshot copia o estado visível da sessão para o loop de renderização.
func (s *Session) Snapshot() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	cursors := make([]Cursor, len(s.cursors))
	copy(cursors, s.cursors)

	return RenderState{
		DrillPosition:   s.controller.Position(),
		BurrRadius:      s.controller.BurrRadius(),
		BurrMillimeters: s.controller.BurrMillimeters(),
		Cursors:         cursors,
		TargetIdx:       SelectTarget(s.cursors),
		Critical:        s.critical,
		Force:           s.lastForce,
		Manipulating:    s.controller.ManipulationState() == ManipSelecting,
		VolumePosition:  s.pendingPos,
		VolumeRotation:  s.pendingRot,
		SmoothFollow:    s.controller.SmoothFollow(),
		RemovedTotal:    s.removedTotal,
	}
}

// CycleBurrSize avança o tamanho da broca e propaga o novo raio aos cursores.
func (s *Session) CycleBurrSize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.controller.CycleSize()
	for i := range s.cursors {
		s.cursors[i].Radius = size.Radius
	}
}

// ToggleSmoothFollow inverte o acompanhamento suave da pose da broca.
func (s *Session) ToggleSmoothFollow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	on := !s.controller.SmoothFollow()
	s.controller.SetSmoothFollow(on)
	log.Printf("[Sessão] Acompanhamento suave: %v", on)
	return on
}

// ResetVolume restaura todos os voxels e marca a grade inteira como suja,
// para o refresh completo da malha.
func (s *Session) ResetVolume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grid.Reset()
	s.removedTotal = 0
	dimX, dimY, dimZ := s.grid.Dimensions()
	s.dirty.EncloseRange(util.NewVoxelCoord(0, 0, 0), util.NewVoxelCoord(dimX-1, dimY-1, dimZ-1))
}

// ResizeVolumeAxis ajusta a extensão do volume em um eixo e marca tudo sujo.
func (s *Session) ResizeVolumeAxis(axis int, delta float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grid.ResizeAxis(axis, delta)
	s.pendingPos = s.grid.Position()
	s.pendingRot = s.grid.Rotation()
	dimX, dimY, dimZ := s.grid.Dimensions()
	s.dirty.EncloseRange(util.NewVoxelCoord(0, 0, 0), util.NewVoxelCoord(dimX-1, dimY-1, dimZ-1))
}

// SimTime retorna o tempo de simulação corrente.
func (s *Session) SimTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simTime
}
