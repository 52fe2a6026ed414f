package app

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"DrillVision/shared/carving"
	"DrillVision/shared/config"
	"DrillVision/shared/drill"
	"DrillVision/shared/pkg/drillnet"
	"DrillVision/shared/pkg/drillproto"
	"DrillVision/shared/util"
	"DrillVision/shared/voldata"
	"DrillVision/simulador/internal/camera"
	"DrillVision/simulador/internal/meshing"
	"DrillVision/simulador/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Dimensão do volume sintético quando nenhum arquivo é informado.
const syntheticDim = 64

// App é a aplicação principal do simulador DrillVision.
type App struct {
	Config *config.Config

	// Controlador de câmera orbital
	Cam *camera.CameraController

	// Núcleo da simulação
	grid    *voldata.VoxelGrid
	dirty   *voldata.DirtyRegion
	device  *drill.EmulatedDevice
	session *drill.Session

	// Malha e GPU
	mesher      *meshing.SurfaceMesher
	renderer    *render.Renderer
	meshVersion int64

	// Telemetria (nil quando desligada)
	publisher *drillnet.Publisher
	sessionID string

	// Loop de física
	physicsStop chan struct{}
	physicsDone chan struct{}

	// Informações de debug
	frameCount int
	showDrill  bool

	startPose util.Vector3
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:      cfg,
		physicsStop: make(chan struct{}),
		physicsDone: make(chan struct{}),
		showDrill:   true,
	}
}

// Run inicia a aplicação: carrega o volume, sobe a janela, inicia o tick de
// física e roda o loop de renderização até a janela fechar.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	// Inicializar janela raylib
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning) // Reduz ruído no terminal

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0)

	a.Cam = camera.New()

	log.Println("[DrillVision] Janela inicializada com sucesso")
	log.Printf("[DrillVision] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	// Volume: arquivo informado ou osso temporal sintético
	var src *voldata.VolumeSource
	if a.Config.VolumeFile != "" {
		loaded, err := voldata.LoadFile(a.Config.VolumeFile)
		if err != nil {
			log.Fatalf("[App] Erro ao carregar volume %s: %v", a.Config.VolumeFile, err)
		}
		src = loaded
	} else {
		log.Println("[App] Nenhum volume informado, gerando osso temporal sintético")
		src = voldata.SyntheticTemporalBone(syntheticDim)
	}

	grid, err := voldata.NewVoxelGrid(src, util.Vector3{}, mgl32.Ident3())
	if err != nil {
		log.Fatalf("[App] Volume inválido: %v", err)
	}
	a.grid = grid
	a.dirty = &voldata.DirtyRegion{}

	// Dispositivo emulado começa acima do volume, broca apontando para baixo
	_, maxCorner := grid.Extents()
	a.startPose = util.Vector3{Y: maxCorner.Y + 0.1}
	a.device = drill.NewEmulatedDevice(a.startPose)

	// Telemetria opcional
	var telemetry carving.Telemetry
	if a.Config.TelemetryURL != "" {
		a.sessionID = fmt.Sprintf("sessao-%d", time.Now().Unix())
		dimX, dimY, dimZ := grid.Dimensions()
		pub := drillnet.NewPublisher(a.Config.TelemetryURL)
		meta := drillproto.SessionMeta{
			SessionID:  a.sessionID,
			VolumeFile: a.Config.VolumeFile,
			DimX:       dimX,
			DimY:       dimY,
			DimZ:       dimZ,
			StartedAt:  float64(time.Now().Unix()),
		}
		if err := pub.Connect(meta); err != nil {
			log.Printf("[App] Telemetria indisponível, seguindo sem coletor: %v", err)
		} else {
			a.publisher = pub
			telemetry = pub
		}
	}

	a.session = drill.NewSession(a.Config, grid, a.dirty, a.device, telemetry)

	workers := runtime.NumCPU()
	if workers < 2 {
		workers = 2
	}
	log.Printf("[App] Iniciando Mesher com %d workers (CPU Cores: %d)", workers, runtime.NumCPU())
	a.renderer = render.NewRenderer()
	a.mesher = meshing.NewSurfaceMesher(grid, workers)

	// Malha inicial do volume inteiro
	a.enqueueAllChunks()

	// Tick de física em goroutine própria, na frequência configurada
	go a.physicsLoop()

	// Loop principal
	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	// Cleanup
	a.shutdown()
	rl.CloseWindow()
}

// physicsLoop roda o tick de física na frequência configurada até o shutdown.
func (a *App) physicsLoop() {
	defer close(a.physicsDone)

	interval := time.Second / time.Duration(a.Config.PhysicsHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[App] Física iniciada a %d Hz", a.Config.PhysicsHz)
	for {
		select {
		case <-a.physicsStop:
			return
		case <-ticker.C:
			a.session.Step()
		}
	}
}

// update atualiza a lógica da aplicação a cada frame.
func (a *App) update() {
	a.frameCount++

	a.updateCamera()
	a.updateInput()
	a.processDirtyRegion()
	a.processMesherResults()
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	close(a.physicsStop)
	<-a.physicsDone

	a.mesher.Stop()

	if a.publisher != nil {
		snap := a.session.Snapshot()
		a.publisher.Close(drillproto.SessionEnd{
			SessionID:    a.sessionID,
			RemovedTotal: int32(snap.RemovedTotal),
			EndedAt:      float64(time.Now().Unix()),
		})
	}

	a.renderer.Unload()

	if err := a.Config.Save(); err != nil {
		log.Printf("[DrillVision] Erro ao salvar configurações: %v", err)
	}
}
