package app

import (
	"log"

	"DrillVision/shared/util"
	"DrillVision/simulador/internal/meshing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Velocidade angular do dispositivo emulado (radianos por segundo).
const deviceRotRate = 1.2

// Passo de redimensionamento do volume por pressionamento.
const resizeStep = 0.005

// updateCamera atualiza a câmera baseado no input do mouse.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()
	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)
}

// updateInput processa o teclado: todo ele controla o dispositivo emulado e
// os comandos da sessão; o mouse fica com a câmera.
func (a *App) updateInput() {
	dt := rl.GetFrameTime()
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)

	// Botão de manipulação do volume: segurar G arrasta o volume com a
	// ferramenta. A escavação dispara pelo contato, sem botão.
	a.device.SetSwitch(1, rl.IsKeyDown(rl.KeyG))

	a.updateDeviceMotion(dt)

	// Comandos da sessão
	if rl.IsKeyPressed(rl.KeyC) {
		a.session.CycleBurrSize()
	}
	if rl.IsKeyPressed(rl.KeyX) {
		a.session.ToggleSmoothFollow()
	}
	if ctrl && rl.IsKeyPressed(rl.KeyN) {
		log.Println("[App] Restaurando o volume")
		a.session.ResetVolume()
	}
	if ctrl && rl.IsKeyPressed(rl.KeyP) {
		if err := meshing.ExportOBJ(a.grid, "volume.obj"); err != nil {
			log.Printf("[App] Erro ao exportar OBJ: %v", err)
		}
	}

	// Redimensionamento do volume: 4/5 eixo X, 6/7 eixo Y, 8/9 eixo Z
	a.updateResizeKeys()

	// Toggles de exibição
	if rl.IsKeyPressed(rl.KeyB) {
		a.showDrill = !a.showDrill
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.Config.ShowProxySpheres = !a.Config.ShowProxySpheres
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	// Home devolve a ferramenta à pose inicial
	if rl.IsKeyPressed(rl.KeyHome) {
		a.device.SetPose(a.startPose, mgl32.Ident3())
	}
}

// updateDeviceMotion traduz as teclas seguradas em incrementos de pose do
// dispositivo emulado. A translação é relativa à câmera: W afasta a broca na
// direção da vista, A/D deslizam no plano, R/F sobem e descem no mundo.
func (a *App) updateDeviceMotion(dt float32) {
	step := a.Config.DrillRate * dt * 60.0

	camPos := a.Cam.RLCamera.Position
	camTgt := a.Cam.RLCamera.Target
	forward := mgl32.Vec3{camTgt.X - camPos.X, camTgt.Y - camPos.Y, camTgt.Z - camPos.Z}.Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	var delta mgl32.Vec3
	if rl.IsKeyDown(rl.KeyW) {
		delta = delta.Add(forward.Mul(step))
	}
	if rl.IsKeyDown(rl.KeyS) {
		delta = delta.Sub(forward.Mul(step))
	}
	if rl.IsKeyDown(rl.KeyD) {
		delta = delta.Add(right.Mul(step))
	}
	if rl.IsKeyDown(rl.KeyA) {
		delta = delta.Sub(right.Mul(step))
	}
	if rl.IsKeyDown(rl.KeyR) {
		delta[1] += step
	}
	if rl.IsKeyDown(rl.KeyF) {
		delta[1] -= step
	}
	if delta.Len() > 0 {
		a.device.IncrementPos(util.Vector3{X: delta.X(), Y: delta.Y(), Z: delta.Z()})
	}

	// Orientação no teclado numérico: 4/6 giram em yaw, 8/5 em pitch
	rot := deviceRotRate * dt
	if rl.IsKeyDown(rl.KeyKp4) {
		a.device.IncrementRot(rot, 0)
	}
	if rl.IsKeyDown(rl.KeyKp6) {
		a.device.IncrementRot(-rot, 0)
	}
	if rl.IsKeyDown(rl.KeyKp8) {
		a.device.IncrementRot(0, rot)
	}
	if rl.IsKeyDown(rl.KeyKp5) {
		a.device.IncrementRot(0, -rot)
	}
}

// updateResizeKeys ajusta a extensão física do volume eixo a eixo. Cada
// pressionamento move a borda superior do eixo em resizeStep.
func (a *App) updateResizeKeys() {
	type resizeKey struct {
		key   int32
		axis  int
		delta float32
	}
	keys := []resizeKey{
		{rl.KeyFour, 0, resizeStep},
		{rl.KeyFive, 0, -resizeStep},
		{rl.KeySix, 1, resizeStep},
		{rl.KeySeven, 1, -resizeStep},
		{rl.KeyEight, 2, resizeStep},
		{rl.KeyNine, 2, -resizeStep},
	}
	for _, k := range keys {
		if rl.IsKeyPressed(k.key) {
			a.session.ResizeVolumeAxis(k.axis, k.delta)
		}
	}
}
