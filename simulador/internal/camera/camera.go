package camera

import (
	"math"

	"DrillVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController gerencia a câmera orbital da cena cirúrgica: órbita com o
// botão esquerdo, zoom com a roda e pan com o botão do meio. O teclado fica
// inteiro para o dispositivo emulado.
type CameraController struct {
	RLCamera rl.Camera3D

	MinZoom      float32
	MaxZoom      float32
	RotateSpeed  float32
	ZoomSpeed    float32
	PanSpeed     float32
	SmoothFactor float32 // 0.0 a 1.0 (quanto menor, mais suave/lento)

	// Estado alvo (para interpolação suave)
	TargetLookAt rl.Vector3
	TargetZoom   float32
	TargetAngleY float32 // Azimute (radianos)
	TargetAngleX float32 // Elevação (radianos)

	// Estado atual (interpolado)
	CurrentLookAt rl.Vector3
	CurrentZoom   float32
}

// New cria o controlador de câmera olhando para a origem da cena.
func New() *CameraController {
	c := &CameraController{
		MinZoom:      0.5,
		MaxZoom:      10.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    0.25,
		PanSpeed:     0.002,
		SmoothFactor: 0.1,

		TargetLookAt: rl.Vector3{},
		TargetZoom:   2.5,
		TargetAngleY: 45.0 * rl.Deg2rad,
		TargetAngleX: -30.0 * rl.Deg2rad,
	}

	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom

	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}

	c.recompute()
	return c
}

// SetTarget muda o ponto de interesse da câmera imediatamente.
func (c *CameraController) SetTarget(pos rl.Vector3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
	c.recompute()
}

// Update interpola o estado da câmera em direção ao alvo. Chamado a cada frame.
func (c *CameraController) Update(dt float32) {
	factor := c.SmoothFactor * 60.0 * dt
	if factor > 1.0 {
		factor = 1.0
	}

	cur := mgl32.Vec3{c.CurrentLookAt.X, c.CurrentLookAt.Y, c.CurrentLookAt.Z}
	tgt := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}
	lerped := cur.Add(tgt.Sub(cur).Mul(factor))

	c.CurrentLookAt = rl.Vector3{X: lerped.X(), Y: lerped.Y(), Z: lerped.Z()}
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)

	c.recompute()
}

// recompute converte os ângulos esféricos e o zoom em posição cartesiana.
func (c *CameraController) recompute() {
	dist := c.CurrentZoom

	cosX := float32(math.Cos(float64(c.TargetAngleX)))
	sinX := float32(math.Sin(float64(c.TargetAngleX)))
	cosY := float32(math.Cos(float64(c.TargetAngleY)))
	sinY := float32(math.Sin(float64(c.TargetAngleY)))

	c.RLCamera.Position = rl.Vector3{
		X: c.CurrentLookAt.X + dist*cosX*sinY,
		Y: c.CurrentLookAt.Y + dist*-sinX,
		Z: c.CurrentLookAt.Z + dist*cosX*cosY,
	}
	c.RLCamera.Target = c.CurrentLookAt
}

// HandleInput processa mouse (órbita, zoom, pan). Retorna true se houve
// movimento de câmera.
func (c *CameraController) HandleInput(dt float32) bool {
	moved := false

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		moved = true
		c.TargetZoom -= wheel * c.ZoomSpeed
		c.TargetZoom = util.Clamp(c.TargetZoom, c.MinZoom, c.MaxZoom)
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true
		}
		c.TargetAngleY -= delta.X * c.RotateSpeed * 0.005
		c.TargetAngleX -= delta.Y * c.RotateSpeed * 0.005

		// Clamp na elevação para não virar a câmera de ponta cabeça
		maxElev := float32(85.0 * rl.Deg2rad)
		c.TargetAngleX = util.Clamp(c.TargetAngleX, -maxElev, maxElev)
	}

	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true

			// Pan no plano da câmera, escalado pelo zoom
			camPos := mgl32.Vec3{c.RLCamera.Position.X, c.RLCamera.Position.Y, c.RLCamera.Position.Z}
			lookAt := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}

			forward := lookAt.Sub(camPos).Normalize()
			up := mgl32.Vec3{0, 1, 0}
			right := forward.Cross(up).Normalize()
			camUp := right.Cross(forward).Normalize()

			scale := c.PanSpeed * c.CurrentZoom
			pan := right.Mul(-delta.X * scale).Add(camUp.Mul(delta.Y * scale))

			lookAt = lookAt.Add(pan)
			c.TargetLookAt = rl.Vector3{X: lookAt.X(), Y: lookAt.Y(), Z: lookAt.Z()}
		}
	}

	return moved
}
