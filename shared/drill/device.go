package drill

import (
	"sync"

	"DrillVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Device abstrai o dispositivo háptico. O tick de física lê a pose e devolve
// a força calculada a cada iteração; implementações devem ser seguras para
// leitura pelo loop de input e escrita pelo tick.
type Device interface {
	// Available informa se o dispositivo está pronto. Quando false, o tick
	// mantém a última pose conhecida e não envia força.
	Available() bool
	// Transform retorna a posição e a orientação atuais da ferramenta.
	Transform() (util.Vector3, mgl32.Mat3)
	// Switch retorna o estado do botão de índice dado (1 = manipular o
	// volume). A escavação não tem botão: ela dispara pelo contato da ponta.
	Switch(idx int) bool
	// ApplyForce envia a força de reação ao dispositivo.
	ApplyForce(f util.Vector3)
}

// EmulatedDevice simula um dispositivo háptico a partir do teclado: o loop de
// input empurra incrementos de translação e rotação, e o tick de física lê a
// pose resultante. Forças aplicadas são só registradas (não há atuador).
type EmulatedDevice struct {
	mu sync.Mutex

	position util.Vector3
	rotation mgl32.Mat3
	switches [2]bool

	lastForce util.Vector3
}

// NewEmulatedDevice cria o dispositivo emulado na pose inicial dada.
func NewEmulatedDevice(position util.Vector3) *EmulatedDevice {
	return &EmulatedDevice{
		position: position,
		rotation: mgl32.Ident3(),
	}
}

// Available sempre retorna true: o teclado não desconecta.
func (d *EmulatedDevice) Available() bool {
	return true
}

// Transform retorna a pose atual da ferramenta emulada.
func (d *EmulatedDevice) Transform() (util.Vector3, mgl32.Mat3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position, d.rotation
}

// Switch retorna o estado do botão dado.
func (d *EmulatedDevice) Switch(idx int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if idx < 0 || idx >= len(d.switches) {
		return false
	}
	return d.switches[idx]
}

// ApplyForce registra a última força recebida, para exibição de debug.
func (d *EmulatedDevice) ApplyForce(f util.Vector3) {
	d.mu.Lock()
	d.lastForce = f
	d.mu.Unlock()
}

// LastForce retorna a última força aplicada ao dispositivo.
func (d *EmulatedDevice) LastForce() util.Vector3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastForce
}

// IncrementPos desloca a ferramenta pelo delta dado, em coordenadas de mundo.
func (d *EmulatedDevice) IncrementPos(delta util.Vector3) {
	d.mu.Lock()
	d.position.X += delta.X
	d.position.Y += delta.Y
	d.position.Z += delta.Z
	d.mu.Unlock()
}

// IncrementRot aplica rotações de yaw e pitch (em radianos) à orientação atual.
func (d *EmulatedDevice) IncrementRot(yaw, pitch float32) {
	d.mu.Lock()
	d.rotation = mgl32.Rotate3DY(yaw).Mul3(mgl32.Rotate3DZ(pitch)).Mul3(d.rotation)
	d.mu.Unlock()
}

// SetSwitch liga ou desliga um botão do dispositivo emulado.
func (d *EmulatedDevice) SetSwitch(idx int, pressed bool) {
	d.mu.Lock()
	if idx >= 0 && idx < len(d.switches) {
		d.switches[idx] = pressed
	}
	d.mu.Unlock()
}

// SetPose substitui a pose completa da ferramenta. Usado ao resetar a cena.
func (d *EmulatedDevice) SetPose(position util.Vector3, rotation mgl32.Mat3) {
	d.mu.Lock()
	d.position = position
	d.rotation = rotation
	d.mu.Unlock()
}
