package drill

import (
	"log"

	"DrillVision/shared/util"
)

// BurrSize descreve um tamanho de broca disponível.
type BurrSize struct {
	Millimeters int
	Radius      float32
}

// BurrSizes são os tamanhos de broca do simulador, na ordem do ciclo.
var BurrSizes = []BurrSize{
	{2, 0.0403},
	{4, 0.0805},
	{6, 0.1208},
}

// Tolerância de separação abaixo da qual a pose visível não é corrigida:
// evita micro-ajustes a cada tick quando a broca já está no lugar.
const poseTolerance = 0.001

// Fração do caminho percorrida por tick quando o acompanhamento suave
// está ligado.
const easeAmount = 0.04

// ManipState é o estado do modo de manipulação do volume.
type ManipState int

const (
	// ManipIdle: a ferramenta escava; o volume fica parado.
	ManipIdle ManipState = iota
	// ManipSelecting: o volume segue a ferramenta; o carving fica suspenso.
	ManipSelecting
)

// PoseController deriva a pose visível da broca a partir dos cursores, cicla
// o tamanho da broca e filtra a força de saída na partida do dispositivo.
type PoseController struct {
	sizeIdx      int
	smoothFollow bool
	position     util.Vector3
	manip        ManipState

	// Trava de aquecimento da força: dispositivos hápticos reportam lixo nos
	// primeiros ticks. A força só passa depois de uma janela de ticks calmos,
	// e um pico anômalo rearma a trava.
	forceSettled bool
	calmTicks    int
}

const (
	calmTicksRequired = 10
	forceSpikeLimit   = 10.0
)

// NewPoseController cria o controlador no menor tamanho de broca.
func NewPoseController(smoothFollow bool) *PoseController {
	return &PoseController{smoothFollow: smoothFollow}
}

// BurrRadius retorna o raio da broca corrente.
func (p *PoseController) BurrRadius() float32 {
	return BurrSizes[p.sizeIdx].Radius
}

// BurrMillimeters retorna o diâmetro nominal da broca corrente.
func (p *PoseController) BurrMillimeters() int {
	return BurrSizes[p.sizeIdx].Millimeters
}

// CycleSize avança para o próximo tamanho de broca (2 → 4 → 6 → 2 mm).
// O raio do cursor de ponta deve ser atualizado pelo chamador para o novo
// BurrRadius, mantendo colisão e desenho no mesmo tamanho.
func (p *PoseController) CycleSize() BurrSize {
	p.sizeIdx = (p.sizeIdx + 1) % len(BurrSizes)
	size := BurrSizes[p.sizeIdx]
	log.Printf("[Broca] Tamanho alterado para %d mm (raio %.4f)", size.Millimeters, size.Radius)
	return size
}

// SetSmoothFollow liga ou desliga o acompanhamento suave da pose.
func (p *PoseController) SetSmoothFollow(on bool) {
	p.smoothFollow = on
}

// SmoothFollow informa se o acompanhamento suave está ligado.
func (p *PoseController) SmoothFollow() bool {
	return p.smoothFollow
}

// Position retorna a pose visível corrente da broca.
func (p *PoseController) Position() util.Vector3 {
	return p.position
}

// UpdatePose recalcula a pose visível da broca a partir do cursor alvo.
// Cursor de ponta restringe a broca diretamente no proxy dele; cursor de
// haste só dita a pose quando o próprio proxy está assentado no goal (dentro
// da tolerância), projetado de volta à ponta ao longo do eixo da ferramenta
// (proxy − xDir·pitch·índice); enquanto não assenta, a broca mantém a
// última pose. Acima da tolerância de movimento, a pose salta ou desliza
// conforme o acompanhamento suave.
func (p *PoseController) UpdatePose(target *Cursor, xDir util.Vector3, pitch float32) {
	desired := target.Proxy
	if target.Role == RoleShaft {
		if target.Error() > poseTolerance {
			return
		}
		offset := pitch * float32(target.Index)
		desired = util.Vector3{
			X: target.Proxy.X - xDir.X*offset,
			Y: target.Proxy.Y - xDir.Y*offset,
			Z: target.Proxy.Z - xDir.Z*offset,
		}
	}

	if util.Dist(p.position, desired) <= poseTolerance {
		return
	}

	if p.smoothFollow {
		p.position = util.Vector3{
			X: util.Lerp(p.position.X, desired.X, easeAmount),
			Y: util.Lerp(p.position.Y, desired.Y, easeAmount),
			Z: util.Lerp(p.position.Z, desired.Z, easeAmount),
		}
	} else {
		p.position = desired
	}
}

// SnapTo posiciona a broca diretamente, ignorando suavização. Usado na
// inicialização e ao resetar a cena.
func (p *PoseController) SnapTo(pos util.Vector3) {
	p.position = pos
}

// FilterForce aplica a trava de aquecimento à força de saída. Antes da
// estabilização, a saída é zero; um pico acima do limite rearma a trava e
// zera a saída do tick.
func (p *PoseController) FilterForce(f util.Vector3) util.Vector3 {
	mag := util.Length(f)

	if !p.forceSettled {
		if mag < 0.001 {
			p.calmTicks++
		} else {
			p.calmTicks = 0
		}
		if p.calmTicks > calmTicksRequired {
			p.forceSettled = true
		}
		return util.Vector3{}
	}

	if mag > forceSpikeLimit {
		log.Printf("[Broca] Pico de força %.2f acima do limite, trava rearmada", mag)
		p.forceSettled = false
		p.calmTicks = 0
		return util.Vector3{}
	}
	return f
}

// ManipulationState retorna o estado corrente do modo de manipulação.
func (p *PoseController) ManipulationState() ManipState {
	return p.manip
}

// UpdateManipulation avança a máquina de estados do modo de manipulação a
// partir do botão 1 do dispositivo. Retorna true nas bordas de transição
// (começou ou terminou a seleção), para o chamador capturar ou consolidar
// a pose do volume.
func (p *PoseController) UpdateManipulation(pressed bool) (changed bool) {
	switch p.manip {
	case ManipIdle:
		if pressed {
			p.manip = ManipSelecting
			return true
		}
	case ManipSelecting:
		if !pressed {
			p.manip = ManipIdle
			return true
		}
	}
	return false
}
