package drill

import (
	"math"
	"testing"

	"DrillVision/shared/util"
)

func TestCycleSizeWrapsAround(t *testing.T) {
	p := NewPoseController(false)

	if p.BurrMillimeters() != 2 {
		t.Fatalf("broca inicial = %d mm, esperado 2", p.BurrMillimeters())
	}

	want := []int{4, 6, 2, 4}
	for _, mm := range want {
		size := p.CycleSize()
		if size.Millimeters != mm {
			t.Errorf("CycleSize = %d mm, esperado %d", size.Millimeters, mm)
		}
		if size.Radius != p.BurrRadius() {
			t.Errorf("raio retornado (%v) diverge do raio corrente (%v)", size.Radius, p.BurrRadius())
		}
	}
}

func TestUpdatePoseTipFollowsProxy(t *testing.T) {
	p := NewPoseController(false)
	tip := Cursor{
		Role:  RoleTip,
		Index: 0,
		Proxy: util.Vector3{X: 1, Y: 2, Z: 3},
		Goal:  util.Vector3{X: 1.5, Y: 2, Z: 3},
	}

	p.UpdatePose(&tip, util.Vector3{X: 1}, 0.026)
	if p.Position() != tip.Proxy {
		t.Errorf("pose = %v, esperado o proxy da ponta %v", p.Position(), tip.Proxy)
	}
}

func TestUpdatePoseShaftProjectsBackToTip(t *testing.T) {
	p := NewPoseController(false)
	pitch := float32(0.026)
	// Cursor de haste assentado: proxy e goal coincidem
	shaft := Cursor{
		Role:  RoleShaft,
		Index: 3,
		Proxy: util.Vector3{X: 0.5, Y: 0, Z: 0},
		Goal:  util.Vector3{X: 0.5, Y: 0, Z: 0},
	}

	p.UpdatePose(&shaft, util.Vector3{X: 1}, pitch)

	wantX := 0.5 - 1*pitch*3
	got := p.Position()
	if math.Abs(float64(got.X-wantX)) > 1e-6 || got.Y != 0 || got.Z != 0 {
		t.Errorf("pose = %v, esperado X = %v (proxy projetado de volta à ponta)", got, wantX)
	}
}

func TestUpdatePoseShaftHoldsWhileUnsettled(t *testing.T) {
	p := NewPoseController(false)
	start := util.Vector3{X: 9, Y: 9, Z: 9}
	p.SnapTo(start)

	// Cursor de haste obstruído (proxy longe do goal): a broca não pode
	// seguir a projeção enquanto o cursor não assentar
	shaft := Cursor{
		Role:  RoleShaft,
		Index: 2,
		Proxy: util.Vector3{X: 0.5, Y: 0, Z: 0},
		Goal:  util.Vector3{X: 3.5, Y: 0, Z: 0},
	}

	p.UpdatePose(&shaft, util.Vector3{X: 1}, 0.026)
	if p.Position() != start {
		t.Errorf("pose = %v, esperado manter %v com a haste fora da tolerância", p.Position(), start)
	}

	// Assentou: agora a projeção vale
	shaft.Goal = shaft.Proxy
	p.UpdatePose(&shaft, util.Vector3{X: 1}, 0.026)
	if p.Position() == start {
		t.Error("com a haste assentada, a pose deveria seguir a projeção")
	}
}

func TestUpdatePoseIgnoresSubToleranceMoves(t *testing.T) {
	p := NewPoseController(false)
	p.SnapTo(util.Vector3{X: 1, Y: 1, Z: 1})

	tip := Cursor{
		Role:  RoleTip,
		Proxy: util.Vector3{X: 1.0005, Y: 1, Z: 1}, // Dentro da tolerância
	}
	p.UpdatePose(&tip, util.Vector3{X: 1}, 0.026)
	if p.Position().X != 1 {
		t.Error("movimento abaixo da tolerância não deveria mudar a pose")
	}
}

func TestUpdatePoseSmoothFollowEases(t *testing.T) {
	p := NewPoseController(true)
	p.SnapTo(util.Vector3{})

	tip := Cursor{
		Role:  RoleTip,
		Proxy: util.Vector3{X: 1, Y: 0, Z: 0},
	}
	p.UpdatePose(&tip, util.Vector3{X: 1}, 0.026)

	got := p.Position().X
	if math.Abs(float64(got)-0.04) > 1e-6 {
		t.Errorf("primeiro passo suave = %v, esperado 0.04 (4%% do caminho)", got)
	}

	// Passos sucessivos convergem monotonicamente
	prev := got
	for i := 0; i < 200; i++ {
		p.UpdatePose(&tip, util.Vector3{X: 1}, 0.026)
		cur := p.Position().X
		if cur < prev {
			t.Fatal("acompanhamento suave deveria convergir monotonicamente")
		}
		prev = cur
	}
	if math.Abs(float64(prev)-1) > poseTolerance*2 {
		t.Errorf("pose não convergiu: %v", prev)
	}
}

func TestFilterForceWarmUpLatch(t *testing.T) {
	p := NewPoseController(false)
	push := util.Vector3{X: 0.5}

	// Antes da janela calma, tudo é suprimido
	if got := p.FilterForce(push); got != (util.Vector3{}) {
		t.Fatal("força antes da estabilização deveria ser zero")
	}

	// Janela calma: ticks com força ~zero destravam a saída
	for i := 0; i <= calmTicksRequired; i++ {
		p.FilterForce(util.Vector3{})
	}
	if got := p.FilterForce(push); got != push {
		t.Fatalf("força após estabilização = %v, esperado %v", got, push)
	}

	// Pico anômalo rearma a trava
	spike := util.Vector3{X: forceSpikeLimit + 1}
	if got := p.FilterForce(spike); got != (util.Vector3{}) {
		t.Fatal("pico acima do limite deveria ser suprimido")
	}
	if got := p.FilterForce(push); got != (util.Vector3{}) {
		t.Fatal("trava rearmada deveria suprimir forças até nova janela calma")
	}
}

func TestFilterForceDirtyStartNeverSettles(t *testing.T) {
	p := NewPoseController(false)
	noisy := util.Vector3{X: 0.2}

	// Força contínua desde o início: a trava nunca destrava
	for i := 0; i < 50; i++ {
		if got := p.FilterForce(noisy); got != (util.Vector3{}) {
			t.Fatal("sem janela calma, a saída deveria seguir zero")
		}
	}
}

func TestUpdateManipulationEdges(t *testing.T) {
	p := NewPoseController(false)

	if p.ManipulationState() != ManipIdle {
		t.Fatal("estado inicial deveria ser ManipIdle")
	}
	if p.UpdateManipulation(false) {
		t.Fatal("sem botão não há transição")
	}
	if !p.UpdateManipulation(true) || p.ManipulationState() != ManipSelecting {
		t.Fatal("pressionar deveria transicionar para ManipSelecting")
	}
	if p.UpdateManipulation(true) {
		t.Fatal("segurar o botão não é nova transição")
	}
	if !p.UpdateManipulation(false) || p.ManipulationState() != ManipIdle {
		t.Fatal("soltar deveria voltar para ManipIdle")
	}
}
