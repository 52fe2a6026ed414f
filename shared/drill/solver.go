package drill

import (
	"DrillVision/shared/util"
	"DrillVision/shared/voldata"
)

// Fração da menor aresta de voxel usada como passo da marcha do proxy.
// Meio voxel garante que a marcha não atravessa um voxel sem testá-lo.
const marchFraction = 0.5

// ProxySolver restringe cursores à superfície do volume. O proxy marcha da
// última posição restringida em direção ao goal e congela na última amostra
// fora de material sólido; a mola proxy/goal gera a força de reação e o voxel
// que barrou a marcha é a semente da busca de colisão.
type ProxySolver struct {
	grid *voldata.VoxelGrid
}

// NewProxySolver cria o solver sobre a grade dada.
func NewProxySolver(grid *voldata.VoxelGrid) *ProxySolver {
	return &ProxySolver{grid: grid}
}

// stepSize retorna o passo da marcha: meia aresta do menor lado do voxel.
func (s *ProxySolver) stepSize(radius float32) float32 {
	size := s.grid.VoxelSize()
	step := radius
	for _, vs := range size {
		if vs > 0 && vs*marchFraction < step {
			step = vs * marchFraction
		}
	}
	if step <= 0 {
		step = 0.001
	}
	return step
}

// solid informa se o ponto dado cai dentro de um voxel não-vazio.
func (s *ProxySolver) solid(p util.Vector3) (util.VoxelCoord, bool) {
	v := s.grid.WorldToVoxel(p)
	if s.grid.InBounds(v) && s.grid.ColorAt(v) != voldata.Empty {
		return v, true
	}
	return v, false
}

// Solve move o proxy de prev em direção a goal, parando na superfície do
// volume. Retorna o proxy restringido, a flag de contato e o voxel de
// primeiro contato (válido apenas quando há contato). Um proxy que já começa
// dentro de material (o volume foi movido ou redimensionado sobre ele) fica
// onde está e reporta contato com o próprio voxel, até a escavação abrir
// espaço.
func (s *ProxySolver) Solve(prev, goal util.Vector3, radius float32) (util.Vector3, bool, util.VoxelCoord) {
	if v, in := s.solid(prev); in {
		return prev, true, v
	}

	dist := util.Dist(prev, goal)
	if dist == 0 {
		return prev, false, util.VoxelCoord{}
	}

	steps := int(dist/s.stepSize(radius)) + 1
	proxy := prev
	for i := 1; i <= steps; i++ {
		t := float32(i) / float32(steps)
		cand := util.Vector3{
			X: prev.X + (goal.X-prev.X)*t,
			Y: prev.Y + (goal.Y-prev.Y)*t,
			Z: prev.Z + (goal.Z-prev.Z)*t,
		}
		if v, in := s.solid(cand); in {
			return proxy, true, v
		}
		proxy = cand
	}
	return goal, false, util.VoxelCoord{}
}
