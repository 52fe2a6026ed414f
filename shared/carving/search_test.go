package carving

import (
	"testing"

	"DrillVision/shared/util"
	"DrillVision/shared/voldata"

	"github.com/go-gl/mathgl/mgl32"
)

// solidGrid constrói uma grade dim³ totalmente preenchida com osso,
// extensão [-0.5, 0.5] e texcoords [0, 1] (voxel cúbico de 1/dim).
func solidGrid(t *testing.T, dim int32) *voldata.VoxelGrid {
	t.Helper()
	total := int(dim) * int(dim) * int(dim)
	src := &voldata.VolumeSource{
		DimX: dim, DimY: dim, DimZ: dim,
		MinCorner:   util.Vector3{X: -0.5, Y: -0.5, Z: -0.5},
		MaxCorner:   util.Vector3{X: 0.5, Y: 0.5, Z: 0.5},
		MinTexCoord: util.Vector3{},
		MaxTexCoord: util.Vector3{X: 1, Y: 1, Z: 1},
		Colors:      make([]voldata.Color, total),
	}
	for i := range src.Colors {
		src.Colors[i] = voldata.Bone
	}
	g, err := voldata.NewVoxelGrid(src, util.Vector3{}, mgl32.Ident3())
	if err != nil {
		t.Fatalf("NewVoxelGrid: %v", err)
	}
	return g
}

// bruteForceContacts varre a grade inteira aplicando a condição de fronteira
// parcial, como referência independente do flood fill.
func bruteForceContacts(grid *voldata.VoxelGrid, center util.Vector3, radiusSq float32) map[util.VoxelCoord]bool {
	out := make(map[util.VoxelCoord]bool)
	dimX, dimY, dimZ := grid.Dimensions()
	for i := int32(0); i < dimX; i++ {
		for j := int32(0); j < dimY; j++ {
			for k := int32(0); k < dimZ; k++ {
				c := util.NewVoxelCoord(i, j, k)
				n := countCornersInSphere(grid, c, center, radiusSq)
				if n > 0 && n < 8 && grid.ColorAt(c) != voldata.Empty {
					out[c] = true
				}
			}
		}
	}
	return out
}

func TestFindContactVoxelsMatchesBruteForce(t *testing.T) {
	grid := solidGrid(t, 10)
	seed := util.NewVoxelCoord(5, 5, 5)
	center := grid.VoxelCenter(seed)
	radius := float32(0.15) // 1.5 voxels: a semente fica engolida, a casca em contato
	radiusSq := radius * radius

	got := FindContactVoxels(grid, center, radiusSq, seed)
	want := bruteForceContacts(grid, center, radiusSq)

	if len(got) != len(want) {
		t.Fatalf("flood fill achou %d voxels, referência tem %d", len(got), len(want))
	}
	seen := make(map[util.VoxelCoord]bool, len(got))
	for _, c := range got {
		if seen[c] {
			t.Fatalf("voxel %v duplicado na saída", c)
		}
		seen[c] = true
		if !want[c] {
			t.Fatalf("voxel %v na saída não satisfaz a condição de contato", c)
		}
	}
}

func TestFindContactVoxelsExcludesEngulfedAndEmpty(t *testing.T) {
	grid := solidGrid(t, 10)
	seed := util.NewVoxelCoord(5, 5, 5)
	center := grid.VoxelCenter(seed)
	radiusSq := float32(0.15 * 0.15)

	// Esvazia um voxel que estaria em contato: ele some da lista
	// mas a busca continua atravessando a cavidade.
	hole := util.NewVoxelCoord(6, 5, 5)
	if n := countCornersInSphere(grid, hole, center, radiusSq); n <= 0 || n >= 8 {
		t.Fatalf("premissa do teste: (6,5,5) deveria estar em contato, tem %d cantos", n)
	}
	grid.SetColor(hole, voldata.Empty)

	got := FindContactVoxels(grid, center, radiusSq, seed)
	for _, c := range got {
		if c.Equals(hole) {
			t.Fatal("voxel Empty não pode aparecer na lista de contato")
		}
		if c.Equals(seed) {
			t.Fatal("semente engolida (8/8 cantos) não pode aparecer na lista")
		}
		if grid.ColorAt(c) == voldata.Empty {
			t.Fatalf("voxel Empty %v na lista", c)
		}
	}

	// Voxels além do buraco continuam alcançáveis
	want := bruteForceContacts(grid, center, radiusSq)
	if len(got) != len(want) {
		t.Fatalf("busca deveria atravessar a cavidade: achou %d, referência %d", len(got), len(want))
	}
}

func TestFindContactVoxelsSeedOutOfBounds(t *testing.T) {
	grid := solidGrid(t, 4)
	got := FindContactVoxels(grid, util.Vector3{}, 0.01, util.NewVoxelCoord(-1, 0, 0))
	if got != nil {
		t.Fatalf("semente fora da grade deveria retornar nil, ficou %v", got)
	}
}

func TestFindContactVoxelsSphereOutsideVolume(t *testing.T) {
	grid := solidGrid(t, 6)
	// Centro muito longe: nenhum canto dentro da esfera, a semente expande
	// mas nenhum vizinho propaga. Saída vazia, terminação garantida.
	center := util.Vector3{X: 50, Y: 50, Z: 50}
	got := FindContactVoxels(grid, center, 0.01, util.NewVoxelCoord(3, 3, 3))
	if len(got) != 0 {
		t.Fatalf("esfera fora do volume deveria dar lista vazia, ficou %d voxels", len(got))
	}
}

func TestFindContactVoxelsIdempotentAfterCarve(t *testing.T) {
	grid := solidGrid(t, 10)
	var dirty voldata.DirtyRegion
	engine := NewEngine(grid, &dirty, nil)

	seed := util.NewVoxelCoord(5, 5, 5)
	center := grid.VoxelCenter(seed)
	radiusSq := float32(0.15 * 0.15)

	first := FindContactVoxels(grid, center, radiusSq, seed)
	if len(first) == 0 {
		t.Fatal("premissa do teste: primeira busca deveria achar contato")
	}
	engine.Carve(first, 0)

	// Mesma esfera, mesmo lugar: todo voxel de contato já é Empty
	second := FindContactVoxels(grid, center, radiusSq, seed)
	if len(second) != 0 {
		t.Fatalf("segunda busca no mesmo lugar deveria ser vazia, achou %d", len(second))
	}
}
