package voldata

import (
	"math"
	"testing"

	"DrillVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

const cornerEps = 1e-5

func almostEqual(a, b util.Vector3) bool {
	return math.Abs(float64(a.X-b.X)) < cornerEps &&
		math.Abs(float64(a.Y-b.Y)) < cornerEps &&
		math.Abs(float64(a.Z-b.Z)) < cornerEps
}

func TestVoxelSizeFromExtents(t *testing.T) {
	// Extensão [-0.5, 0.5] com texcoords [0, 1] e 10 voxels por eixo:
	// cada voxel mede 1.0 / (1.0 * 10) = 0.1
	g := testGrid(t, 10)
	size := g.VoxelSize()
	for i, s := range size {
		if math.Abs(float64(s)-0.1) > cornerEps {
			t.Errorf("voxelSize[%d] = %v, esperado 0.1", i, s)
		}
	}
}

func TestVoxelSizeDegenerateTexSpan(t *testing.T) {
	src := SyntheticTemporalBone(4)
	// Span de textura zero no eixo Y: o voxel ocupa a extensão inteira
	src.MinTexCoord.Y = 0.5
	src.MaxTexCoord.Y = 0.5

	g, err := NewVoxelGrid(src, util.Vector3{}, mgl32.Ident3())
	if err != nil {
		t.Fatalf("NewVoxelGrid: %v", err)
	}

	size := g.VoxelSize()
	if math.Abs(float64(size[1])-1.0) > cornerEps {
		t.Errorf("voxelSize[1] com texSpan zero = %v, esperado 1.0 (extensão total)", size[1])
	}
	if math.Abs(float64(size[0])-0.25) > cornerEps {
		t.Errorf("voxelSize[0] = %v, esperado 0.25", size[0])
	}
}

func TestCornersOfOrdering(t *testing.T) {
	g := testGrid(t, 4)
	corners := g.CornersOf(util.NewVoxelCoord(0, 0, 0))
	size := g.VoxelSize()

	// Índice do canto é 4x + 2y + z; canto 0 é o mínimo do voxel,
	// canto 7 o máximo.
	want0 := util.Vector3{X: -0.5, Y: -0.5, Z: -0.5}
	if !almostEqual(corners[0], want0) {
		t.Errorf("canto 0 = %v, esperado %v", corners[0], want0)
	}

	want7 := util.Vector3{X: -0.5 + size[0], Y: -0.5 + size[1], Z: -0.5 + size[2]}
	if !almostEqual(corners[7], want7) {
		t.Errorf("canto 7 = %v, esperado %v", corners[7], want7)
	}

	// Canto 4 (x=1, y=0, z=0) desloca apenas em X
	want4 := util.Vector3{X: -0.5 + size[0], Y: -0.5, Z: -0.5}
	if !almostEqual(corners[4], want4) {
		t.Errorf("canto 4 = %v, esperado %v", corners[4], want4)
	}
}

func TestRebuildCornersFollowsTranslation(t *testing.T) {
	g := testGrid(t, 4)
	c := util.NewVoxelCoord(2, 1, 3)
	before := g.CornersOf(c)

	offset := util.Vector3{X: 0.3, Y: -0.7, Z: 1.1}
	g.SetTransform(offset, mgl32.Ident3())

	after := g.CornersOf(c)
	for i := range after {
		want := util.Vector3{
			X: before[i].X + offset.X,
			Y: before[i].Y + offset.Y,
			Z: before[i].Z + offset.Z,
		}
		if !almostEqual(after[i], want) {
			t.Errorf("canto %d após translação = %v, esperado %v", i, after[i], want)
		}
	}
}

func TestRebuildCornersFollowsRotation(t *testing.T) {
	g := testGrid(t, 2)
	rot := mgl32.Rotate3DZ(float32(math.Pi / 2))
	g.SetTransform(util.Vector3{}, rot)

	// Rotação de 90° em Z leva o canto mínimo (-0.5,-0.5,-0.5) para (0.5,-0.5,-0.5)
	corners := g.CornersOf(util.NewVoxelCoord(0, 0, 0))
	want := util.Vector3{X: 0.5, Y: -0.5, Z: -0.5}
	if !almostEqual(corners[0], want) {
		t.Errorf("canto 0 após rotação = %v, esperado %v", corners[0], want)
	}
}

func TestResizeAxisRebuildsCorners(t *testing.T) {
	g := testGrid(t, 4)
	before := g.CornersOf(util.NewVoxelCoord(3, 3, 3))

	g.ResizeAxis(0, -0.2) // maxCorner.X: 0.5 -> 0.3

	after := g.CornersOf(util.NewVoxelCoord(3, 3, 3))
	if almostEqual(before[7], after[7]) {
		t.Error("redimensionar o eixo deveria mover os cantos da borda")
	}

	// Texcoords acompanham: 0.5 ± 0.3
	size := g.VoxelSize()
	// span = 0.6, texSpan = 0.6, dim = 4 -> 0.6 / (0.6*4) = 0.25
	if math.Abs(float64(size[0])-0.25) > cornerEps {
		t.Errorf("voxelSize[0] após resize = %v, esperado 0.25", size[0])
	}
}
