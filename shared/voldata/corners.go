package voldata

import (
	"log"
	"math"

	"DrillVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// computeVoxelSize calcula o tamanho físico do voxel em cada eixo.
// Caso degenerado: se o span de coordenada de textura de um eixo for zero,
// o voxel ocupa a extensão inteira daquele eixo (evita divisão por zero).
func (g *VoxelGrid) computeVoxelSize() {
	dims := [3]float32{float32(g.dimX), float32(g.dimY), float32(g.dimZ)}
	minC := [3]float32{g.minCorner.X, g.minCorner.Y, g.minCorner.Z}
	maxC := [3]float32{g.maxCorner.X, g.maxCorner.Y, g.maxCorner.Z}
	minT := [3]float32{g.minTexCoord.X, g.minTexCoord.Y, g.minTexCoord.Z}
	maxT := [3]float32{g.maxTexCoord.X, g.maxTexCoord.Y, g.maxTexCoord.Z}

	for i := 0; i < 3; i++ {
		span := float32(math.Abs(float64(maxC[i] - minC[i])))
		texSpan := maxT[i] - minT[i]
		if texSpan == 0 || dims[i] == 0 {
			g.voxelSize[i] = span
			continue
		}
		scaled := span / (texSpan * dims[i])
		if scaled < span {
			g.voxelSize[i] = scaled
		} else {
			g.voxelSize[i] = span
		}
	}
}

// RebuildCorners reconstrói a tabela de lookup dos cantos em coordenadas de
// mundo a partir da pose, das extensões e da resolução atuais do volume.
// Custa O(N voxels); é chamado na carga e sempre que a pose/extensão muda,
// nunca dentro do tick de física.
func (g *VoxelGrid) RebuildCorners() {
	g.computeVoxelSize()

	total := g.VoxelCount() * 8
	if cap(g.corners) < total {
		g.corners = make([]util.Vector3, total)
	} else {
		g.corners = g.corners[:total]
	}

	vw := g.voxelSize[0]
	vh := g.voxelSize[1]
	vd := g.voxelSize[2]

	// Posição global do canto (0,0,0) da grade
	minLocal := mgl32.Vec3{g.minCorner.X, g.minCorner.Y, g.minCorner.Z}
	rotMin := g.rotation.Mul3x1(minLocal)
	v000 := util.Vector3{
		X: g.position.X + rotMin.X(),
		Y: g.position.Y + rotMin.Y(),
		Z: g.position.Z + rotMin.Z(),
	}

	idx := 0
	for i := int32(0); i < g.dimX; i++ {
		for j := int32(0); j < g.dimY; j++ {
			for k := int32(0); k < g.dimZ; k++ {
				baseX := float32(i) * vw
				baseY := float32(j) * vh
				baseZ := float32(k) * vd
				for _, off := range util.CornerOffsets {
					rel := mgl32.Vec3{
						baseX + float32(off.X)*vw,
						baseY + float32(off.Y)*vh,
						baseZ + float32(off.Z)*vd,
					}
					rot := g.rotation.Mul3x1(rel)
					g.corners[idx] = util.Vector3{
						X: v000.X + rot.X(),
						Y: v000.Y + rot.Y(),
						Z: v000.Z + rot.Z(),
					}
					idx++
				}
			}
		}
	}

	if g.dimX > 0 && g.dimY > 0 && g.dimZ > 0 {
		log.Printf("[Volume] Tabela de cantos reconstruída (%d entradas)", total)
	}
}

// VoxelCenter retorna o centro do voxel em coordenadas de mundo.
func (g *VoxelGrid) VoxelCenter(c util.VoxelCoord) util.Vector3 {
	rel := mgl32.Vec3{
		(float32(c.X) + 0.5) * g.voxelSize[0],
		(float32(c.Y) + 0.5) * g.voxelSize[1],
		(float32(c.Z) + 0.5) * g.voxelSize[2],
	}
	minLocal := mgl32.Vec3{g.minCorner.X, g.minCorner.Y, g.minCorner.Z}
	world := g.rotation.Mul3x1(minLocal.Add(rel))
	return util.Vector3{
		X: g.position.X + world.X(),
		Y: g.position.Y + world.Y(),
		Z: g.position.Z + world.Z(),
	}
}

// WorldToVoxel converte uma posição de mundo para o índice do voxel que a
// contém. O resultado pode estar fora da grade; o chamador verifica InBounds.
func (g *VoxelGrid) WorldToVoxel(pos util.Vector3) util.VoxelCoord {
	// Transformada inversa: a rotação é ortonormal, então a inversa é a transposta
	rel := mgl32.Vec3{
		pos.X - g.position.X,
		pos.Y - g.position.Y,
		pos.Z - g.position.Z,
	}
	local := g.rotation.Transpose().Mul3x1(rel)

	lx := local.X() - g.minCorner.X
	ly := local.Y() - g.minCorner.Y
	lz := local.Z() - g.minCorner.Z

	toIndex := func(v, size float32) int32 {
		if size == 0 {
			return 0
		}
		return int32(math.Floor(float64(v / size)))
	}

	return util.VoxelCoord{
		X: toIndex(lx, g.voxelSize[0]),
		Y: toIndex(ly, g.voxelSize[1]),
		Z: toIndex(lz, g.voxelSize[2]),
	}
}
