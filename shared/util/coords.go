package util

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Vector3 é um alias para rl.Vector3 para conveniência
type Vector3 = rl.Vector3

// VoxelCoord representa o índice inteiro de um voxel dentro da grade volumétrica.
// Cada componente vale 0 ≤ i < dimensão do eixo correspondente.
type VoxelCoord struct {
	X, Y, Z int32
}

// NewVoxelCoord cria uma nova coordenada de voxel.
func NewVoxelCoord(x, y, z int32) VoxelCoord {
	return VoxelCoord{X: x, Y: y, Z: z}
}

// Add soma duas coordenadas.
func (c VoxelCoord) Add(other VoxelCoord) VoxelCoord {
	return VoxelCoord{
		X: c.X + other.X,
		Y: c.Y + other.Y,
		Z: c.Z + other.Z,
	}
}

// Sub subtrai duas coordenadas.
func (c VoxelCoord) Sub(other VoxelCoord) VoxelCoord {
	return VoxelCoord{
		X: c.X - other.X,
		Y: c.Y - other.Y,
		Z: c.Z - other.Z,
	}
}

// Equals verifica igualdade entre coordenadas.
func (c VoxelCoord) Equals(other VoxelCoord) bool {
	return c.X == other.X && c.Y == other.Y && c.Z == other.Z
}

// String retorna a representação em string da coordenada.
func (c VoxelCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// MinWith retorna o mínimo componente a componente.
func (c VoxelCoord) MinWith(other VoxelCoord) VoxelCoord {
	return VoxelCoord{
		X: Min(c.X, other.X),
		Y: Min(c.Y, other.Y),
		Z: Min(c.Z, other.Z),
	}
}

// MaxWith retorna o máximo componente a componente.
func (c VoxelCoord) MaxWith(other VoxelCoord) VoxelCoord {
	return VoxelCoord{
		X: Max(c.X, other.X),
		Y: Max(c.Y, other.Y),
		Z: Max(c.Z, other.Z),
	}
}

// CornerOffsets são os deslocamentos {0,1}³ dos 8 cantos de um voxel.
// O índice de cada canto é 4*x + 2*y + z, a mesma ordem usada na tabela
// de lookup de cantos do volume.
var CornerOffsets = [8]VoxelCoord{
	{0, 0, 0},
	{0, 0, 1},
	{0, 1, 0},
	{0, 1, 1},
	{1, 0, 0},
	{1, 0, 1},
	{1, 1, 0},
	{1, 1, 1},
}

// NeighborOffsets26 são os 26 deslocamentos de vizinhança (faces, arestas
// e cantos) usados na expansão da busca de colisão. O deslocamento (0,0,0)
// fica de fora por construção.
var NeighborOffsets26 = buildNeighborOffsets()

func buildNeighborOffsets() [26]VoxelCoord {
	var offs [26]VoxelCoord
	n := 0
	for i := int32(-1); i <= 1; i++ {
		for j := int32(-1); j <= 1; j++ {
			for k := int32(-1); k <= 1; k++ {
				if i == 0 && j == 0 && k == 0 {
					continue
				}
				offs[n] = VoxelCoord{X: i, Y: j, Z: k}
				n++
			}
		}
	}
	return offs
}
