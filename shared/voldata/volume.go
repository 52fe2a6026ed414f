package voldata

import (
	"fmt"
	"log"

	"DrillVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// VoxelGrid é a grade volumétrica densa do objeto perfurável.
// Os voxels são criados uma única vez no carregamento e mutados in-place
// para Empty pelo motor de carving; a grade nunca é realocada.
// Todo acesso externo é por índice (VoxelCoord), nunca por referência crua.
type VoxelGrid struct {
	dimX, dimY, dimZ int32

	colors   []Color
	original []Color // Snapshot de carga para o Reset

	// Tabela de lookup dos 8 cantos de cada voxel em coordenadas de mundo.
	// Indexada por ix*(dimY*dimZ*8) + iy*(dimZ*8) + iz*8 + (4x+2y+z).
	// Invalidada quando a pose ou as extensões do volume mudam; RebuildCorners
	// deve ser chamado nesses pontos.
	corners []util.Vector3

	// Pose do volume no mundo
	position util.Vector3
	rotation mgl32.Mat3

	// Extensões físicas e mapeamento de textura
	minCorner, maxCorner     util.Vector3
	minTexCoord, maxTexCoord util.Vector3

	voxelSize [3]float32
}

// NewVoxelGrid constrói a grade a partir de uma fonte de volume e da pose inicial.
// Retorna erro para fonte ausente; dimensão zero é um aviso, não um erro
// (o comportamento de colisão contra um volume vazio é indefinido).
func NewVoxelGrid(src *VolumeSource, position util.Vector3, rotation mgl32.Mat3) (*VoxelGrid, error) {
	if src == nil {
		return nil, fmt.Errorf("fonte de volume ausente")
	}
	if src.DimX == 0 || src.DimY == 0 || src.DimZ == 0 {
		log.Printf("[Volume] AVISO: textura do volume tem dimensão zero (%dx%dx%d)", src.DimX, src.DimY, src.DimZ)
	}

	total := int(src.DimX) * int(src.DimY) * int(src.DimZ)
	if len(src.Colors) != total {
		return nil, fmt.Errorf("dados de voxel inconsistentes: esperado %d cores, recebido %d", total, len(src.Colors))
	}

	g := &VoxelGrid{
		dimX:        src.DimX,
		dimY:        src.DimY,
		dimZ:        src.DimZ,
		colors:      make([]Color, total),
		original:    make([]Color, total),
		position:    position,
		rotation:    rotation,
		minCorner:   src.MinCorner,
		maxCorner:   src.MaxCorner,
		minTexCoord: src.MinTexCoord,
		maxTexCoord: src.MaxTexCoord,
	}
	copy(g.colors, src.Colors)
	copy(g.original, src.Colors)

	g.RebuildCorners()

	log.Printf("[Volume] Grade carregada: %dx%dx%d voxels, tamanho de voxel = (%.4f, %.4f, %.4f)",
		g.dimX, g.dimY, g.dimZ, g.voxelSize[0], g.voxelSize[1], g.voxelSize[2])

	return g, nil
}

// Dimensions retorna as dimensões da grade.
func (g *VoxelGrid) Dimensions() (int32, int32, int32) {
	return g.dimX, g.dimY, g.dimZ
}

// VoxelCount retorna o total de voxels da grade.
func (g *VoxelGrid) VoxelCount() int {
	return int(g.dimX) * int(g.dimY) * int(g.dimZ)
}

// InBounds verifica se o índice está dentro da grade. A expansão de vizinhos
// da busca de colisão chama isto antes de enfileirar, nunca depois.
func (g *VoxelGrid) InBounds(c util.VoxelCoord) bool {
	return c.X >= 0 && c.X < g.dimX &&
		c.Y >= 0 && c.Y < g.dimY &&
		c.Z >= 0 && c.Z < g.dimZ
}

func (g *VoxelGrid) index(c util.VoxelCoord) int {
	return int(c.X)*int(g.dimY)*int(g.dimZ) + int(c.Y)*int(g.dimZ) + int(c.Z)
}

// ColorAt retorna a cor do voxel no índice dado.
func (g *VoxelGrid) ColorAt(c util.VoxelCoord) Color {
	return g.colors[g.index(c)]
}

// SetColor muta a cor do voxel in-place. Apenas a tarefa de física escreve
// cores; o lock da região suja não cobre esta mutação de propósito.
func (g *VoxelGrid) SetColor(c util.VoxelCoord, color Color) {
	g.colors[g.index(c)] = color
}

// CornersOf retorna as posições de mundo dos 8 cantos do voxel,
// direto da tabela pré-computada (O(1), sem recompor transformadas).
func (g *VoxelGrid) CornersOf(c util.VoxelCoord) [8]util.Vector3 {
	var out [8]util.Vector3
	base := g.index(c) * 8
	copy(out[:], g.corners[base:base+8])
	return out
}

// VoxelSize retorna o tamanho físico do voxel em cada eixo.
func (g *VoxelGrid) VoxelSize() [3]float32 {
	return g.voxelSize
}

// Position retorna a posição do volume no mundo.
func (g *VoxelGrid) Position() util.Vector3 {
	return g.position
}

// Rotation retorna a rotação do volume no mundo.
func (g *VoxelGrid) Rotation() mgl32.Mat3 {
	return g.rotation
}

// Extents retorna os cantos mínimo e máximo locais do volume.
func (g *VoxelGrid) Extents() (util.Vector3, util.Vector3) {
	return g.minCorner, g.maxCorner
}

// SetTransform substitui a pose do volume e reconstrói a tabela de cantos,
// mantendo a geometria de colisão sincronizada com o volume visível.
func (g *VoxelGrid) SetTransform(position util.Vector3, rotation mgl32.Mat3) {
	g.position = position
	g.rotation = rotation
	g.RebuildCorners()
}

// ResizeAxis ajusta simetricamente a extensão do volume em um eixo (0=X, 1=Y, 2=Z)
// e o mapeamento de textura correspondente, com clamp em [0.01, 0.5].
func (g *VoxelGrid) ResizeAxis(axis int, delta float32) {
	get := func(v util.Vector3) float32 {
		switch axis {
		case 0:
			return v.X
		case 1:
			return v.Y
		default:
			return v.Z
		}
	}
	set := func(v *util.Vector3, f float32) {
		switch axis {
		case 0:
			v.X = f
		case 1:
			v.Y = f
		default:
			v.Z = f
		}
	}

	value := util.Clamp(get(g.maxCorner)+delta, 0.01, 0.5)
	set(&g.maxCorner, value)
	set(&g.minCorner, -value)
	set(&g.maxTexCoord, 0.5+value)
	set(&g.minTexCoord, 0.5-value)

	g.RebuildCorners()
}

// Reset restaura cada voxel à cor original de carga.
// O chamador é responsável por limpar a região suja e disparar o refresh total.
func (g *VoxelGrid) Reset() {
	copy(g.colors, g.original)
	log.Printf("[Volume] Volume restaurado ao estado inicial (%d voxels)", g.VoxelCount())
}

// SnapshotColors devolve uma cópia das cores atuais, para export e inspeção.
func (g *VoxelGrid) SnapshotColors() []Color {
	out := make([]Color, len(g.colors))
	copy(out, g.colors)
	return out
}
