package meshing

import (
	"sync"

	"DrillVision/shared/util"
)

// ChunkSize é a aresta do chunk de remeshing, em voxels.
const ChunkSize = 16

// GeometryData contém os buffers de vértices para uma malha.
type GeometryData struct {
	Vertices []float32
	Normals  []float32
	Colors   []uint8
}

// Clone cria uma cópia profunda dos dados para evitar corrupção de memória.
func (g GeometryData) Clone() GeometryData {
	clone := GeometryData{}
	if len(g.Vertices) > 0 {
		clone.Vertices = make([]float32, len(g.Vertices))
		copy(clone.Vertices, g.Vertices)
	}
	if len(g.Normals) > 0 {
		clone.Normals = make([]float32, len(g.Normals))
		copy(clone.Normals, g.Normals)
	}
	if len(g.Colors) > 0 {
		clone.Colors = make([]uint8, len(g.Colors))
		copy(clone.Colors, g.Colors)
	}
	return clone
}

// Request representa um pedido de remeshing para um chunk do volume.
type Request struct {
	Chunk   util.VoxelCoord // Índice do chunk (coordenada de voxel / ChunkSize)
	Version int64           // Versão da região suja no momento do pedido
}

// Result contém a geometria gerada para um chunk, em coordenadas locais do
// volume. O renderizador aplica a pose do volume na hora de desenhar.
type Result struct {
	Chunk    util.VoxelCoord
	Geometry GeometryData
	Version  int64
}

// Pool global para reciclar MeshBuffers e evitar alocação excessiva (GC pressure)
var meshBufferPool = sync.Pool{
	New: func() interface{} {
		return &MeshBuffer{
			Geometry: GeometryData{
				Vertices: make([]float32, 0, 4096),
				Normals:  make([]float32, 0, 4096),
				Colors:   make([]uint8, 0, 4096),
			},
		}
	},
}

// GetMeshBuffer aloca ou recicla um buffer vazio para meshing.
func GetMeshBuffer() *MeshBuffer {
	return meshBufferPool.Get().(*MeshBuffer)
}

// PutMeshBuffer zera os buffers e devolve a memória para o pool.
func PutMeshBuffer(b *MeshBuffer) {
	if b == nil {
		return
	}
	b.Geometry.Vertices = b.Geometry.Vertices[:0]
	b.Geometry.Normals = b.Geometry.Normals[:0]
	b.Geometry.Colors = b.Geometry.Colors[:0]
	meshBufferPool.Put(b)
}

// MeshBuffer auxilia na construção de malhas dinâmicas.
type MeshBuffer struct {
	Geometry GeometryData
}

// AddFace adiciona uma face retangular (quad) ao buffer, como dois triângulos.
func (b *MeshBuffer) AddFace(v1, v2, v3, v4 [3]float32, n [3]float32, c [4]uint8) {
	// Triângulo 1 (v1, v2, v3)
	b.addVertex(v1, n, c)
	b.addVertex(v2, n, c)
	b.addVertex(v3, n, c)

	// Triângulo 2 (v1, v3, v4)
	b.addVertex(v1, n, c)
	b.addVertex(v3, n, c)
	b.addVertex(v4, n, c)
}

func (b *MeshBuffer) addVertex(v [3]float32, n [3]float32, c [4]uint8) {
	b.Geometry.Vertices = append(b.Geometry.Vertices, v[0], v[1], v[2])
	b.Geometry.Normals = append(b.Geometry.Normals, n[0], n[1], n[2])
	b.Geometry.Colors = append(b.Geometry.Colors, c[0], c[1], c[2], c[3])
}
