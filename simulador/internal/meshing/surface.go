package meshing

import (
	"log"
	"sync"

	"DrillVision/shared/util"
	"DrillVision/shared/voldata"
)

// faceDef descreve uma das 6 faces de um voxel: o deslocamento do vizinho que
// a oclui, a normal e os 4 vértices no cubo unitário (sentido anti-horário
// visto de fora).
type faceDef struct {
	neighbor util.VoxelCoord
	normal   [3]float32
	verts    [4][3]float32
}

var faces = [6]faceDef{
	{ // +X
		neighbor: util.VoxelCoord{X: 1},
		normal:   [3]float32{1, 0, 0},
		verts:    [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	},
	{ // -X
		neighbor: util.VoxelCoord{X: -1},
		normal:   [3]float32{-1, 0, 0},
		verts:    [4][3]float32{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}},
	},
	{ // +Y
		neighbor: util.VoxelCoord{Y: 1},
		normal:   [3]float32{0, 1, 0},
		verts:    [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	},
	{ // -Y
		neighbor: util.VoxelCoord{Y: -1},
		normal:   [3]float32{0, -1, 0},
		verts:    [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	},
	{ // +Z
		neighbor: util.VoxelCoord{Z: 1},
		normal:   [3]float32{0, 0, 1},
		verts:    [4][3]float32{{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}},
	},
	{ // -Z
		neighbor: util.VoxelCoord{Z: -1},
		normal:   [3]float32{0, 0, -1},
		verts:    [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	},
}

// SurfaceMesher extrai as faces expostas do volume em chunks, com um pool de
// workers. Os workers leem as cores da grade sem lock: um remesh atrasado de
// um voxel recém-escavado é corrigido pelo próximo pedido da região suja.
type SurfaceMesher struct {
	grid      *voldata.VoxelGrid
	requests  chan Request
	results   chan Result
	stop      chan struct{}
	pending   map[util.VoxelCoord]bool
	pendingMu sync.Mutex
}

// NewSurfaceMesher cria e inicia o mesher com o número de workers dado.
func NewSurfaceMesher(grid *voldata.VoxelGrid, workers int) *SurfaceMesher {
	m := &SurfaceMesher{
		grid:     grid,
		requests: make(chan Request, 2048),
		results:  make(chan Result, 2048),
		stop:     make(chan struct{}),
		pending:  make(map[util.VoxelCoord]bool),
	}

	for i := 0; i < workers; i++ {
		go m.worker()
	}

	log.Printf("[Mesher] Iniciado com %d workers", workers)
	return m
}

// Enqueue agenda o remeshing de um chunk. Pedidos para um chunk já na fila
// são descartados: a versão mais nova cobre a antiga.
func (m *SurfaceMesher) Enqueue(req Request) bool {
	m.pendingMu.Lock()
	if m.pending[req.Chunk] {
		m.pendingMu.Unlock()
		return false
	}
	m.pending[req.Chunk] = true
	m.pendingMu.Unlock()

	select {
	case m.requests <- req:
		return true
	default:
		// Fila cheia: remove do pendente para tentar depois
		m.pendingMu.Lock()
		delete(m.pending, req.Chunk)
		m.pendingMu.Unlock()
		return false
	}
}

// Results retorna o canal de geometrias prontas.
func (m *SurfaceMesher) Results() <-chan Result {
	return m.results
}

// Stop encerra os workers.
func (m *SurfaceMesher) Stop() {
	close(m.stop)
}

func (m *SurfaceMesher) worker() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro no mesher worker: %v", r)
			// Repõe o worker para o pool não encolher silenciosamente
			select {
			case <-m.stop:
			default:
				go m.worker()
			}
		}
	}()
	for {
		select {
		case req := <-m.requests:
			// Sai do pendente antes de gerar: uma escavação no meio da
			// geração pode re-enfileirar o chunk e corrigir o resultado
			m.pendingMu.Lock()
			delete(m.pending, req.Chunk)
			m.pendingMu.Unlock()
			m.results <- m.Generate(req)
		case <-m.stop:
			return
		}
	}
}

// Generate extrai as faces expostas de um chunk: cada voxel sólido contribui
// com as faces cujos vizinhos são Empty ou estão fora da grade.
func (m *SurfaceMesher) Generate(req Request) Result {
	res := Result{Chunk: req.Chunk, Version: req.Version}

	buf := GetMeshBuffer()
	defer PutMeshBuffer(buf)

	dimX, dimY, dimZ := m.grid.Dimensions()
	size := m.grid.VoxelSize()
	minCorner, _ := m.grid.Extents()

	startX := req.Chunk.X * ChunkSize
	startY := req.Chunk.Y * ChunkSize
	startZ := req.Chunk.Z * ChunkSize

	endX := util.Min(startX+ChunkSize, dimX)
	endY := util.Min(startY+ChunkSize, dimY)
	endZ := util.Min(startZ+ChunkSize, dimZ)

	for i := startX; i < endX; i++ {
		for j := startY; j < endY; j++ {
			for k := startZ; k < endZ; k++ {
				c := util.NewVoxelCoord(i, j, k)
				color := m.grid.ColorAt(c)
				if color == voldata.Empty {
					continue
				}

				baseX := minCorner.X + float32(i)*size[0]
				baseY := minCorner.Y + float32(j)*size[1]
				baseZ := minCorner.Z + float32(k)*size[2]

				for _, f := range faces {
					nb := c.Add(f.neighbor)
					if m.grid.InBounds(nb) && m.grid.ColorAt(nb) != voldata.Empty {
						continue
					}

					var quad [4][3]float32
					for v, corner := range f.verts {
						quad[v] = [3]float32{
							baseX + corner[0]*size[0],
							baseY + corner[1]*size[1],
							baseZ + corner[2]*size[2],
						}
					}
					buf.AddFace(quad[0], quad[1], quad[2], quad[3],
						f.normal, [4]uint8{color.R, color.G, color.B, color.A})
				}
			}
		}
	}

	res.Geometry = buf.Geometry.Clone()
	return res
}

// ChunkOf retorna o índice do chunk que contém o voxel dado.
func ChunkOf(c util.VoxelCoord) util.VoxelCoord {
	return util.VoxelCoord{
		X: c.X / ChunkSize,
		Y: c.Y / ChunkSize,
		Z: c.Z / ChunkSize,
	}
}

// ChunkCount retorna quantos chunks a grade ocupa em cada eixo.
func ChunkCount(grid *voldata.VoxelGrid) (int32, int32, int32) {
	dimX, dimY, dimZ := grid.Dimensions()
	ceil := func(v int32) int32 { return (v + ChunkSize - 1) / ChunkSize }
	return ceil(dimX), ceil(dimY), ceil(dimZ)
}
