package app

import (
	"DrillVision/shared/util"
	"DrillVision/simulador/internal/meshing"
)

// Limite de uploads de malha para a GPU por frame, para não estourar o
// orçamento de tempo do frame quando a região suja é grande.
const maxUploadsPerFrame = 64

// enqueueAllChunks agenda o remeshing do volume inteiro.
func (a *App) enqueueAllChunks() {
	cx, cy, cz := meshing.ChunkCount(a.grid)
	a.meshVersion++
	for i := int32(0); i < cx; i++ {
		for j := int32(0); j < cy; j++ {
			for k := int32(0); k < cz; k++ {
				a.mesher.Enqueue(meshing.Request{
					Chunk:   util.NewVoxelCoord(i, j, k),
					Version: a.meshVersion,
				})
			}
		}
	}
}

// processDirtyRegion drena a região suja acumulada pelo tick de física e
// agenda o remeshing dos chunks tocados. A região é expandida em um voxel
// por eixo: escavar na borda de um chunk expõe faces do chunk vizinho.
func (a *App) processDirtyRegion() {
	min, max, ok := a.dirty.TakeAndClear()
	if !ok {
		return
	}

	dimX, dimY, dimZ := a.grid.Dimensions()
	min = util.NewVoxelCoord(
		util.Max(min.X-1, 0),
		util.Max(min.Y-1, 0),
		util.Max(min.Z-1, 0),
	)
	max = util.NewVoxelCoord(
		util.Min(max.X+1, dimX-1),
		util.Min(max.Y+1, dimY-1),
		util.Min(max.Z+1, dimZ-1),
	)

	lo := meshing.ChunkOf(min)
	hi := meshing.ChunkOf(max)

	a.meshVersion++
	for i := lo.X; i <= hi.X; i++ {
		for j := lo.Y; j <= hi.Y; j++ {
			for k := lo.Z; k <= hi.Z; k++ {
				ok := a.mesher.Enqueue(meshing.Request{
					Chunk:   util.NewVoxelCoord(i, j, k),
					Version: a.meshVersion,
				})
				if !ok {
					// Fila cheia: devolve o chunk à região suja para o
					// próximo frame tentar de novo
					a.dirty.EncloseRange(
						util.NewVoxelCoord(i*meshing.ChunkSize, j*meshing.ChunkSize, k*meshing.ChunkSize),
						util.NewVoxelCoord(
							util.Min((i+1)*meshing.ChunkSize-1, dimX-1),
							util.Min((j+1)*meshing.ChunkSize-1, dimY-1),
							util.Min((k+1)*meshing.ChunkSize-1, dimZ-1),
						),
					)
				}
			}
		}
	}
}

// processMesherResults sobe para a GPU as geometrias que os workers
// terminaram, respeitando o limite por frame.
func (a *App) processMesherResults() {
	for i := 0; i < maxUploadsPerFrame; i++ {
		select {
		case res := <-a.mesher.Results():
			a.renderer.UploadResult(res)
		default:
			return
		}
	}
}
