package voldata

import (
	"DrillVision/shared/util"
	pkgutil "DrillVision/shared/pkg/util"
)

// DirtyRegion acumula a caixa envolvente (AABB em índices de voxel) dos voxels
// mutados desde a última leitura. É o único estado compartilhado entre a tarefa
// de física e o loop de renderização; o lock cobre apenas o acumula e o
// lê-e-limpa, nunca a mutação de cores nem o remesh.
type DirtyRegion struct {
	lock pkgutil.SpinLock

	min, max util.VoxelCoord
	dirty    bool
}

// Enclose estende a região para conter o voxel dado.
func (d *DirtyRegion) Enclose(c util.VoxelCoord) {
	d.lock.Lock()
	if !d.dirty {
		d.min = c
		d.max = c
		d.dirty = true
	} else {
		d.min = d.min.MinWith(c)
		d.max = d.max.MaxWith(c)
	}
	d.lock.Unlock()
}

// EncloseRange estende a região para conter a caixa [min, max].
func (d *DirtyRegion) EncloseRange(min, max util.VoxelCoord) {
	d.lock.Lock()
	if !d.dirty {
		d.min = min
		d.max = max
		d.dirty = true
	} else {
		d.min = d.min.MinWith(min)
		d.max = d.max.MaxWith(max)
	}
	d.lock.Unlock()
}

// TakeAndClear devolve a região acumulada e a esvazia em uma única seção
// crítica. ok = false significa que nada mudou desde a última chamada.
func (d *DirtyRegion) TakeAndClear() (min, max util.VoxelCoord, ok bool) {
	d.lock.Lock()
	min, max, ok = d.min, d.max, d.dirty
	d.dirty = false
	d.lock.Unlock()
	return
}

// IsEmpty verifica se há região acumulada, sem consumi-la.
func (d *DirtyRegion) IsEmpty() bool {
	d.lock.Lock()
	empty := !d.dirty
	d.lock.Unlock()
	return empty
}
