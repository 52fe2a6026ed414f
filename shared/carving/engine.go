package carving

import (
	"DrillVision/shared/util"
	"DrillVision/shared/voldata"
)

// Telemetry recebe um evento por voxel removido, com a cor que o voxel tinha
// antes da remoção. As implementações não podem bloquear: o motor roda dentro
// do tick de física.
type Telemetry interface {
	VoxelRemoved(c util.VoxelCoord, original voldata.Color, simTime float64)
}

// Engine remove voxels do volume e mantém a região suja e a telemetria em dia.
type Engine struct {
	grid      *voldata.VoxelGrid
	dirty     *voldata.DirtyRegion
	telemetry Telemetry // Pode ser nil (telemetria desligada)
}

// NewEngine cria o motor de carving sobre a grade e a região suja dadas.
func NewEngine(grid *voldata.VoxelGrid, dirty *voldata.DirtyRegion, telemetry Telemetry) *Engine {
	return &Engine{
		grid:      grid,
		dirty:     dirty,
		telemetry: telemetry,
	}
}

// Carve drena a lista de contato como uma pilha, removendo cada voxel:
// marca Empty, estende a região suja, reporta à telemetria e acusa se algum
// voxel removido era de tecido crítico. Voxels que já viraram Empty entre a
// busca e a remoção são pulados sem reporte duplicado.
func (e *Engine) Carve(list []util.VoxelCoord, simTime float64) (removed int, critical bool) {
	for len(list) > 0 {
		c := list[len(list)-1]
		list = list[:len(list)-1]

		original := e.grid.ColorAt(c)
		if original == voldata.Empty {
			continue
		}

		e.grid.SetColor(c, voldata.Empty)
		e.dirty.Enclose(c)
		removed++

		if voldata.IsCritical(original) {
			critical = true
		}

		if e.telemetry != nil {
			e.telemetry.VoxelRemoved(c, original, simTime)
		}
	}
	return removed, critical
}
