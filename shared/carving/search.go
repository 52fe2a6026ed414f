package carving

import (
	"DrillVision/shared/util"
	"DrillVision/shared/voldata"
)

// countCornersInSphere conta quantos dos 8 cantos do voxel caem dentro da
// esfera, por distância ao quadrado (sem sqrt no caminho quente).
func countCornersInSphere(grid *voldata.VoxelGrid, c util.VoxelCoord, center util.Vector3, radiusSq float32) int {
	corners := grid.CornersOf(c)
	n := 0
	for _, p := range corners {
		if util.DistSq(p, center) <= radiusSq {
			n++
		}
	}
	return n
}

// FindContactVoxels executa o flood fill de 26-vizinhança a partir do voxel
// semente e retorna os voxels em contato com a superfície da esfera da broca.
//
// Contato é a condição de fronteira parcial: a esfera contém alguns, mas não
// todos, os 8 cantos do voxel. Voxels totalmente engolidos (8/8) e totalmente
// fora (0/8) não entram na lista nem propagam a expansão. A semente sempre é
// visitada e sempre expande, mesmo sem contato, para que a busca não morra
// quando o centro da broca está dentro de um voxel já vazio.
//
// Voxels Empty nunca entram na lista de saída, mas ainda propagam a expansão
// quando estão em contato: a broca atravessa cavidades já escavadas.
func FindContactVoxels(grid *voldata.VoxelGrid, center util.Vector3, radiusSq float32, seed util.VoxelCoord) []util.VoxelCoord {
	if !grid.InBounds(seed) {
		return nil
	}

	frontier := util.NewUniqueQueue[util.VoxelCoord, struct{}]()
	visited := make(map[util.VoxelCoord]bool)

	frontier.Enqueue(seed, struct{}{})
	visited[seed] = true

	var contacts []util.VoxelCoord

	for {
		c, _, ok := frontier.Dequeue()
		if !ok {
			break
		}

		n := countCornersInSphere(grid, c, center, radiusSq)
		contact := n > 0 && n < 8

		if contact && grid.ColorAt(c) != voldata.Empty {
			contacts = append(contacts, c)
		}

		if !contact && !c.Equals(seed) {
			continue
		}

		for _, off := range util.NeighborOffsets26 {
			nb := c.Add(off)
			if visited[nb] || !grid.InBounds(nb) {
				continue
			}
			visited[nb] = true
			frontier.Enqueue(nb, struct{}{})
		}
	}

	return contacts
}
