package meshing

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"DrillVision/shared/util"
	"DrillVision/shared/voldata"
)

// ExportOBJ grava a superfície exposta do volume inteiro em um arquivo
// Wavefront OBJ, em coordenadas locais do volume. A varredura roda sobre uma
// cópia das cores, para o export capturar um retrato consistente mesmo com o
// tick de física escavando ao mesmo tempo.
func ExportOBJ(grid *voldata.VoxelGrid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo OBJ: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# DrillVision volume export")
	fmt.Fprintln(w, "o volume")

	dimX, dimY, dimZ := grid.Dimensions()
	size := grid.VoxelSize()
	minCorner, _ := grid.Extents()

	colors := grid.SnapshotColors()
	colorAt := func(c util.VoxelCoord) voldata.Color {
		return colors[(int(c.X)*int(dimY)+int(c.Y))*int(dimZ)+int(c.Z)]
	}

	vertIdx := 1
	faceCount := 0
	for i := int32(0); i < dimX; i++ {
		for j := int32(0); j < dimY; j++ {
			for k := int32(0); k < dimZ; k++ {
				c := util.NewVoxelCoord(i, j, k)
				if colorAt(c) == voldata.Empty {
					continue
				}

				baseX := minCorner.X + float32(i)*size[0]
				baseY := minCorner.Y + float32(j)*size[1]
				baseZ := minCorner.Z + float32(k)*size[2]

				for _, face := range faces {
					nb := c.Add(face.neighbor)
					if grid.InBounds(nb) && colorAt(nb) != voldata.Empty {
						continue
					}

					for _, corner := range face.verts {
						fmt.Fprintf(w, "v %g %g %g\n",
							baseX+corner[0]*size[0],
							baseY+corner[1]*size[1],
							baseZ+corner[2]*size[2])
					}
					fmt.Fprintf(w, "f %d %d %d %d\n", vertIdx, vertIdx+1, vertIdx+2, vertIdx+3)
					vertIdx += 4
					faceCount++
				}
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("erro ao gravar arquivo OBJ: %w", err)
	}

	log.Printf("[Export] %s gravado: %d faces", path, faceCount)
	return nil
}
