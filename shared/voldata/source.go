package voldata

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	"DrillVision/shared/util"
)

// Número mágico do formato binário de volume ".dvv" (DrillVision Volume).
var volumeMagic = [4]byte{'D', 'V', 'V', '1'}

// VolumeSource é a representação serializável de um volume: dimensões,
// extensões físicas, mapeamento de textura e os dados RGBA crus na ordem
// ix-major (ix*(dimY*dimZ) + iy*dimZ + iz).
type VolumeSource struct {
	DimX, DimY, DimZ int32

	MinCorner, MaxCorner     util.Vector3
	MinTexCoord, MaxTexCoord util.Vector3

	Colors []Color
}

// LoadFile carrega um volume do formato binário do DrillVision.
func LoadFile(path string) (*VolumeSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir volume: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("erro ao ler cabeçalho: %w", err)
	}
	if magic != volumeMagic {
		return nil, fmt.Errorf("arquivo %s não é um volume DrillVision", path)
	}

	src := &VolumeSource{}
	header := []any{
		&src.DimX, &src.DimY, &src.DimZ,
		&src.MinCorner.X, &src.MinCorner.Y, &src.MinCorner.Z,
		&src.MaxCorner.X, &src.MaxCorner.Y, &src.MaxCorner.Z,
		&src.MinTexCoord.X, &src.MinTexCoord.Y, &src.MinTexCoord.Z,
		&src.MaxTexCoord.X, &src.MaxTexCoord.Y, &src.MaxTexCoord.Z,
	}
	for _, field := range header {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("erro ao ler cabeçalho: %w", err)
		}
	}

	if src.DimX < 0 || src.DimY < 0 || src.DimZ < 0 {
		return nil, fmt.Errorf("dimensões inválidas: %dx%dx%d", src.DimX, src.DimY, src.DimZ)
	}

	total := int(src.DimX) * int(src.DimY) * int(src.DimZ)
	raw := make([]byte, total*4)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("erro ao ler dados de voxel: %w", err)
	}

	src.Colors = make([]Color, total)
	for i := 0; i < total; i++ {
		src.Colors[i] = Color{raw[i*4], raw[i*4+1], raw[i*4+2], raw[i*4+3]}
	}

	log.Printf("[Volume] Carregado %s: %dx%dx%d voxels", path, src.DimX, src.DimY, src.DimZ)
	return src, nil
}

// SaveFile grava o volume no formato binário do DrillVision.
func (src *VolumeSource) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo de volume: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if _, err := w.Write(volumeMagic[:]); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	header := []any{
		src.DimX, src.DimY, src.DimZ,
		src.MinCorner.X, src.MinCorner.Y, src.MinCorner.Z,
		src.MaxCorner.X, src.MaxCorner.Y, src.MaxCorner.Z,
		src.MinTexCoord.X, src.MinTexCoord.Y, src.MinTexCoord.Z,
		src.MaxTexCoord.X, src.MaxTexCoord.Y, src.MaxTexCoord.Z,
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
		}
	}

	raw := make([]byte, len(src.Colors)*4)
	for i, c := range src.Colors {
		raw[i*4] = c.R
		raw[i*4+1] = c.G
		raw[i*4+2] = c.B
		raw[i*4+3] = c.A
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("erro ao escrever dados de voxel: %w", err)
	}

	return w.Flush()
}

// SyntheticTemporalBone gera um volume cúbico de demonstração: uma esfera de
// osso ocupando a maior parte da grade, com um canal de tecido protegido
// atravessando-a no eixo Z. Serve para rodar o simulador sem arquivo de volume.
func SyntheticTemporalBone(dim int32) *VolumeSource {
	src := &VolumeSource{
		DimX:        dim,
		DimY:        dim,
		DimZ:        dim,
		MinCorner:   util.Vector3{X: -0.5, Y: -0.5, Z: -0.5},
		MaxCorner:   util.Vector3{X: 0.5, Y: 0.5, Z: 0.5},
		MinTexCoord: util.Vector3{X: 0, Y: 0, Z: 0},
		MaxTexCoord: util.Vector3{X: 1, Y: 1, Z: 1},
		Colors:      make([]Color, int(dim)*int(dim)*int(dim)),
	}

	center := float32(dim-1) / 2
	boneRadius := float32(dim) * 0.42
	canalRadius := float32(dim) * 0.06

	idx := 0
	for i := int32(0); i < dim; i++ {
		for j := int32(0); j < dim; j++ {
			for k := int32(0); k < dim; k++ {
				dx := float32(i) - center
				dy := float32(j) - center
				dz := float32(k) - center

				switch {
				case dx*dx+dy*dy <= canalRadius*canalRadius &&
					dx*dx+dy*dy+dz*dz <= boneRadius*boneRadius:
					src.Colors[idx] = Protected
				case dx*dx+dy*dy+dz*dz <= boneRadius*boneRadius:
					src.Colors[idx] = Bone
				default:
					src.Colors[idx] = Empty
				}
				idx++
			}
		}
	}

	log.Printf("[Volume] Volume sintético gerado: %dx%dx%d voxels", dim, dim, dim)
	return src
}
