package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"log"
	"sync"
	"unsafe"

	"DrillVision/simulador/internal/meshing"
	"DrillVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// ChunkModel é a malha de um chunk do volume residente na GPU.
type ChunkModel struct {
	Chunk   util.VoxelCoord
	Model   rl.Model
	Version int64
	Active  bool
}

// Renderer mantém os modelos por chunk e os desenha com a pose do volume.
type Renderer struct {
	mu     sync.RWMutex
	Models map[util.VoxelCoord]*ChunkModel
}

// NewRenderer cria um novo renderizador.
func NewRenderer() *Renderer {
	return &Renderer{
		Models: make(map[util.VoxelCoord]*ChunkModel),
	}
}

// UploadResult sobe a geometria de um chunk para a GPU, descartando a malha
// anterior do mesmo chunk. Resultados mais velhos que o modelo residente são
// ignorados: um remesh atrasado não pode regredir a superfície.
func (r *Renderer) UploadResult(res meshing.Result) {
	if !rl.IsWindowReady() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.Models[res.Chunk]; ok {
		if old.Version > res.Version {
			return
		}
		if old.Active {
			rl.UnloadModel(old.Model)
		}
		delete(r.Models, res.Chunk)
	}

	if len(res.Geometry.Vertices) == 0 {
		return
	}

	mesh := r.geometryToMesh(res.Geometry)
	rl.UploadMesh(&mesh, false)

	r.Models[res.Chunk] = &ChunkModel{
		Chunk:   res.Chunk,
		Model:   rl.LoadModelFromMesh(mesh),
		Version: res.Version,
		Active:  true,
	}
}

// geometryToMesh monta um rl.Mesh a partir dos buffers Go. Os dados são
// copiados para memória C: o Raylib toma posse deles no UploadMesh/Unload.
func (r *Renderer) geometryToMesh(data meshing.GeometryData) rl.Mesh {
	var mesh rl.Mesh
	vCount := int32(len(data.Vertices) / 3)
	mesh.VertexCount = vCount
	mesh.TriangleCount = vCount / 3

	mesh.Vertices = nil
	mesh.Normals = nil
	mesh.Colors = nil

	if len(data.Vertices) > 0 {
		mesh.Vertices = (*float32)(r.copyToC(unsafe.Pointer(&data.Vertices[0]), len(data.Vertices)*4))
	}
	if len(data.Normals) > 0 {
		mesh.Normals = (*float32)(r.copyToC(unsafe.Pointer(&data.Normals[0]), len(data.Normals)*4))
	}
	if len(data.Colors) > 0 {
		mesh.Colors = (*uint8)(r.copyToC(unsafe.Pointer(&data.Colors[0]), len(data.Colors)))
	}
	return mesh
}

func (r *Renderer) copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	cSlice := unsafe.Slice((*byte)(ptr), size)
	goSlice := unsafe.Slice((*byte)(data), size)
	copy(cSlice, goSlice)
	return ptr
}

// VolumeTransform monta a matriz de desenho a partir da pose do volume.
// A geometria dos chunks está em coordenadas locais do volume.
func VolumeTransform(position util.Vector3, rotation mgl32.Mat3) rl.Matrix {
	m := rotation.Mat4()
	return rl.Matrix{
		M0: m.At(0, 0), M4: m.At(0, 1), M8: m.At(0, 2), M12: position.X,
		M1: m.At(1, 0), M5: m.At(1, 1), M9: m.At(1, 2), M13: position.Y,
		M2: m.At(2, 0), M6: m.At(2, 1), M10: m.At(2, 2), M14: position.Z,
		M3: 0, M7: 0, M11: 0, M15: 1,
	}
}

// Draw desenha todos os chunks com a pose do volume dada.
// Deve ser chamado dentro de BeginMode3D.
func (r *Renderer) Draw(position util.Vector3, rotation mgl32.Mat3) {
	transform := VolumeTransform(position, rotation)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cm := range r.Models {
		if !cm.Active {
			continue
		}
		cm.Model.Transform = transform
		rl.DrawModel(cm.Model, rl.Vector3{}, 1.0, rl.White)
	}
}

// ModelCount retorna quantos chunks têm malha residente na GPU.
func (r *Renderer) ModelCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Models)
}

// Unload descarta todos os modelos da GPU.
func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cm := range r.Models {
		if cm.Active {
			rl.UnloadModel(cm.Model)
		}
	}
	r.Models = make(map[util.VoxelCoord]*ChunkModel)
	log.Println("[Renderer] Modelos descarregados da GPU")
}
