package util

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Lerp realiza interpolação linear entre dois floats.
func Lerp(start, end, amount float32) float32 {
	return start + amount*(end-start)
}

// DistSq retorna a distância quadrada entre dois vetores 3D.
// O teste de canto-dentro-da-esfera usa esta forma para evitar a raiz quadrada.
func DistSq(v1, v2 rl.Vector3) float32 {
	dx := v1.X - v2.X
	dy := v1.Y - v2.Y
	dz := v1.Z - v2.Z
	return dx*dx + dy*dy + dz*dz
}

// Dist retorna a distância entre dois vetores 3D.
func Dist(v1, v2 rl.Vector3) float32 {
	return float32(math.Sqrt(float64(DistSq(v1, v2))))
}

// Length retorna a magnitude de um vetor 3D.
func Length(v rl.Vector3) float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Max retorna o maior de dois int32.
func Max(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Min retorna o menor de dois int32.
func Min(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// Clamp limita um float32 ao intervalo [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
