package voldata

// Color representa a cor RGBA de um voxel (profundidade de 1 byte por canal).
type Color struct {
	R, G, B, A uint8
}

// Empty é a cor distinta que marca um voxel já removido.
// Um voxel Empty nunca volta para a lista de contato da busca de colisão.
var Empty = Color{0x00, 0x00, 0x00, 0x00}

// Bone é a cor padrão do osso removível.
var Bone = Color{255, 249, 219, 255}

// Protected é a cor distinta que marca tecido crítico: remover um voxel
// com esta cor levanta a flag de região crítica no tick corrente.
var Protected = Color{196, 30, 58, 255}

// Tissue descreve um tecido nomeado presente no volume.
type Tissue struct {
	Token    string
	Name     string
	Color    Color
	Critical bool // Tecido que dispara o aviso de região crítica ao ser tocado
}

// TissueList é a tabela de tecidos reconhecidos pelo simulador.
// Usada para mapear as cores da textura-fonte para semântica de carving.
var TissueList = []Tissue{
	{"EMPTY", "empty", Empty, false},
	{"BONE_CORTICAL", "cortical bone", Bone, false},
	{"BONE_TRABECULAR", "trabecular bone", Color{230, 219, 172, 255}, false},
	{"AIR_CELL", "mastoid air cell", Color{64, 64, 64, 255}, false},
	{"NERVE_FACIAL", "facial nerve", Protected, true},
	{"DURA", "dura mater", Color{255, 140, 105, 255}, true},
	{"SIGMOID_SINUS", "sigmoid sinus", Color{0, 71, 171, 255}, true},
	{"COCHLEA", "cochlea", Color{153, 102, 204, 255}, true},
}

var criticalColors = buildCriticalSet()

func buildCriticalSet() map[Color]bool {
	set := make(map[Color]bool, len(TissueList))
	for _, t := range TissueList {
		if t.Critical {
			set[t.Color] = true
		}
	}
	return set
}

// IsCritical verifica se a cor pertence a um tecido crítico.
// Cores fora da tabela são tratadas como não-críticas.
func IsCritical(c Color) bool {
	return criticalColors[c]
}
