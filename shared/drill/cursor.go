package drill

import "DrillVision/shared/util"

// Role distingue a função de um cursor na ferramenta. Decisões de pose e de
// carving checam o papel do cursor, nunca a posição dele no slice.
type Role int

const (
	// RoleTip é o cursor da ponta da broca: é o único que escava.
	RoleTip Role = iota
	// RoleShaft é um cursor intermediário da haste: só restringe a pose.
	RoleShaft
)

// Cursor é um ponto de colisão da ferramenta. Goal é a posição comandada pelo
// dispositivo háptico; Proxy é a posição restrita pela superfície do volume.
// Quando não há contato, as duas coincidem.
type Cursor struct {
	Role   Role
	Index  int // Posição ao longo da haste, 0 = ponta
	Radius float32
	Goal   util.Vector3
	Proxy  util.Vector3
}

// Error retorna a separação proxy/goal do cursor. Zero significa cursor livre.
func (c *Cursor) Error() float32 {
	return util.Dist(c.Proxy, c.Goal)
}
