package drill

import (
	"testing"

	"DrillVision/shared/util"
)

func cursorWithError(role Role, index int, err float32) Cursor {
	return Cursor{
		Role:  role,
		Index: index,
		Goal:  util.Vector3{X: err},
		Proxy: util.Vector3{},
	}
}

func TestSelectTargetPrefersTipAsBaseline(t *testing.T) {
	cursors := []Cursor{
		cursorWithError(RoleTip, 0, 0.02),
		cursorWithError(RoleShaft, 1, 0.02), // Empate: ponta vence
		cursorWithError(RoleShaft, 2, 0.01),
	}
	if got := SelectTarget(cursors); got != 0 {
		t.Errorf("SelectTarget = %d, esperado 0 (ponta como linha de base)", got)
	}
}

func TestSelectTargetPicksLargestError(t *testing.T) {
	cursors := []Cursor{
		cursorWithError(RoleTip, 0, 0.005),
		cursorWithError(RoleShaft, 1, 0.03),
		cursorWithError(RoleShaft, 2, 0.08),
		cursorWithError(RoleShaft, 3, 0.01),
	}
	if got := SelectTarget(cursors); got != 2 {
		t.Errorf("SelectTarget = %d, esperado 2 (maior erro)", got)
	}
}

func TestSelectTargetEpsilonBreaksTiesTowardLowerIndex(t *testing.T) {
	// Diferença menor que a folga: o primeiro cursor com o erro segura o alvo
	cursors := []Cursor{
		cursorWithError(RoleTip, 0, 0.001),
		cursorWithError(RoleShaft, 1, 0.05),
		cursorWithError(RoleShaft, 2, 0.05+0.000001),
	}
	if got := SelectTarget(cursors); got != 1 {
		t.Errorf("SelectTarget = %d, esperado 1 (folga segura o alvo anterior)", got)
	}
}

func TestSelectTargetDeterministic(t *testing.T) {
	cursors := []Cursor{
		cursorWithError(RoleTip, 0, 0.013),
		cursorWithError(RoleShaft, 1, 0.027),
		cursorWithError(RoleShaft, 2, 0.027),
		cursorWithError(RoleShaft, 3, 0.002),
	}
	first := SelectTarget(cursors)
	for i := 0; i < 100; i++ {
		if got := SelectTarget(cursors); got != first {
			t.Fatalf("SelectTarget oscilou: %d depois %d com a mesma entrada", first, got)
		}
	}
}

func TestSelectTargetAllFree(t *testing.T) {
	cursors := []Cursor{
		cursorWithError(RoleTip, 0, 0),
		cursorWithError(RoleShaft, 1, 0),
		cursorWithError(RoleShaft, 2, 0),
	}
	if got := SelectTarget(cursors); got != 0 {
		t.Errorf("sem contato, o alvo deveria ser a ponta; ficou %d", got)
	}
}

func TestSelectTargetEmpty(t *testing.T) {
	if got := SelectTarget(nil); got != 0 {
		t.Errorf("SelectTarget(nil) = %d, esperado 0", got)
	}
}
