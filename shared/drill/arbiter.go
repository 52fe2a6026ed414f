package drill

// errorSlack é a folga mínima que um cursor precisa superar sobre o máximo
// corrente para virar o alvo. Sem ela, ruído de ponto flutuante entre cursores
// com erro quase igual faz o alvo oscilar entre ticks.
const errorSlack = 0.00001

// SelectTarget escolhe o cursor que dita a pose da broca e a força de saída:
// o de maior separação proxy/goal. O cursor de ponta é a linha de base: em
// empate (dentro da folga) ele vence, e entre cursores de haste vence o de
// menor índice. Entradas iguais produzem sempre a mesma escolha.
func SelectTarget(cursors []Cursor) int {
	if len(cursors) == 0 {
		return 0
	}

	target := 0
	for i := range cursors {
		if cursors[i].Role == RoleTip {
			target = i
			break
		}
	}

	maxErr := cursors[target].Error()
	for i := range cursors {
		if i == target {
			continue
		}
		if e := cursors[i].Error(); e > maxErr+errorSlack {
			maxErr = e
			target = i
		}
	}
	return target
}
