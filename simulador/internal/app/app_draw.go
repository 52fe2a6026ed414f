package app

import (
	"fmt"

	"DrillVision/shared/drill"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena e o HUD a partir de um retrato da sessão.
func (a *App) draw() {
	snap := a.session.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	a.drawScene(snap)
	a.drawHUD(snap)

	rl.EndDrawing()
}

// drawScene renderiza a cena 3D: o volume na pose corrente e a ferramenta.
func (a *App) drawScene(snap drill.RenderState) {
	rl.BeginMode3D(a.Cam.RLCamera)

	a.renderer.Draw(snap.VolumePosition, snap.VolumeRotation)

	if a.showDrill {
		// Ponta da broca na pose suavizada do controlador
		tint := rl.LightGray
		if snap.Critical {
			tint = rl.Red
		}
		rl.DrawSphere(snap.DrillPosition, snap.BurrRadius, tint)

		// Haste: da ponta até o último cursor, pelo caminho dos proxies
		if n := len(snap.Cursors); n > 1 {
			shaftR := snap.BurrRadius * 0.35
			rl.DrawCylinderEx(snap.DrillPosition, snap.Cursors[n-1].Proxy,
				shaftR, shaftR, 8, rl.Gray)
		}
	}

	if a.Config.ShowProxySpheres {
		for i, c := range snap.Cursors {
			col := rl.Blue
			if i == snap.TargetIdx {
				col = rl.Yellow
			}
			rl.DrawSphereWires(c.Proxy, c.Radius, 6, 6, col)
			rl.DrawLine3D(c.Proxy, c.Goal, rl.Green)
		}
	}

	rl.EndMode3D()
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD(snap drill.RenderState) {
	screenW := int32(rl.GetScreenWidth())

	// Aviso de tecido crítico: banner vermelho no topo enquanto a flag durar
	if snap.Critical {
		rl.DrawRectangle(0, 0, screenW, 48, rl.NewColor(180, 20, 20, 220))
		msg := "AVISO: TECIDO CRITICO REMOVIDO"
		w := rl.MeasureText(msg, 28)
		rl.DrawText(msg, (screenW-w)/2, 12, 28, rl.White)
	}

	// Painel da broca
	rl.DrawRectangle(10, int32(rl.GetScreenHeight())-66, 250, 56, rl.NewColor(0, 0, 0, 180))
	rl.DrawText(fmt.Sprintf("Broca: %d mm", snap.BurrMillimeters),
		20, int32(rl.GetScreenHeight())-58, 20, rl.White)
	mode := "salto direto"
	if snap.SmoothFollow {
		mode = "suave"
	}
	rl.DrawText(fmt.Sprintf("Acompanhamento: %s", mode),
		20, int32(rl.GetScreenHeight())-34, 16, rl.LightGray)

	if snap.Manipulating {
		msg := "MANIPULANDO VOLUME"
		w := rl.MeasureText(msg, 20)
		rl.DrawText(msg, (screenW-w)/2, 60, 20, rl.Orange)
	}

	if a.Config.ShowDebugInfo {
		a.drawDebugPanel(snap)
	}
}

// drawDebugPanel desenha as informações de debug no canto superior direito.
func (a *App) drawDebugPanel(snap drill.RenderState) {
	width := int32(300)
	height := int32(170)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	rl.DrawText(fmt.Sprintf("Voxels removidos: %d", snap.RemovedTotal),
		x+10, y+38, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Chunks na GPU: %d", a.renderer.ModelCount()),
		x+10, y+60, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Forca: (%.2f, %.2f, %.2f)",
		snap.Force.X, snap.Force.Y, snap.Force.Z),
		x+10, y+82, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Cursor alvo: %d", snap.TargetIdx),
		x+10, y+104, 16, rl.White)
	rl.DrawText(fmt.Sprintf("Tempo de simulacao: %.1fs", a.session.SimTime()),
		x+10, y+126, 16, rl.White)

	devPos, _ := a.device.Transform()
	rl.DrawText(fmt.Sprintf("Ferramenta: (%.3f, %.3f, %.3f)",
		devPos.X, devPos.Y, devPos.Z),
		x+10, y+148, 16, rl.LightGray)
}
