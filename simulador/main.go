package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"DrillVision/shared/config"
	"DrillVision/simulador/internal/app"
)

func main() {
	// IMPORTANTE para estabilidade no Windows: Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	// Flags de linha de comando
	volumeFile := flag.String("volume", "", "Arquivo de volume .dvv (padrão: osso temporal sintético)")
	telemetryURL := flag.String("telemetry", "", "URL do coletor de telemetria (padrão: desligada)")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Configurar Log em Arquivo
	f, err := os.OpenFile("debug_dv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO DRILL VISION ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║         DrillVision v0.1.0           ║")
	log.Println("║  Simulador de perfuração volumétrica ║")
	log.Println("╚══════════════════════════════════════╝")

	// Carregar configurações
	cfg := config.Load()

	// Aplicar flags de linha de comando (sobrescrevem o config salvo)
	if *volumeFile != "" {
		cfg.VolumeFile = *volumeFile
	}
	if *telemetryURL != "" {
		cfg.TelemetryURL = *telemetryURL
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[DrillVision] Configuração inválida: %v", err)
	}

	// Criar e rodar a aplicação
	application := app.New(cfg)
	application.Run()
}
