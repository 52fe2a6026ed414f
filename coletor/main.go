package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"DrillVision/coletor/internal/recorder"
	"DrillVision/shared/config"
	"DrillVision/shared/pkg/drillproto"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func main() {
	// Garante que o working directory é o mesmo diretório do executável,
	// para que caminhos relativos (saves/, tmp/) funcionem corretamente.
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Log em arquivo para depuração de crash
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/coletor.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			mw := io.MultiWriter(os.Stdout, logFile)
			log.SetOutput(mw)
		}
	}

	log.Println("╔══════════════════════════════════════╗")
	log.Println("║      DrillVision COLETOR v0.1.0      ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}

	rec, err := recorder.OpenInitialize(cfg.DatabaseName)
	if err != nil {
		log.Fatalf("Erro fatal ao abrir o banco de dados: %v", err)
	}

	// Flush periódico: rajadas curtas não podem ficar presas no lote
	go func() {
		for {
			time.Sleep(2 * time.Second)
			rec.Flush()
		}
	}()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(rec, w, r)
	})

	log.Printf("Coletor DrillVision ouvindo em %s", cfg.CollectorAddr)
	if err := http.ListenAndServe(cfg.CollectorAddr, nil); err != nil {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}

// serveWs maneja uma conexão do simulador: cada conexão carrega uma sessão.
func serveWs(rec *recorder.Recorder, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Erro no upgrade do WebSocket: %v", err)
		return
	}
	log.Printf("Simulador conectado: %s", conn.RemoteAddr())

	go func() {
		defer func() {
			conn.Close()
			rec.Flush()
			log.Printf("Simulador desconectado: %s", conn.RemoteAddr())
		}()

		var sessionID string
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Conexão encerrada: %v", err)
				return
			}

			var env drillproto.Envelope
			if err := env.Unmarshal(message); err != nil {
				log.Printf("Erro ao desempacotar envelope: %v", err)
				continue
			}

			switch env.Type {
			case drillproto.EnvelopeSessionMeta:
				var meta drillproto.SessionMeta
				if err := meta.Unmarshal(env.Payload); err != nil {
					log.Printf("Erro ao ler SessionMeta: %v", err)
					continue
				}
				sessionID = meta.SessionID
				if err := rec.BeginSession(&meta); err != nil {
					log.Printf("Erro ao abrir sessão: %v", err)
				}

			case drillproto.EnvelopeVoxelRemoved:
				if sessionID == "" {
					continue // Remoção antes da abertura da sessão: descarta
				}
				var ev drillproto.VoxelRemoved
				if err := ev.Unmarshal(env.Payload); err != nil {
					log.Printf("Erro ao ler VoxelRemoved: %v", err)
					continue
				}
				rec.RecordRemoval(sessionID, &ev)

			case drillproto.EnvelopeSessionEnd:
				var end drillproto.SessionEnd
				if err := end.Unmarshal(env.Payload); err != nil {
					log.Printf("Erro ao ler SessionEnd: %v", err)
					continue
				}
				if err := rec.EndSession(&end); err != nil {
					log.Printf("Erro ao encerrar sessão: %v", err)
				}
				if n, err := rec.CriticalCount(end.SessionID); err == nil && n > 0 {
					log.Printf("AVISO: sessão %s removeu %d voxels de tecido crítico", end.SessionID, n)
				}

			default:
				log.Printf("Tipo de mensagem desconhecido: %d", env.Type)
			}
		}
	}()
}
