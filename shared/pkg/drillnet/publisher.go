// Package drillnet publica a telemetria da sessão para o coletor via
// WebSocket. O tick de física só toca o buffer circular; toda a I/O de rede
// acontece na goroutine de escrita.
package drillnet

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"DrillVision/shared/pkg/drillproto"
	pkgutil "DrillVision/shared/pkg/util"
	"DrillVision/shared/util"
	"DrillVision/shared/voldata"

	"github.com/gorilla/websocket"
)

const (
	dialRetries   = 10
	dialBackoff   = 2 * time.Second
	queueCapacity = 4096
	drainInterval = 5 * time.Millisecond
)

// Publisher envia eventos de remoção ao coletor. Implementa a interface de
// telemetria do motor de carving: VoxelRemoved enfileira sem bloquear; se o
// buffer encher, o evento é descartado e contado, nunca re-tentado.
type Publisher struct {
	url   string
	queue *pkgutil.RingBuffer[drillproto.VoxelRemoved]

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	dropped uint64
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewPublisher cria o publicador apontando para o endpoint do coletor.
func NewPublisher(url string) *Publisher {
	return &Publisher{
		url:   url,
		queue: pkgutil.NewRingBuffer[drillproto.VoxelRemoved](queueCapacity),
		done:  make(chan struct{}),
	}
}

// Connect disca para o coletor com retentativas e inicia a goroutine de
// escrita. Envia a mensagem de abertura de sessão na conexão.
func (p *Publisher) Connect(meta drillproto.SessionMeta) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var conn *websocket.Conn
	var err error
	for i := 0; i < dialRetries; i++ {
		log.Printf("[Telemetria] Tentativa de conexão %d/%d em %s...", i+1, dialRetries, p.url)
		conn, _, err = dialer.Dial(p.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Telemetria] Coletor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(dialBackoff)
	}
	if err != nil {
		return fmt.Errorf("coletor inalcançável após %d tentativas: %w", dialRetries, err)
	}

	p.mu.Lock()
	p.conn = conn
	p.connected = true
	p.mu.Unlock()

	if err := p.send(drillproto.EnvelopeSessionMeta, &meta); err != nil {
		return fmt.Errorf("erro ao abrir sessão de telemetria: %w", err)
	}

	p.wg.Add(1)
	go p.writeLoop()

	log.Printf("[Telemetria] Conectado ao coletor, sessão %s", meta.SessionID)
	return nil
}

// VoxelRemoved enfileira um evento de remoção. Roda dentro do tick de física:
// nunca bloqueia, nunca toca a rede.
func (p *Publisher) VoxelRemoved(c util.VoxelCoord, original voldata.Color, simTime float64) {
	ev := drillproto.VoxelRemoved{
		X: c.X, Y: c.Y, Z: c.Z,
		RGBA:     drillproto.PackRGBA(original.R, original.G, original.B, original.A),
		SimTime:  simTime,
		Critical: voldata.IsCritical(original),
	}
	if err := p.queue.Enqueue(ev); err != nil {
		atomic.AddUint64(&p.dropped, 1)
	}
}

// Dropped retorna quantos eventos foram descartados por buffer cheio.
func (p *Publisher) Dropped() uint64 {
	return atomic.LoadUint64(&p.dropped)
}

// writeLoop drena o buffer circular e escreve no socket até o Close.
func (p *Publisher) writeLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			p.drain()
			return
		case <-ticker.C:
			p.drain()
		}
	}
}

func (p *Publisher) drain() {
	for {
		ev, err := p.queue.Dequeue()
		if err != nil {
			return
		}
		if err := p.send(drillproto.EnvelopeVoxelRemoved, &ev); err != nil {
			log.Printf("[Telemetria] Erro ao enviar evento: %v", err)
			return
		}
	}
}

func (p *Publisher) send(msgType int32, m interface{ Marshal() ([]byte, error) }) error {
	data, err := drillproto.Wrap(msgType, m)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return fmt.Errorf("publicador desconectado")
	}
	if err := p.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		p.connected = false
		return err
	}
	return nil
}

// Close fecha a sessão: drena o que restou no buffer, envia a mensagem de
// encerramento e fecha o socket.
func (p *Publisher) Close(end drillproto.SessionEnd) {
	close(p.done)
	p.wg.Wait()

	if err := p.send(drillproto.EnvelopeSessionEnd, &end); err != nil {
		log.Printf("[Telemetria] Erro ao encerrar sessão: %v", err)
	}

	p.mu.Lock()
	if p.conn != nil {
		p.conn.Close()
	}
	p.connected = false
	p.mu.Unlock()

	if d := p.Dropped(); d > 0 {
		log.Printf("[Telemetria] %d eventos descartados por buffer cheio", d)
	}
}
