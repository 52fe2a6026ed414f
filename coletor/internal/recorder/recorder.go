// Package recorder persiste as sessões de perfuração recebidas pelo coletor
// em um banco SQLite via GORM.
package recorder

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"DrillVision/shared/pkg/drillproto"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SessionModel representa o esquema do banco para uma sessão de perfuração.
type SessionModel struct {
	ID           string `gorm:"primaryKey"`
	VolumeFile   string
	DimX         int32
	DimY         int32
	DimZ         int32
	StartedAt    float64
	EndedAt      float64
	RemovedTotal int32
	UpdatedAt    time.Time // Para controle interno do GORM
}

// RemovalModel representa um voxel removido dentro de uma sessão.
type RemovalModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"index:idx_session"`
	X, Y, Z   int32
	RGBA      uint32
	SimTime   float64
	Critical  bool `gorm:"index:idx_critical"`
}

// Tamanho do lote de inserção: remoções chegam em rajadas de milhares por
// segundo, inserir uma a uma mataria o SQLite.
const flushBatchSize = 512

// Recorder acumula remoções em memória e as grava em lotes.
type Recorder struct {
	mu      sync.Mutex
	db      *gorm.DB
	pending []RemovalModel
}

// OpenInitialize abre (ou cria) o banco de dados SQLite e roda migrações.
func OpenInitialize(dbName string) (*Recorder, error) {
	if err := os.MkdirAll("saves", 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join("saves", fmt.Sprintf("%s.db", dbName))

	// Logger silencioso em produção
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&SessionModel{}, &RemovalModel{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	log.Printf("[Persistência] Banco de dados SQLite aberto: %s", dbPath)
	return &Recorder{db: db}, nil
}

// BeginSession registra (ou atualiza) uma sessão a partir da mensagem de abertura.
func (r *Recorder) BeginSession(meta *drillproto.SessionMeta) error {
	model := SessionModel{
		ID:         meta.SessionID,
		VolumeFile: meta.VolumeFile,
		DimX:       meta.DimX,
		DimY:       meta.DimY,
		DimZ:       meta.DimZ,
		StartedAt:  meta.StartedAt,
	}
	if err := r.db.Save(&model).Error; err != nil {
		return fmt.Errorf("erro ao registrar sessão %s: %w", meta.SessionID, err)
	}
	log.Printf("[Persistência] Sessão %s aberta (volume %dx%dx%d)",
		meta.SessionID, meta.DimX, meta.DimY, meta.DimZ)
	return nil
}

// RecordRemoval acumula uma remoção; grava o lote quando ele enche.
func (r *Recorder) RecordRemoval(sessionID string, ev *drillproto.VoxelRemoved) error {
	r.mu.Lock()
	r.pending = append(r.pending, RemovalModel{
		SessionID: sessionID,
		X:         ev.X,
		Y:         ev.Y,
		Z:         ev.Z,
		RGBA:      ev.RGBA,
		SimTime:   ev.SimTime,
		Critical:  ev.Critical,
	})
	full := len(r.pending) >= flushBatchSize
	r.mu.Unlock()

	if full {
		return r.Flush()
	}
	return nil
}

// Flush grava as remoções pendentes em um único insert.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return nil
	}
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	if err := r.db.CreateInBatches(batch, flushBatchSize).Error; err != nil {
		log.Printf("[Persistência] ERRO ao gravar lote de %d remoções: %v", len(batch), err)
		return err
	}
	return nil
}

// EndSession fecha a sessão: grava o que restou e atualiza os totais.
func (r *Recorder) EndSession(end *drillproto.SessionEnd) error {
	if err := r.Flush(); err != nil {
		return err
	}

	err := r.db.Model(&SessionModel{}).
		Where("id = ?", end.SessionID).
		Updates(map[string]any{
			"ended_at":      end.EndedAt,
			"removed_total": end.RemovedTotal,
		}).Error
	if err != nil {
		return fmt.Errorf("erro ao encerrar sessão %s: %w", end.SessionID, err)
	}

	log.Printf("[Persistência] Sessão %s encerrada: %d voxels removidos",
		end.SessionID, end.RemovedTotal)
	return nil
}

// CriticalCount retorna quantas remoções críticas uma sessão registrou.
func (r *Recorder) CriticalCount(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&RemovalModel{}).
		Where("session_id = ? AND critical = ?", sessionID, true).
		Count(&count).Error
	return count, err
}
